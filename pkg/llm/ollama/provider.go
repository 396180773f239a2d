package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"webnotes-be/internal/apperr"
)

type Provider struct {
	BaseURL string
	Model   string
	client  *http.Client
}

func NewProvider(baseURL string, model string) *Provider {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "llama3"
	}
	return &Provider{
		BaseURL: baseURL,
		Model:   model,
		client:  &http.Client{},
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

func (p *Provider) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := generateRequest{
		Model:  p.Model,
		Prompt: prompt,
		Stream: false,
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", apperr.ComputeFailed(err)
	}

	endpoint := fmt.Sprintf("%s/api/generate", p.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", apperr.ComputeFailed(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		// Connection refused means the model runtime is not there at all.
		return "", apperr.ModelUnavailable(err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperr.ComputeFailed(err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", apperr.ComputeFailed(fmt.Errorf("ollama generate error: %s", string(bodyBytes)))
	}

	var genResp generateResponse
	if err := json.Unmarshal(bodyBytes, &genResp); err != nil {
		return "", apperr.ComputeFailed(err)
	}
	if genResp.Error != "" {
		return "", apperr.ComputeFailed(fmt.Errorf("ollama generate error: %s", genResp.Error))
	}

	return genResp.Response, nil
}
