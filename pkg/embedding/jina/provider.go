package jina

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"webnotes-be/internal/apperr"
	"webnotes-be/pkg/embedding"
)

// JinaProvider is the hosted alternative to the local Ollama model.
// jina-embeddings-v3 supports native retrieval task types and a
// configurable output dimension, which we pin to the store's.
type JinaProvider struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

type embeddingRequest struct {
	Model      string   `json:"model"`
	Task       string   `json:"task"`
	Dimensions int      `json:"dimensions"`
	Input      []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Object    string    `json:"object"`
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func NewJinaProvider(apiKey string) *JinaProvider {
	return &JinaProvider{
		apiKey:  apiKey,
		baseURL: "https://api.jina.ai/v1/embeddings",
		model:   "jina-embeddings-v3",
		client:  &http.Client{},
	}
}

func (p *JinaProvider) Generate(ctx context.Context, text string, taskType string) (*embedding.Result, error) {
	task := "retrieval.passage"
	if taskType == embedding.TaskQuery {
		// Jina applies its own query instruction internally, no prefix here.
		task = "retrieval.query"
	}

	reqBody := embeddingRequest{
		Model:      p.model,
		Task:       task,
		Dimensions: embedding.Dimension,
		Input:      []string{text},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, apperr.ComputeFailed(fmt.Errorf("failed to marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, apperr.ComputeFailed(fmt.Errorf("failed to create request: %w", err))
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", p.apiKey))

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, apperr.ComputeFailed(fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, apperr.ComputeFailed(fmt.Errorf("jina api error (status %d): %s", resp.StatusCode, string(bodyBytes)))
	}

	var jinaResp embeddingResponse
	if err := json.Unmarshal(bodyBytes, &jinaResp); err != nil {
		return nil, apperr.ComputeFailed(fmt.Errorf("failed to decode response: %w", err))
	}

	if jinaResp.Error != nil {
		return nil, apperr.ComputeFailed(fmt.Errorf("jina api returned error: %s", jinaResp.Error.Message))
	}

	if len(jinaResp.Data) == 0 {
		return nil, apperr.ComputeFailed(fmt.Errorf("empty embeddings from jina api"))
	}

	values := jinaResp.Data[0].Embedding
	if len(values) != embedding.Dimension {
		return nil, apperr.ComputeFailed(fmt.Errorf(
			"jina returned %d dimensions, store requires %d",
			len(values), embedding.Dimension,
		))
	}

	return &embedding.Result{Values: embedding.Normalize(values)}, nil
}
