package summarize

import (
	"context"
	"fmt"
	"strings"

	"webnotes-be/internal/apperr"
	"webnotes-be/pkg/llm"
	"webnotes-be/pkg/utils"
)

// Config mirrors the caller-facing summarization knobs.
type Config struct {
	Type   string // "key-points" | "tldr" | "teaser" | "headline"
	Length string // "short" | "medium" | "long"
	Format string // "plain-text" | "markdown"
}

func (c Config) withDefaults() Config {
	if c.Type == "" {
		c.Type = "key-points"
	}
	if c.Length == "" {
		c.Length = "medium"
	}
	if c.Format == "" {
		c.Format = "plain-text"
	}
	return c
}

// Summarizer condenses arbitrarily long note text: input that fits the
// model window is summarized directly; longer input is chunked, each chunk
// summarized, and the concatenated summaries fed back in until short enough.
type Summarizer struct {
	provider llm.Provider

	// MaxInput is the largest text (in characters) handed to the model in
	// one call. ChunkSize/ChunkOverlap drive the splitter for longer input.
	MaxInput     int
	ChunkSize    int
	ChunkOverlap int
	// MaxRounds caps the condense recursion; degenerate model output (a
	// "summary" as long as its input) must not loop forever.
	MaxRounds int
}

func New(provider llm.Provider) *Summarizer {
	return &Summarizer{
		provider:     provider,
		MaxInput:     6000,
		ChunkSize:    1500,
		ChunkOverlap: 200,
		MaxRounds:    4,
	}
}

func (s *Summarizer) Summarize(ctx context.Context, text string, cfg Config) (string, error) {
	if s.provider == nil {
		return "", apperr.ModelUnavailable(fmt.Errorf("no summarization provider configured"))
	}
	cfg = cfg.withDefaults()

	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}

	for round := 0; len(text) > s.MaxInput; round++ {
		if round >= s.MaxRounds {
			// Give up condensing and summarize the truncated remainder.
			text = text[:s.MaxInput]
			break
		}

		chunks := utils.SplitText(text, s.ChunkSize, s.ChunkOverlap)
		partials := make([]string, 0, len(chunks))
		for _, chunk := range chunks {
			partial, err := s.provider.Generate(ctx, s.chunkPrompt(chunk))
			if err != nil {
				return "", err
			}
			partials = append(partials, strings.TrimSpace(partial))
		}
		text = strings.Join(partials, "\n\n")
	}

	summary, err := s.provider.Generate(ctx, s.finalPrompt(text, cfg))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(summary), nil
}

func (s *Summarizer) chunkPrompt(chunk string) string {
	return fmt.Sprintf(
		"Condense the following text, keeping every distinct fact:\n\n%s",
		chunk,
	)
}

func (s *Summarizer) finalPrompt(text string, cfg Config) string {
	return fmt.Sprintf(
		"Write a %s %s summary of the following note in %s format:\n\n%s",
		cfg.Length, cfg.Type, cfg.Format, text,
	)
}
