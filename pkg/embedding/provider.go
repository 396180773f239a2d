package embedding

import (
	"context"
	"math"
)

// Dimension is the fixed embedding width for the whole store. Both vector
// columns and every provider are pinned to it.
const Dimension = 1024

// Task types distinguish document embeddings from query embeddings. The
// models are tuned for asymmetric retrieval: embedding a query as a document
// degrades ranking quality.
const (
	TaskDocument = "RETRIEVAL_DOCUMENT"
	TaskQuery    = "RETRIEVAL_QUERY"
)

// QueryPrefix is the retrieval instruction prepended to query text before
// extraction (mxbai-embed-large's prompt for asymmetric search).
const QueryPrefix = "Represent this sentence for searching relevant passages: "

type Result struct {
	Values []float32
}

// Provider turns text into a fixed-length, unit-normalized vector.
type Provider interface {
	Generate(ctx context.Context, text string, taskType string) (*Result, error)
}

// Normalize scales a vector to unit length so cosine similarity reduces to
// a dot product downstream.
func Normalize(vec []float32) []float32 {
	var magnitude float64
	for _, v := range vec {
		magnitude += float64(v) * float64(v)
	}
	magnitude = math.Sqrt(magnitude)

	if magnitude == 0 {
		return vec
	}

	normalized := make([]float32, len(vec))
	for i, v := range vec {
		normalized[i] = float32(float64(v) / magnitude)
	}
	return normalized
}
