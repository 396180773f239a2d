package apperr

import (
	"errors"
	"fmt"
)

// Sentinel errors classifying every failure the service layer can surface.
// Wrap them with %w and test with errors.Is; the HTTP error handler maps
// each class to a status code.
var (
	// ErrNotFound: the referenced row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrStoreUnavailable: the database cannot be reached or a statement
	// failed for infrastructural reasons.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrModelUnavailable: an AI provider (embedding or language model)
	// could not be initialized or reached.
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrComputeFailed: the provider was reachable but the computation
	// itself failed (bad response, wrong dimension, provider-side error).
	ErrComputeFailed = errors.New("compute failed")
)

func NotFound(what string, id int64) error {
	return fmt.Errorf("%s %d: %w", what, id, ErrNotFound)
}

func StoreUnavailable(err error) error {
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}

func ModelUnavailable(err error) error {
	return fmt.Errorf("%w: %v", ErrModelUnavailable, err)
}

func ComputeFailed(err error) error {
	return fmt.Errorf("%w: %v", ErrComputeFailed, err)
}
