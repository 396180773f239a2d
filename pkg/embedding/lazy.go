package embedding

import (
	"context"
	"sync"

	"webnotes-be/internal/apperr"

	"golang.org/x/sync/singleflight"
)

// Lazy defers provider construction (which may pull a model and take
// seconds) until the first Generate call. Concurrent first callers share one
// in-flight load via singleflight instead of racing; a failed load is not
// memoized, so a later call retries.
type Lazy struct {
	init  func(ctx context.Context) (Provider, error)
	group singleflight.Group

	mu       sync.RWMutex
	provider Provider
}

func NewLazy(init func(ctx context.Context) (Provider, error)) *Lazy {
	return &Lazy{init: init}
}

// Ready reports whether the model finished loading. Callers can surface a
// "still loading" state instead of blocking UI paths on the first call.
func (l *Lazy) Ready() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.provider != nil
}

func (l *Lazy) Generate(ctx context.Context, text string, taskType string) (*Result, error) {
	p, err := l.get(ctx)
	if err != nil {
		return nil, apperr.ModelUnavailable(err)
	}
	return p.Generate(ctx, text, taskType)
}

func (l *Lazy) get(ctx context.Context) (Provider, error) {
	l.mu.RLock()
	p := l.provider
	l.mu.RUnlock()
	if p != nil {
		return p, nil
	}

	v, err, _ := l.group.Do("init", func() (interface{}, error) {
		// Re-check: a previous flight may have finished while we queued.
		l.mu.RLock()
		existing := l.provider
		l.mu.RUnlock()
		if existing != nil {
			return existing, nil
		}

		loaded, err := l.init(ctx)
		if err != nil {
			return nil, err
		}

		l.mu.Lock()
		l.provider = loaded
		l.mu.Unlock()
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Provider), nil
}
