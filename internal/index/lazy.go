package index

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// BuildFunc constructs the index; it runs at most once per lifecycle.
type BuildFunc func(ctx context.Context) (*Index, error)

// Lazy defers index construction to the first Get and memoizes the result
// for the process lifetime. Concurrent first callers share one in-flight
// build via singleflight. Invalidate discards the cached index so the next
// Get rebuilds from scratch.
type Lazy struct {
	build BuildFunc

	mu    sync.RWMutex
	idx   *Index
	group singleflight.Group
}

const buildKey = "build"

// NewLazy wraps build in a lazily-initialized holder.
func NewLazy(build BuildFunc) *Lazy {
	return &Lazy{build: build}
}

// Get returns the memoized index, building it on first use. A failed build
// is not memoized; the next caller retries.
func (l *Lazy) Get(ctx context.Context) (*Index, error) {
	l.mu.RLock()
	idx := l.idx
	l.mu.RUnlock()
	if idx != nil {
		return idx, nil
	}

	v, err, _ := l.group.Do(buildKey, func() (any, error) {
		// A racing caller may have finished the build between the read
		// lock above and joining the flight.
		l.mu.RLock()
		idx := l.idx
		l.mu.RUnlock()
		if idx != nil {
			return idx, nil
		}

		built, err := l.build(ctx)
		if err != nil {
			return nil, err
		}
		l.mu.Lock()
		l.idx = built
		l.mu.Unlock()
		return built, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Index), nil
}

// Invalidate drops the cached index. In-flight searches keep their snapshot;
// subsequent Get calls trigger a rebuild.
func (l *Lazy) Invalidate() {
	l.mu.Lock()
	l.idx = nil
	l.mu.Unlock()
	l.group.Forget(buildKey)
}
