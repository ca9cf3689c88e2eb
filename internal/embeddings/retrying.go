package embeddings

import (
	"context"
	"time"

	"talent-search/internal/retry"
)

// Retrying wraps an Embedder with bounded exponential-backoff retries.
// Provider failures are transient often enough that a couple of retries
// beat surfacing every blip as a 500.
type Retrying struct {
	inner    Embedder
	attempts int
	base     time.Duration
}

// NewRetrying builds a retrying decorator around inner.
func NewRetrying(inner Embedder, attempts int, base time.Duration) *Retrying {
	if attempts <= 0 {
		attempts = 1
	}
	if base <= 0 {
		base = 200 * time.Millisecond
	}
	return &Retrying{inner: inner, attempts: attempts, base: base}
}

func (r *Retrying) Embed(ctx context.Context, text string) (Vector, error) {
	var vec Vector
	err := retry.Do(ctx, r.attempts, r.base, func(ctx context.Context) error {
		var err error
		vec, err = r.inner.Embed(ctx, text)
		return err
	})
	if err != nil {
		return nil, err
	}
	return vec, nil
}

func (r *Retrying) EmbedBatch(ctx context.Context, texts []string) ([]Vector, error) {
	var vecs []Vector
	err := retry.Do(ctx, r.attempts, r.base, func(ctx context.Context) error {
		var err error
		vecs, err = r.inner.EmbedBatch(ctx, texts)
		return err
	})
	if err != nil {
		return nil, err
	}
	return vecs, nil
}
