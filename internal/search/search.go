package search

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"

	"talent-search/internal/embeddings"
	"talent-search/internal/index"
	"talent-search/internal/policy"
)

// Result is one ranked candidate in a search response.
type Result struct {
	Name     string   `json:"name"`
	Position string   `json:"position"`
	Skills   []string `json:"skills"`
	Reason   string   `json:"reason"`
}

// Service runs the query pipeline: validate, embed, search, score.
type Service struct {
	embedder embeddings.Embedder
	policy   policy.ContentPolicy
	index    *index.Lazy
	log      *slog.Logger
}

// NewService wires the pipeline dependencies.
func NewService(embedder embeddings.Embedder, pol policy.ContentPolicy, idx *index.Lazy, log *slog.Logger) *Service {
	return &Service{
		embedder: embedder,
		policy:   pol,
		index:    idx,
		log:      log,
	}
}

// Search resolves a raw query to ranked candidates, best match first.
// Returns ErrNoQuery, ErrRestricted, or ErrNoMatch for the expected
// non-success outcomes; any other error is an operational fault.
func (s *Service) Search(ctx context.Context, query string, k int) ([]Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrNoQuery
	}

	allowed, err := s.policy.Check(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("content policy check: %w", err)
	}
	if !allowed {
		return nil, ErrRestricted
	}

	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		s.log.Error("failed to embed query", "query_hash", queryHash(query), "err", err)
		return nil, fmt.Errorf("embed query: %w", err)
	}

	idx, err := s.index.Get(ctx)
	if err != nil {
		s.log.Error("index build failed", "query_hash", queryHash(query), "err", err)
		return nil, fmt.Errorf("index: %w", err)
	}

	matches := idx.Search(queryVec, k)
	if len(matches) == 0 {
		return nil, ErrNoMatch
	}

	results := make([]Result, len(matches))
	for i, m := range matches {
		results[i] = Result{
			Name:     m.Profile.Name,
			Position: m.Profile.Position,
			Skills:   m.Profile.Skills,
			Reason:   fmt.Sprintf("Match score: %.2f", score(m.Distance)),
		}
	}
	s.log.Info("search completed",
		"query_hash", queryHash(query),
		"corpus_size", idx.Size(),
		"results", len(results),
	)
	return results, nil
}

// Invalidate discards the current index; the next search rebuilds it.
func (s *Service) Invalidate() {
	s.index.Invalidate()
}

// score maps a cosine distance to a displayed match score. Cosine distance
// over unit vectors lands in [0, 2], so 1 - distance is clamped to keep the
// displayed value within [0, 1].
func score(distance float32) float32 {
	sc := 1 - distance
	if sc < 0 {
		return 0
	}
	if sc > 1 {
		return 1
	}
	return sc
}

// queryHash identifies a query in logs without recording its text.
func queryHash(query string) string {
	sum := sha256.Sum256([]byte(query))
	return hex.EncodeToString(sum[:8])
}
