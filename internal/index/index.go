package index

import (
	"context"
	"fmt"
	"sort"

	"talent-search/internal/embeddings"
	"talent-search/internal/employee"
)

// Index is an in-memory nearest-neighbor index over employee profiles.
// Built once, then read-only; safe for concurrent Search calls.
type Index struct {
	profiles []employee.Profile
	vectors  []embeddings.Vector
}

// Match pairs a profile with its cosine distance to the query vector.
type Match struct {
	Profile  employee.Profile
	Distance float32
}

// Build embeds every profile description in one batch and stores the
// (vector, profile) pairs in insertion order. Any embedding failure fails
// the whole build; there is no partial index.
func Build(ctx context.Context, profiles []employee.Profile, embedder embeddings.Embedder) (*Index, error) {
	idx := &Index{profiles: profiles}
	if len(profiles) == 0 {
		return idx, nil
	}

	texts := make([]string, len(profiles))
	for i, p := range profiles {
		texts[i] = p.Description
	}
	vectors, err := embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed profiles: %w", err)
	}
	if len(vectors) != len(profiles) {
		return nil, fmt.Errorf("embed profiles: got %d vectors for %d profiles", len(vectors), len(profiles))
	}
	idx.vectors = vectors
	return idx, nil
}

// Size reports the number of indexed profiles.
func (idx *Index) Size() int {
	return len(idx.profiles)
}

// Search returns the k nearest profiles by cosine distance, ascending.
// Ties keep insertion order. k larger than the corpus returns everything.
func (idx *Index) Search(query embeddings.Vector, k int) []Match {
	if k <= 0 || len(idx.profiles) == 0 {
		return nil
	}

	matches := make([]Match, len(idx.profiles))
	for i := range idx.profiles {
		matches[i] = Match{
			Profile:  idx.profiles[i],
			Distance: embeddings.CosineDistance(query, idx.vectors[i]),
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})

	if k > len(matches) {
		k = len(matches)
	}
	return matches[:k]
}
