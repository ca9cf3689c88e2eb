package policy

import "context"

// ContentPolicy screens queries before they reach the search pipeline.
// A real moderation backend can be substituted without touching the pipeline.
type ContentPolicy interface {
	// Check reports whether the query is acceptable. An error means the
	// policy backend itself failed, not that the query was rejected.
	Check(ctx context.Context, query string) (bool, error)
}

// AllowAll approves every query.
type AllowAll struct{}

func NewAllowAll() *AllowAll {
	return &AllowAll{}
}

func (AllowAll) Check(ctx context.Context, query string) (bool, error) {
	return true, nil
}
