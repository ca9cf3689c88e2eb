package search

import "errors"

var (
	// ErrNoQuery means the query was missing or whitespace-only.
	ErrNoQuery = errors.New("no query provided")

	// ErrRestricted means the content policy rejected the query.
	ErrRestricted = errors.New("query rejected by content policy")

	// ErrNoMatch means the search completed but found nothing.
	ErrNoMatch = errors.New("no matching employees")
)
