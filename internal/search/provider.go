package search

import (
	"context"

	"github.com/amityadav/policyfeed/internal/feed"
)

// Source is the interface all upstream feed sources must implement
type Source interface {
	// Name returns the source identifier (e.g., "google-rss", "tavily")
	Name() string

	// Search fetches candidate records for one keyword. One attempt, no retries.
	Search(ctx context.Context, keyword string) Result
}

// Result is the outcome of a single source call. Exactly one of Records or Err is meaningful.
type Result struct {
	Source  string
	Keyword string
	Records []feed.Record
	Err     error
}

// OK reports whether the call succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// Succeeded builds a successful result.
func Succeeded(source, keyword string, records []feed.Record) Result {
	return Result{Source: source, Keyword: keyword, Records: records}
}

// Failed builds a failed result.
func Failed(source, keyword string, err error) Result {
	return Result{Source: source, Keyword: keyword, Err: err}
}
