package search

import (
	"context"
	"log"
	"strings"

	"github.com/amityadav/policyfeed/internal/feed"
)

// Fetcher fans a keyword list out over every registered source, sequentially.
type Fetcher struct {
	registry *Registry
}

// NewFetcher creates a fetcher over the given registry
func NewFetcher(registry *Registry) *Fetcher {
	return &Fetcher{registry: registry}
}

// Fetch returns all records found for keywords, in fetch order (keyword-major, then source).
// Failed calls are logged and contribute nothing; Fetch itself never fails.
// Duplicate titles across sources are kept here and resolved by the merge step.
func (f *Fetcher) Fetch(ctx context.Context, keywords []string) []feed.Record {
	var records []feed.Record
	failed := 0

	for _, keyword := range keywords {
		keyword = strings.TrimSpace(keyword)
		if keyword == "" {
			continue
		}

		for _, src := range f.registry.GetAll() {
			res := src.Search(ctx, keyword)
			if !res.OK() {
				failed++
				log.Printf("[Fetcher] %s failed for %q: %v", src.Name(), keyword, res.Err)
				continue
			}

			kept := 0
			for _, r := range res.Records {
				if strings.TrimSpace(r.Title) == "" {
					continue
				}
				records = append(records, r)
				kept++
			}
			log.Printf("[Fetcher] %s returned %d records for %q", src.Name(), kept, keyword)
		}
	}

	log.Printf("[Fetcher] Collected %d records (%d failed calls)", len(records), failed)
	return records
}
