package core

import (
	"context"
	"log"
	"sort"

	"github.com/amityadav/policyfeed/internal/enrich"
	"github.com/amityadav/policyfeed/internal/feed"
)

// MergeOptions bounds a single merge
type MergeOptions struct {
	// MaxRecords caps the merged dataset, keeping the front. <= 0 means unbounded.
	MaxRecords int
	// EnrichCap caps enricher invocations. Once reached, remaining new records are not processed.
	// <= 0 means unbounded.
	EnrichCap int
	// SortByDate re-sorts the merged dataset by date, newest first, before truncation.
	SortByDate bool
}

// MergeStats describes what a merge did
type MergeStats struct {
	Fetched    int
	Duplicates int
	Inserted   int
	Enriched   int
	Failed     int
	Skipped    int
	Truncated  int
}

// Merge folds fetched into existing. Titles already seen are skipped and never enriched;
// each new record is summarized and inserted at the front, so the last new fetched record
// ends up first. existing is not modified.
func Merge(ctx context.Context, fetched []feed.Record, existing feed.Dataset, enricher enrich.Enricher, opts MergeOptions) (feed.Dataset, MergeStats) {
	stats := MergeStats{Fetched: len(fetched)}
	seen := existing.Titles()

	var added []feed.Record
	for i, rec := range fetched {
		if seen[rec.Title] {
			stats.Duplicates++
			continue
		}

		if rec.IsPlaceholder() {
			rec.Summary = feed.NoSummary
		} else {
			if opts.EnrichCap > 0 && stats.Enriched >= opts.EnrichCap {
				stats.Skipped = countNew(fetched[i:], seen)
				log.Printf("[Merge] Enrichment cap %d reached, leaving %d new records for a later run", opts.EnrichCap, stats.Skipped)
				break
			}
			out := enricher.Summarize(ctx, rec.Title)
			stats.Enriched++
			if out.Status != enrich.StatusOK {
				stats.Failed++
			}
			rec.Summary = out.Text
		}

		added = append(added, rec)
		seen[rec.Title] = true
	}
	stats.Inserted = len(added)

	base := existing
	if stats.Inserted > 0 {
		for _, rec := range added {
			if !rec.IsPlaceholder() {
				base = existing.WithoutPlaceholders()
				break
			}
		}
	}

	merged := make(feed.Dataset, 0, len(added)+len(base))
	for i := len(added) - 1; i >= 0; i-- {
		merged = append(merged, added[i])
	}
	merged = append(merged, base...)

	if opts.SortByDate {
		SortByDate(merged)
	}

	truncated := merged.Truncate(opts.MaxRecords)
	stats.Truncated = len(merged) - len(truncated)
	return truncated, stats
}

// SortByDate orders d by date descending, keeping insertion order between equal dates
func SortByDate(d feed.Dataset) {
	sort.SliceStable(d, func(i, j int) bool {
		return d[i].Date > d[j].Date
	})
}

// countNew counts distinct unseen titles in rest
func countNew(rest []feed.Record, seen map[string]bool) int {
	pending := make(map[string]bool)
	for _, rec := range rest {
		if !seen[rec.Title] {
			pending[rec.Title] = true
		}
	}
	return len(pending)
}
