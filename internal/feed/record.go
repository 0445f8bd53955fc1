package feed

import "time"

// Record is a single news/policy item. Title is the dedup key.
type Record struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Date    string `json:"date"`
	Source  string `json:"source"`
	Summary string `json:"summary,omitempty"`
}

// IsPlaceholder reports whether r is the system record written when a run finds nothing.
func (r Record) IsPlaceholder() bool {
	return r.Source == SystemSource
}

// Dataset is the ordered, title-unique collection persisted between runs.
// Index 0 is the most recent insertion.
type Dataset []Record

// Titles returns the set of titles in d.
func (d Dataset) Titles() map[string]bool {
	seen := make(map[string]bool, len(d))
	for _, r := range d {
		seen[r.Title] = true
	}
	return seen
}

// Truncate returns the first max records of d. A non-positive max means no bound.
func (d Dataset) Truncate(max int) Dataset {
	if max <= 0 || len(d) <= max {
		return d
	}
	return d[:max]
}

// WithoutPlaceholders returns d minus any system placeholder records.
func (d Dataset) WithoutPlaceholders() Dataset {
	out := make(Dataset, 0, len(d))
	for _, r := range d {
		if !r.IsPlaceholder() {
			out = append(out, r)
		}
	}
	return out
}

// PlaceholderRecord builds the record persisted when a run ends with an empty dataset.
func PlaceholderRecord(now time.Time) Record {
	return Record{
		Title:  FallbackTitle,
		Link:   FallbackLink,
		Date:   now.Format(DateLayout),
		Source: SystemSource,
	}
}
