package search

import (
	"strings"
	"time"

	"github.com/amityadav/policyfeed/internal/feed"
)

// Options carries the normalization policy every source applies to raw items.
type Options struct {
	Timeout        time.Duration
	MaxResults     int
	DateFallback   feed.DateFallback
	FallbackSource string
	Now            func() time.Time
}

// WithDefaults fills unset fields.
func (o Options) WithDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = feed.DefaultFetchTimeout
	}
	if o.MaxResults <= 0 {
		o.MaxResults = 20
	}
	if o.FallbackSource == "" {
		o.FallbackSource = feed.FallbackSource
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Record normalizes a raw upstream item. When the upstream names its publisher,
// that label wins and a matching " - Publisher" suffix is trimmed from the title;
// otherwise the publisher is split off the title heuristically.
func (o Options) Record(rawTitle, link, rawDate, publisher string) feed.Record {
	var title, source string

	publisher = strings.TrimSpace(publisher)
	if publisher != "" {
		title = strings.TrimSpace(rawTitle)
		if idx := strings.LastIndex(title, feed.TitleSeparator); idx >= 0 && strings.TrimSpace(title[idx+len(feed.TitleSeparator):]) == publisher {
			if head := strings.TrimSpace(title[:idx]); head != "" {
				title = head
			}
		}
		source = publisher
	} else {
		title, source = feed.SplitSource(rawTitle, o.FallbackSource)
	}

	return feed.Record{
		Title:  title,
		Link:   strings.TrimSpace(link),
		Date:   feed.NormalizeDate(rawDate, o.Now(), o.DateFallback),
		Source: source,
	}
}
