package feed

import "strings"

// SplitSource separates a "Headline - Publisher" title into its parts.
// The split happens on the last separator so hyphens inside the headline survive.
// Titles without a separator, or with an empty side after trimming, keep the
// whole trimmed title and get fallback as their source.
func SplitSource(raw, fallback string) (title, source string) {
	raw = strings.TrimSpace(raw)

	idx := strings.LastIndex(raw, TitleSeparator)
	if idx < 0 {
		return raw, fallback
	}

	title = strings.TrimSpace(raw[:idx])
	source = strings.TrimSpace(raw[idx+len(TitleSeparator):])
	if title == "" || source == "" {
		return raw, fallback
	}
	return title, source
}
