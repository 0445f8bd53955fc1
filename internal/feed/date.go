package feed

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateFallback decides what date a record gets when its timestamp cannot be parsed.
// The zero value falls back to the run's current date.
type DateFallback struct {
	fixed string
}

// TodayFallback resolves to the date of the clock passed to Resolve.
func TodayFallback() DateFallback {
	return DateFallback{}
}

// FixedFallback always resolves to date, which must be in DateLayout form.
func FixedFallback(date string) DateFallback {
	return DateFallback{fixed: date}
}

// ParseDateFallback accepts "today" (or empty) and YYYY-MM-DD.
func ParseDateFallback(s string) (DateFallback, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "today") {
		return TodayFallback(), nil
	}
	if _, err := time.Parse(DateLayout, s); err != nil {
		return DateFallback{}, fmt.Errorf("invalid date fallback %q: %w", s, err)
	}
	return FixedFallback(s), nil
}

// Resolve returns the fallback date for a run happening at now.
func (f DateFallback) Resolve(now time.Time) string {
	if f.fixed != "" {
		return f.fixed
	}
	return now.Format(DateLayout)
}

func (f DateFallback) String() string {
	if f.fixed != "" {
		return f.fixed
	}
	return "today"
}

var dateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC3339,
	time.RFC822Z,
	time.RFC822,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	"Mon, 02 Jan 2006",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006, 03:04 PM, -0700 MST",
	"01/02/2006",
	"Jan 2, 2006",
	"2 Jan 2006",
	"2006年1月2日",
}

var relativeDate = regexp.MustCompile(`^(\d+)\s*(分钟|小时|天|周|minutes?|mins?|m|hours?|hrs?|h|days?|d|weeks?|w)\s*(前|ago)?$`)

// NormalizeDate converts a publication timestamp into YYYY-MM-DD.
// Relative ages ("3 hours ago", "2d", "5天前") are resolved against now.
// Anything unparseable yields fallback.Resolve(now).
func NormalizeDate(raw string, now time.Time, fallback DateFallback) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback.Resolve(now)
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(DateLayout)
		}
	}

	if t, ok := parseRelative(raw, now); ok {
		return t.Format(DateLayout)
	}

	return fallback.Resolve(now)
}

func parseRelative(raw string, now time.Time) (time.Time, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch s {
	case "today", "今天", "刚刚", "just now":
		return now, true
	case "yesterday", "昨天":
		return now.AddDate(0, 0, -1), true
	}

	m := relativeDate.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return time.Time{}, false
	}

	switch unit := m[2]; {
	case unit == "分钟" || strings.HasPrefix(unit, "m"):
		return now.Add(-time.Duration(n) * time.Minute), true
	case unit == "小时" || strings.HasPrefix(unit, "h"):
		return now.Add(-time.Duration(n) * time.Hour), true
	case unit == "天" || strings.HasPrefix(unit, "d"):
		return now.AddDate(0, 0, -n), true
	case unit == "周" || strings.HasPrefix(unit, "w"):
		return now.AddDate(0, 0, -7*n), true
	}
	return time.Time{}, false
}
