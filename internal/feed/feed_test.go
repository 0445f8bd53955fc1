package feed

import (
	"testing"
	"time"
)

func TestSplitSource(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantTitle  string
		wantSource string
	}{
		{"google news style", "住建部发布智能建造试点名单 - 新华网", "住建部发布智能建造试点名单", "新华网"},
		{"splits on last separator", "BIM-driven design - pilot cities - 人民网", "BIM-driven design - pilot cities", "人民网"},
		{"no separator", "智能建造政策解读", "智能建造政策解读", FallbackSource},
		{"empty source side", "建筑机器人 -", "建筑机器人 -", FallbackSource},
		{"empty title side", "- 新华网", "- 新华网", FallbackSource},
		{"trims whitespace", "  标题   -   来源  ", "标题", "来源"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, source := SplitSource(tt.raw, FallbackSource)
			if title != tt.wantTitle || source != tt.wantSource {
				t.Fatalf("SplitSource(%q) = (%q, %q), want (%q, %q)", tt.raw, title, source, tt.wantTitle, tt.wantSource)
			}
		})
	}
}

func TestNormalizeDate(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		raw      string
		fallback DateFallback
		want     string
	}{
		{"rss pubDate", "Mon, 03 Jun 2024 08:00:00 GMT", TodayFallback(), "2024-06-03"},
		{"rss numeric zone", "Tue, 04 Jun 2024 08:00:00 +0800", TodayFallback(), "2024-06-04"},
		{"rfc3339", "2024-05-30T23:10:00Z", TodayFallback(), "2024-05-30"},
		{"plain date", "2024-01-02", TodayFallback(), "2024-01-02"},
		{"serpapi", "06/05/2024, 07:00 AM, +0000 UTC", TodayFallback(), "2024-06-05"},
		{"relative english", "3 days ago", TodayFallback(), "2024-06-07"},
		{"relative compact", "5h", TodayFallback(), "2024-06-10"},
		{"relative chinese", "2天前", TodayFallback(), "2024-06-08"},
		{"yesterday", "昨天", TodayFallback(), "2024-06-09"},
		{"garbage today fallback", "not a date", TodayFallback(), "2024-06-10"},
		{"garbage fixed fallback", "not a date", FixedFallback(SentinelDate), SentinelDate},
		{"empty fixed fallback", "", FixedFallback(SentinelDate), SentinelDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeDate(tt.raw, now, tt.fallback); got != tt.want {
				t.Fatalf("NormalizeDate(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseDateFallback(t *testing.T) {
	now := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	f, err := ParseDateFallback("today")
	if err != nil || f.Resolve(now) != "2024-06-10" {
		t.Fatalf("today fallback = %v, %v", f.Resolve(now), err)
	}

	f, err = ParseDateFallback("2023-01-01")
	if err != nil || f.Resolve(now) != "2023-01-01" {
		t.Fatalf("fixed fallback = %v, %v", f.Resolve(now), err)
	}

	if _, err := ParseDateFallback("01/01/2023"); err == nil {
		t.Fatal("expected error for malformed fallback date")
	}
}

func TestDatasetHelpers(t *testing.T) {
	now := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	d := Dataset{
		{Title: "A"},
		PlaceholderRecord(now),
		{Title: "B"},
	}

	if got := d.Truncate(2); len(got) != 2 || got[0].Title != "A" {
		t.Fatalf("Truncate(2) = %+v", got)
	}
	if got := d.Truncate(0); len(got) != 3 {
		t.Fatalf("Truncate(0) should not bound, got %d", len(got))
	}

	clean := d.WithoutPlaceholders()
	if len(clean) != 2 {
		t.Fatalf("WithoutPlaceholders() len = %d, want 2", len(clean))
	}

	titles := d.Titles()
	if !titles["A"] || !titles["B"] || !titles[FallbackTitle] {
		t.Fatalf("Titles() = %v", titles)
	}

	p := PlaceholderRecord(now)
	if !p.IsPlaceholder() || p.Summary != "" || p.Date != "2024-06-10" {
		t.Fatalf("PlaceholderRecord() = %+v", p)
	}
}
