package scraper

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/amityadav/policyfeed/internal/feed"
	"github.com/amityadav/policyfeed/internal/search"
)

const defaultBaseURL = "https://cn.bing.com/news/search"

// Scraper reads the Bing News HTML result page. It complements the RSS endpoints,
// which Bing sometimes serves empty for long-tail Chinese keywords.
type Scraper struct {
	baseURL string
	opts    search.Options
	client  *http.Client
}

// NewScraper creates a new HTML news source
func NewScraper(opts search.Options) *Scraper {
	return NewScraperWithBaseURL(defaultBaseURL, opts)
}

// NewScraperWithBaseURL creates a scraper against a custom results page
func NewScraperWithBaseURL(baseURL string, opts search.Options) *Scraper {
	opts = opts.WithDefaults()
	return &Scraper{
		baseURL: baseURL,
		opts:    opts,
		client:  search.NewHTTPClient(opts.Timeout),
	}
}

// Name returns the source identifier
func (s *Scraper) Name() string {
	return "bing-html"
}

// Search implements search.Source
func (s *Scraper) Search(ctx context.Context, keyword string) search.Result {
	records, err := s.scrape(ctx, keyword)
	if err != nil {
		return search.Failed(s.Name(), keyword, err)
	}
	return search.Succeeded(s.Name(), keyword, records)
}

func (s *Scraper) scrape(ctx context.Context, keyword string) ([]feed.Record, error) {
	pageURL := s.baseURL + "?q=" + url.QueryEscape(keyword)
	log.Printf("[Scraper] Fetching URL: %s", pageURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Browser-like headers; the results page 403s bare clients
	req.Header.Set("User-Agent", search.BrowserUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "zh-CN,zh;q=0.9,en;q=0.8")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch url: %w", err)
	}
	defer resp.Body.Close()

	log.Printf("[Scraper] Response status: %d", resp.StatusCode)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", search.ErrUnexpectedStatus, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	return s.extract(doc), nil
}

// extract walks news cards. Cards carry their data as attributes; the anchor
// and source line are fallbacks for older layouts.
func (s *Scraper) extract(doc *goquery.Document) []feed.Record {
	var records []feed.Record

	doc.Find("div.news-card").EachWithBreak(func(i int, card *goquery.Selection) bool {
		if len(records) >= s.opts.MaxResults {
			return false
		}

		anchor := card.Find("a.title").First()

		title := strings.TrimSpace(card.AttrOr("data-title", ""))
		if title == "" {
			title = strings.TrimSpace(anchor.Text())
		}
		if title == "" {
			return true
		}

		link := card.AttrOr("url", "")
		if link == "" {
			link = anchor.AttrOr("href", "")
		}

		publisher := strings.TrimSpace(card.AttrOr("data-author", ""))
		if publisher == "" {
			publisher = strings.TrimSpace(card.Find("div.source a").First().Text())
		}

		age := strings.TrimSpace(card.Find("div.source span[aria-label]").First().AttrOr("aria-label", ""))

		records = append(records, s.opts.Record(title, link, age, publisher))
		return true
	})

	log.Printf("[Scraper] Extracted %d news cards", len(records))
	return records
}
