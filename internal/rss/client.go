package rss

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"

	"github.com/amityadav/policyfeed/internal/feed"
	"github.com/amityadav/policyfeed/internal/search"
	gofeedrss "github.com/mmcdole/gofeed/rss"
)

// Endpoint describes an RSS search endpoint. URLTemplate takes the escaped keyword via %s.
type Endpoint struct {
	Name        string
	URLTemplate string
}

var (
	// GoogleNews searches Google News in simplified Chinese.
	GoogleNews = Endpoint{
		Name:        "google-rss",
		URLTemplate: "https://news.google.com/rss/search?q=%s&hl=zh-CN&gl=CN&ceid=CN:zh-CN",
	}

	// BingNews searches Bing News (China) in RSS mode.
	BingNews = Endpoint{
		Name:        "bing-rss",
		URLTemplate: "https://cn.bing.com/news/search?q=%s&format=rss",
	}
)

// Client is an RSS search source
type Client struct {
	endpoint Endpoint
	opts     search.Options
	client   *http.Client
}

// NewClient creates a new RSS source for endpoint
func NewClient(endpoint Endpoint, opts search.Options) *Client {
	opts = opts.WithDefaults()
	return &Client{
		endpoint: endpoint,
		opts:     opts,
		client:   search.NewHTTPClient(opts.Timeout),
	}
}

// Name returns the source identifier
func (c *Client) Name() string {
	return c.endpoint.Name
}

// Search implements search.Source
func (c *Client) Search(ctx context.Context, keyword string) search.Result {
	records, err := c.fetch(ctx, keyword)
	if err != nil {
		return search.Failed(c.Name(), keyword, err)
	}
	return search.Succeeded(c.Name(), keyword, records)
}

func (c *Client) fetch(ctx context.Context, keyword string) ([]feed.Record, error) {
	feedURL := fmt.Sprintf(c.endpoint.URLTemplate, url.QueryEscape(keyword))
	log.Printf("[RSS.%s] Fetching %q", c.endpoint.Name, keyword)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", search.BrowserUserAgent)
	req.Header.Set("Accept", "application/rss+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", search.ErrUnexpectedStatus, resp.StatusCode)
	}

	parser := &gofeedrss.Parser{}
	parsed, err := parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	records := make([]feed.Record, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if len(records) >= c.opts.MaxResults {
			break
		}
		records = append(records, c.toRecord(item))
	}

	log.Printf("[RSS.%s] Parsed %d items for %q", c.endpoint.Name, len(records), keyword)
	return records, nil
}

func (c *Client) toRecord(item *gofeedrss.Item) feed.Record {
	publisher := ""
	if item.Source != nil {
		publisher = item.Source.Title
	}

	rec := c.opts.Record(item.Title, item.Link, item.PubDate, publisher)
	if item.PubDateParsed != nil {
		rec.Date = item.PubDateParsed.Format(feed.DateLayout)
	}
	return rec
}
