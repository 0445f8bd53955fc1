package serpapi

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	g "github.com/serpapi/google-search-results-golang"

	"github.com/amityadav/policyfeed/internal/feed"
	"github.com/amityadav/policyfeed/internal/search"
)

// ErrMissingKey is returned when no SerpApi key is configured
var ErrMissingKey = errors.New("serpapi: api key is not set")

// Client is a wrapper around the SerpApi Google News search
type Client struct {
	apiKey     string
	opts       search.Options
	httpClient *http.Client
}

// NewClient creates a new SerpApi client
func NewClient(apiKey string, opts search.Options) *Client {
	return &Client{
		apiKey: apiKey,
		opts:   opts.WithDefaults(),
	}
}

// WithHTTPClient replaces the HTTP client used for SerpApi requests
func (c *Client) WithHTTPClient(client *http.Client) *Client {
	c.httpClient = client
	return c
}

// Name returns the source identifier
func (c *Client) Name() string {
	return "serpapi"
}

// Search implements search.Source using the Google News vertical (tbm=nws)
func (c *Client) Search(ctx context.Context, keyword string) search.Result {
	if c.apiKey == "" {
		return search.Failed(c.Name(), keyword, ErrMissingKey)
	}

	parameter := map[string]string{
		"engine": "google",
		"q":      keyword,
		"tbm":    "nws",
		"gl":     "cn",
		"hl":     "zh-cn",
		"num":    strconv.Itoa(c.opts.MaxResults),
	}

	log.Printf("[SerpApi] Searching news for: %q", keyword)

	type reply struct {
		data map[string]interface{}
		err  error
	}
	done := make(chan reply, 1)
	go func() {
		s := g.NewGoogleSearch(parameter, c.apiKey)
		if c.httpClient != nil {
			s.HttpSearch = c.httpClient
		}
		data, err := s.GetJSON()
		done <- reply{data, err}
	}()

	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	select {
	case <-ctx.Done():
		return search.Failed(c.Name(), keyword, fmt.Errorf("serpapi search: %w", ctx.Err()))
	case r := <-done:
		if r.err != nil {
			return search.Failed(c.Name(), keyword, fmt.Errorf("serpapi search failed: %w", r.err))
		}
		records := c.parseNews(r.data)
		log.Printf("[SerpApi] Found %d news results", len(records))
		return search.Succeeded(c.Name(), keyword, records)
	}
}

// parseNews extracts records from the news_results node
func (c *Client) parseNews(data map[string]interface{}) []feed.Record {
	newsResults, ok := data["news_results"].([]interface{})
	if !ok {
		log.Printf("[SerpApi] No news_results found in response")
		return nil
	}

	var records []feed.Record
	for _, item := range newsResults {
		res, ok := item.(map[string]interface{})
		if !ok {
			continue
		}

		title, _ := res["title"].(string)
		link, _ := res["link"].(string)
		date, _ := res["date"].(string)
		if title == "" {
			continue
		}

		// source is either a plain name or an object with a name field
		var publisher string
		switch s := res["source"].(type) {
		case string:
			publisher = s
		case map[string]interface{}:
			publisher, _ = s["name"].(string)
		}

		records = append(records, c.opts.Record(title, link, date, publisher))
		if len(records) >= c.opts.MaxResults {
			break
		}
	}
	return records
}
