package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/amityadav/policyfeed/internal/feed"
	"github.com/amityadav/policyfeed/internal/search"
)

const apiURL = "https://api.tavily.com/search"

// Client is a Tavily Search API client
type Client struct {
	apiKey  string
	baseURL string
	days    int
	opts    search.Options
	client  *http.Client
}

// NewClient creates a new Tavily API client
func NewClient(apiKey string, days int, opts search.Options) *Client {
	opts = opts.WithDefaults()
	if days <= 0 {
		days = 7
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: apiURL,
		days:    days,
		opts:    opts,
		client:  search.NewHTTPClient(opts.Timeout),
	}
}

// WithBaseURL points the client at a different endpoint
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}

// SearchRequest represents the Tavily search request payload
type SearchRequest struct {
	Query       string `json:"query"`
	APIKey      string `json:"api_key"`
	SearchDepth string `json:"search_depth,omitempty"` // "basic" or "advanced"
	Topic       string `json:"topic,omitempty"`        // "general" or "news"
	Days        int    `json:"days,omitempty"`         // Only for "news" topic - max age in days
	MaxResults  int    `json:"max_results,omitempty"`
}

// SearchResult represents a single search result from Tavily
type SearchResult struct {
	Title         string  `json:"title"`
	URL           string  `json:"url"`
	Content       string  `json:"content"`
	Score         float64 `json:"score"`
	PublishedDate string  `json:"published_date,omitempty"` // For news topic
}

// SearchResponse represents the Tavily search response
type SearchResponse struct {
	Query        string         `json:"query"`
	Results      []SearchResult `json:"results"`
	ResponseTime float64        `json:"response_time"`
}

// Name returns the source identifier
func (c *Client) Name() string {
	return "tavily"
}

// Search implements search.Source
func (c *Client) Search(ctx context.Context, keyword string) search.Result {
	resp, err := c.searchNews(ctx, keyword)
	if err != nil {
		return search.Failed(c.Name(), keyword, err)
	}

	records := make([]feed.Record, 0, len(resp.Results))
	for _, r := range resp.Results {
		records = append(records, c.opts.Record(r.Title, r.URL, r.PublishedDate, ""))
	}
	return search.Succeeded(c.Name(), keyword, records)
}

func (c *Client) searchNews(ctx context.Context, query string) (*SearchResponse, error) {
	reqBody := SearchRequest{
		Query:       query,
		APIKey:      c.apiKey,
		SearchDepth: "basic",
		Topic:       "news",
		Days:        c.days,
		MaxResults:  c.opts.MaxResults,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	log.Printf("[Tavily] Searching for: %q (max %d results, days=%d)", query, reqBody.MaxResults, reqBody.Days)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	log.Printf("[Tavily] Response status: %d", resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: %d %s", search.ErrUnexpectedStatus, resp.StatusCode, string(bodyBytes))
	}

	var searchResp SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	log.Printf("[Tavily] Found %d results for query: %s", len(searchResp.Results), query)
	return &searchResp, nil
}
