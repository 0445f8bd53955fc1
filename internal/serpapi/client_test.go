package serpapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/amityadav/policyfeed/internal/feed"
	"github.com/amityadav/policyfeed/internal/search"
)

func TestParseNews(t *testing.T) {
	now := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	c := NewClient("key", search.Options{MaxResults: 2, Now: func() time.Time { return now }})

	data := map[string]interface{}{
		"news_results": []interface{}{
			map[string]interface{}{"title": "住建部发布智能建造新政", "link": "https://a.example/1", "source": "新华网", "date": "2 天前"},
			"garbage",
			map[string]interface{}{"title": "", "link": "https://a.example/skip"},
			map[string]interface{}{"title": "建筑机器人标准出台", "link": "https://a.example/2", "source": map[string]interface{}{"name": "人民网"}},
			map[string]interface{}{"title": "over the limit", "link": "https://a.example/3"},
		},
	}

	got := c.parseNews(data)
	want := []feed.Record{
		{Title: "住建部发布智能建造新政", Link: "https://a.example/1", Date: "2024-06-08", Source: "新华网"},
		{Title: "建筑机器人标准出台", Link: "https://a.example/2", Date: "2024-06-10", Source: "人民网"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d records, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("record %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestParseNewsMissingNode(t *testing.T) {
	c := NewClient("key", search.Options{})
	if got := c.parseNews(map[string]interface{}{"organic_results": []interface{}{}}); len(got) != 0 {
		t.Fatalf("expected no records, got %+v", got)
	}
}

func TestSearchWithoutKey(t *testing.T) {
	res := NewClient("", search.Options{}).Search(context.Background(), "智能建造")
	if !errors.Is(res.Err, ErrMissingKey) {
		t.Fatalf("err = %v, want ErrMissingKey", res.Err)
	}
}

// rewriteTransport sends every request to the test server instead of serpapi.com
type rewriteTransport struct {
	target *url.URL
	query  url.Values
}

func (t *rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.query = req.URL.Query()
	req.URL.Scheme = t.target.Scheme
	req.URL.Host = t.target.Host
	return http.DefaultTransport.RoundTrip(req)
}

func TestSearchNews(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("path = %s, want /search", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"news_results": [{"title": "智能建造试点城市名单公布", "link": "https://a.example/1", "source": {"name": "新华网"}, "date": "2024-06-09"}]}`)
	}))
	defer srv.Close()

	target, _ := url.Parse(srv.URL)
	transport := &rewriteTransport{target: target}
	c := NewClient("key", search.Options{}).WithHTTPClient(&http.Client{Transport: transport})

	res := c.Search(context.Background(), "智能建造")
	if res.Err != nil {
		t.Fatalf("Search() error: %v", res.Err)
	}
	if len(res.Records) != 1 || res.Records[0].Source != "新华网" || res.Records[0].Date != "2024-06-09" {
		t.Errorf("records = %+v", res.Records)
	}
	if transport.query.Get("tbm") != "nws" || transport.query.Get("api_key") != "key" || transport.query.Get("q") != "智能建造" {
		t.Errorf("query = %v", transport.query)
	}
}

func TestSearchAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"error": "Invalid API key."}`)
	}))
	defer srv.Close()

	target, _ := url.Parse(srv.URL)
	c := NewClient("bad", search.Options{}).WithHTTPClient(&http.Client{Transport: &rewriteTransport{target: target}})

	res := c.Search(context.Background(), "智能建造")
	if res.Err == nil || !strings.Contains(res.Err.Error(), "Invalid API key") {
		t.Fatalf("err = %v, want the API error message", res.Err)
	}
}
