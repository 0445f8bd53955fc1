package enrich

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/amityadav/policyfeed/internal/ai"
	"github.com/amityadav/policyfeed/internal/feed"
)

func newServer(t *testing.T, status int, body string, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSummarizeMissingCredential(t *testing.T) {
	var hits int32
	srv := newServer(t, http.StatusOK, `{"choices":[{"message":{"content":"x"}}]}`, &hits)

	p := ai.NewBaseProvider(ai.ProviderConfig{Name: "DeepSeek", BaseURL: srv.URL})
	s := NewSummarizer(p, Config{Enabled: p.HasCredential()})

	out := s.Summarize(context.Background(), "智能建造新政")
	if out.Status != StatusNoCredential || out.Text != feed.MissingKeyPlaceholder {
		t.Fatalf("Summarize() = %+v", out)
	}
	if hits != 0 {
		t.Fatalf("endpoint received %d requests, want 0", hits)
	}

	if out := NewSummarizer(nil, Config{Enabled: true}).Summarize(context.Background(), "t"); out.Status != StatusNoCredential {
		t.Errorf("nil provider = %+v", out)
	}
}

func TestSummarizeOutcomes(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus Status
		wantText   string
	}{
		{"success", http.StatusOK, `{"choices":[{"message":{"content":"政策推动建筑机器人落地。"}}]}`, StatusOK, "政策推动建筑机器人落地。"},
		{"server error", http.StatusInternalServerError, `oops`, StatusFailed, feed.FailurePlaceholder},
		{"malformed", http.StatusOK, `not json`, StatusFailed, feed.FailurePlaceholder},
		{"no choices", http.StatusOK, `{"choices":[]}`, StatusFailed, feed.FailurePlaceholder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hits int32
			srv := newServer(t, tt.status, tt.body, &hits)
			p := ai.NewBaseProvider(ai.ProviderConfig{Name: "DeepSeek", BaseURL: srv.URL, APIKey: "sk"})

			out := NewSummarizer(p, Config{Enabled: true}).Summarize(context.Background(), "标题")
			if out.Status != tt.wantStatus || out.Text != tt.wantText {
				t.Errorf("Summarize() = %+v, want %v %q", out, tt.wantStatus, tt.wantText)
			}
			if tt.wantStatus == StatusFailed && out.Err == nil {
				t.Error("expected Err on failure")
			}
			if hits != 1 {
				t.Errorf("hits = %d, want exactly one attempt", hits)
			}
		})
	}
}

func TestSummarizeTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	p := ai.NewBaseProvider(ai.ProviderConfig{Name: "Slow", BaseURL: srv.URL, APIKey: "sk"})
	out := NewSummarizer(p, Config{Enabled: true, Timeout: 50 * time.Millisecond}).Summarize(context.Background(), "t")
	if out.Status != StatusFailed || out.Text != feed.FailurePlaceholder {
		t.Fatalf("Summarize() = %+v", out)
	}
}

func TestSummarizeThrottles(t *testing.T) {
	var hits int32
	srv := newServer(t, http.StatusOK, `{"choices":[{"message":{"content":"ok"}}]}`, &hits)
	p := ai.NewBaseProvider(ai.ProviderConfig{Name: "DeepSeek", BaseURL: srv.URL, APIKey: "sk"})
	s := NewSummarizer(p, Config{Enabled: true, Delay: 100 * time.Millisecond})

	start := time.Now()
	for i := 0; i < 3; i++ {
		if out := s.Summarize(context.Background(), "t"); out.Status != StatusOK {
			t.Fatalf("call %d: %+v", i, out)
		}
	}
	if elapsed := time.Since(start); elapsed < 180*time.Millisecond {
		t.Errorf("three calls took %v, want at least two delays", elapsed)
	}
}
