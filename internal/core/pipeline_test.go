package core

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/amityadav/policyfeed/internal/ai"
	"github.com/amityadav/policyfeed/internal/enrich"
	"github.com/amityadav/policyfeed/internal/feed"
	"github.com/amityadav/policyfeed/internal/store"
)

type staticFetcher struct {
	records []feed.Record
	calls   int
}

func (f *staticFetcher) Fetch(ctx context.Context, keywords []string) []feed.Record {
	f.calls++
	return f.records
}

type memStore struct {
	data    feed.Dataset
	saveErr error
	saves   int
}

func (s *memStore) Load(ctx context.Context) feed.Dataset {
	return append(feed.Dataset{}, s.data...)
}

func (s *memStore) Save(ctx context.Context, d feed.Dataset) error {
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.data = append(feed.Dataset{}, d...)
	return nil
}

func (s *memStore) Close() {}

type recordingNotifier struct {
	got [][]feed.Record
}

func (n *recordingNotifier) NotifyNewRecords(ctx context.Context, records []feed.Record) error {
	n.got = append(n.got, records)
	return nil
}

type memRunLog struct {
	runs []*store.RunRecord
}

func (l *memRunLog) Append(ctx context.Context, rec *store.RunRecord) error {
	l.runs = append(l.runs, rec)
	return nil
}

var fixedNow = func() time.Time { return time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC) }

func TestPipelineRunEmptyFetchWritesFallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	st := store.NewJSONFileStore(path, 60)
	runLog := &memRunLog{}

	p := NewPipelineCore(st, &staticFetcher{}, &countingEnricher{}, nil, runLog).WithClock(fixedNow)
	report, err := p.Run(context.Background(), RunOptions{Mode: "run", Keywords: []string{"智能建造"}})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if !report.Fallback || report.Total != 1 {
		t.Errorf("report = %+v", report)
	}

	got := st.Load(context.Background())
	want := feed.PlaceholderRecord(fixedNow())
	if len(got) != 1 || got[0] != want {
		t.Fatalf("persisted = %+v, want [%+v]", got, want)
	}
	if len(runLog.runs) != 1 || runLog.runs[0].ID != report.ID || runLog.runs[0].Mode != "run" {
		t.Errorf("run log = %+v", runLog.runs)
	}
}

func TestPipelineRunInsertsAndNotifies(t *testing.T) {
	st := &memStore{data: feed.Dataset{rec("A", "2024-01-01")}}
	fetcher := &staticFetcher{records: []feed.Record{rec("A", "2024-01-01"), rec("B", "2024-01-02")}}
	notifier := &recordingNotifier{}

	p := NewPipelineCore(st, fetcher, &countingEnricher{}, notifier, nil)
	var seen *RunReport
	p.OnRunFinished(func(r *RunReport) { seen = r })

	opts := RunOptions{Mode: "run", Merge: MergeOptions{MaxRecords: 60, EnrichCap: 5}}
	report, err := p.Run(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	assertTitles(t, st.data, "B", "A")
	if len(notifier.got) != 1 || len(notifier.got[0]) != 1 || notifier.got[0][0].Title != "B" {
		t.Errorf("notifications = %+v", notifier.got)
	}
	if seen != report || p.LastRun() != report {
		t.Error("listener or LastRun did not receive the report")
	}

	// second run over the same batch inserts nothing and sends nothing
	report, _ = p.Run(context.Background(), opts)
	if report.Stats.Inserted != 0 || len(notifier.got) != 1 {
		t.Errorf("replay report = %+v, notifications = %d", report.Stats, len(notifier.got))
	}
	assertTitles(t, st.data, "B", "A")
}

func TestPipelineRunSaveFailure(t *testing.T) {
	saveErr := errors.New("disk full")
	st := &memStore{saveErr: saveErr}
	runLog := &memRunLog{}
	notifier := &recordingNotifier{}

	p := NewPipelineCore(st, &staticFetcher{records: []feed.Record{rec("A", "2024-01-01")}}, &countingEnricher{}, notifier, runLog)
	report, err := p.Run(context.Background(), RunOptions{Mode: "run"})
	if !errors.Is(err, saveErr) {
		t.Fatalf("err = %v, want wrapped save error", err)
	}
	if report == nil || report.Err == nil {
		t.Fatal("report should carry the error")
	}
	if len(notifier.got) != 0 {
		t.Error("should not notify after a failed save")
	}
	if len(runLog.runs) != 1 || runLog.runs[0].Error == "" {
		t.Errorf("run log = %+v", runLog.runs)
	}
}

func TestPipelineMissingCredentialMakesNoRequest(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	provider := ai.NewBaseProvider(ai.ProviderConfig{Name: "DeepSeek", BaseURL: srv.URL})
	summarizer := enrich.NewSummarizer(provider, enrich.Config{Enabled: provider.HasCredential()})
	st := &memStore{}

	p := NewPipelineCore(st, &staticFetcher{records: []feed.Record{rec("新政", "2024-06-01")}}, summarizer, nil, nil)
	if _, err := p.Run(context.Background(), RunOptions{Mode: "run", Merge: MergeOptions{EnrichCap: 5}}); err != nil {
		t.Fatal(err)
	}
	if len(st.data) != 1 || st.data[0].Summary != feed.MissingKeyPlaceholder {
		t.Fatalf("persisted = %+v", st.data)
	}
	if hits != 0 {
		t.Errorf("enrichment endpoint received %d requests", hits)
	}
}

type blockingFetcher struct {
	started chan struct{}
	release chan struct{}
}

func (f *blockingFetcher) Fetch(ctx context.Context, keywords []string) []feed.Record {
	close(f.started)
	<-f.release
	return nil
}

func TestPipelineLastRunDuringRun(t *testing.T) {
	fetcher := &blockingFetcher{started: make(chan struct{}), release: make(chan struct{})}
	p := NewPipelineCore(&memStore{}, fetcher, &countingEnricher{}, nil, nil).WithClock(fixedNow)

	done := make(chan error, 1)
	go func() {
		_, err := p.Run(context.Background(), RunOptions{Mode: "serve"})
		done <- err
	}()
	<-fetcher.started

	got := make(chan *RunReport, 1)
	go func() { got <- p.LastRun() }()
	select {
	case last := <-got:
		if last != nil {
			t.Errorf("LastRun() = %+v before any run finished", last)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("LastRun blocked while a run was in progress")
	}

	close(fetcher.release)
	if err := <-done; err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if last := p.LastRun(); last == nil || last.Mode != "serve" {
		t.Errorf("LastRun() = %+v after the run", last)
	}
}
