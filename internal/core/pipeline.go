package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/amityadav/policyfeed/internal/enrich"
	"github.com/amityadav/policyfeed/internal/feed"
	"github.com/amityadav/policyfeed/internal/store"
)

// ErrRunInProgress is returned when a run is requested while another is still going
var ErrRunInProgress = errors.New("pipeline run already in progress")

// Fetcher collects candidate records for a set of keywords
type Fetcher interface {
	Fetch(ctx context.Context, keywords []string) []feed.Record
}

// Notifier announces newly inserted records
type Notifier interface {
	NotifyNewRecords(ctx context.Context, records []feed.Record) error
}

// RunRecorder keeps run history
type RunRecorder interface {
	Append(ctx context.Context, rec *store.RunRecord) error
}

// RunOptions parameterizes a single pipeline run
type RunOptions struct {
	Mode     string
	Keywords []string
	Merge    MergeOptions
}

// RunReport summarizes a finished run
type RunReport struct {
	ID         string
	Mode       string
	StartedAt  time.Time
	FinishedAt time.Time
	Stats      MergeStats
	Total      int
	New        []feed.Record
	Fallback   bool
	Err        error
}

// PipelineCore runs fetch, merge and persist for the dataset
type PipelineCore struct {
	store    store.Store
	fetcher  Fetcher
	enricher enrich.Enricher
	notifier Notifier
	runLog   RunRecorder
	now      func() time.Time

	// runMu serializes runs; mu guards last and listeners only
	runMu     sync.Mutex
	mu        sync.Mutex
	last      *RunReport
	listeners []func(*RunReport)
}

// NewPipelineCore creates a new PipelineCore. notifier and runLog may be nil.
func NewPipelineCore(st store.Store, fetcher Fetcher, enricher enrich.Enricher, notifier Notifier, runLog RunRecorder) *PipelineCore {
	return &PipelineCore{
		store:    st,
		fetcher:  fetcher,
		enricher: enricher,
		notifier: notifier,
		runLog:   runLog,
		now:      time.Now,
	}
}

// WithClock overrides the clock used for run timestamps and the fallback record
func (c *PipelineCore) WithClock(now func() time.Time) *PipelineCore {
	c.now = now
	return c
}

// OnRunFinished registers fn to be called after every run
func (c *PipelineCore) OnRunFinished(fn func(*RunReport)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// LastRun returns the report of the most recent run, or nil
func (c *PipelineCore) LastRun() *RunReport {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// Records returns the currently persisted dataset
func (c *PipelineCore) Records(ctx context.Context) feed.Dataset {
	return c.store.Load(ctx)
}

// Run performs one full run. Runs never overlap. Only a failed save is returned as an error.
func (c *PipelineCore) Run(ctx context.Context, opts RunOptions) (*RunReport, error) {
	c.runMu.Lock()
	defer c.runMu.Unlock()

	report := &RunReport{
		ID:        uuid.NewString(),
		Mode:      opts.Mode,
		StartedAt: c.now(),
	}
	log.Printf("[PipelineCore.Run] Starting %s run %s with %d keywords", opts.Mode, report.ID, len(opts.Keywords))

	existing := c.store.Load(ctx)
	fetched := c.fetcher.Fetch(ctx, opts.Keywords)

	merged, stats := Merge(ctx, fetched, existing, c.enricher, opts.Merge)
	report.Stats = stats
	report.New = newRecords(merged, existing)
	log.Printf("[PipelineCore.Run] Fetched %d, duplicates %d, inserted %d, enriched %d (failed %d), skipped %d, truncated %d",
		stats.Fetched, stats.Duplicates, stats.Inserted, stats.Enriched, stats.Failed, stats.Skipped, stats.Truncated)

	if len(merged) == 0 {
		log.Printf("[PipelineCore.Run] Nothing to persist, writing fallback record")
		merged = feed.Dataset{feed.PlaceholderRecord(c.now())}
		report.Fallback = true
	}
	report.Total = len(merged)

	if err := c.store.Save(ctx, merged); err != nil {
		report.Err = fmt.Errorf("failed to save dataset: %w", err)
		log.Printf("[PipelineCore.Run] %v", report.Err)
	}

	if report.Err == nil && len(report.New) > 0 && c.notifier != nil {
		if err := c.notifier.NotifyNewRecords(ctx, report.New); err != nil {
			log.Printf("[PipelineCore.Run] Notification failed: %v", err)
		}
	}

	report.FinishedAt = c.now()
	c.record(ctx, report)

	c.mu.Lock()
	c.last = report
	listeners := append([]func(*RunReport){}, c.listeners...)
	c.mu.Unlock()
	for _, fn := range listeners {
		fn(report)
	}

	log.Printf("[PipelineCore.Run] Run %s finished: %d records persisted", report.ID, report.Total)
	return report, report.Err
}

func (c *PipelineCore) record(ctx context.Context, report *RunReport) {
	if c.runLog == nil {
		return
	}
	rec := &store.RunRecord{
		ID:         report.ID,
		Mode:       report.Mode,
		StartedAt:  report.StartedAt,
		FinishedAt: report.FinishedAt,
		Fetched:    report.Stats.Fetched,
		Inserted:   report.Stats.Inserted,
		Enriched:   report.Stats.Enriched,
		Duplicates: report.Stats.Duplicates,
		Total:      report.Total,
	}
	if report.Err != nil {
		rec.Error = report.Err.Error()
	}
	if err := c.runLog.Append(ctx, rec); err != nil {
		log.Printf("[PipelineCore.Run] Failed to append run log: %v", err)
	}
}

// newRecords returns records of merged whose titles are absent from existing
func newRecords(merged, existing feed.Dataset) []feed.Record {
	seen := existing.Titles()
	var out []feed.Record
	for _, r := range merged {
		if !seen[r.Title] {
			out = append(out, r)
		}
	}
	return out
}
