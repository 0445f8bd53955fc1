package notifications

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"
	_ "time/tzdata"

	"github.com/robfig/cron/v3"

	"github.com/amityadav/policyfeed/internal/core"
)

// Runner executes one pipeline run
type Runner interface {
	Run(ctx context.Context, opts core.RunOptions) (*core.RunReport, error)
}

// Worker runs the pipeline on a cron schedule
type Worker struct {
	runner   Runner
	opts     core.RunOptions
	schedule string
	cron     *cron.Cron
	running  atomic.Bool
}

// NewWorker creates a new scheduled worker. tz is an IANA zone name such as Asia/Shanghai.
func NewWorker(runner Runner, opts core.RunOptions, schedule, tz string) (*Worker, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", tz, err)
	}
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
	}

	logger := cron.PrintfLogger(log.Default())
	return &Worker{
		runner:   runner,
		opts:     opts,
		schedule: schedule,
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
	}, nil
}

// Start schedules the pipeline and starts the cron loop
func (w *Worker) Start() error {
	log.Println("[Worker] Starting scheduler...")

	_, err := w.cron.AddFunc(w.schedule, func() {
		log.Println("[Worker] Running scheduled pipeline job...")
		_, err := w.RunNow(context.Background())
		switch {
		case errors.Is(err, core.ErrRunInProgress):
			log.Println("[Worker] Skipping scheduled run, a triggered run is in progress")
		case err != nil:
			log.Printf("[Worker] Scheduled run failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule pipeline job: %w", err)
	}

	w.cron.Start()
	log.Printf("[Worker] Scheduled pipeline at %q (%s)", w.schedule, w.cron.Location())
	return nil
}

// Stop stops the scheduler and waits for a running job to finish
func (w *Worker) Stop() {
	<-w.cron.Stop().Done()
	log.Println("[Worker] Stopped")
}

// RunNow runs the pipeline immediately. It returns core.ErrRunInProgress
// if a scheduled or triggered run is still going.
func (w *Worker) RunNow(ctx context.Context) (*core.RunReport, error) {
	if !w.running.CompareAndSwap(false, true) {
		return nil, core.ErrRunInProgress
	}
	defer w.running.Store(false)
	return w.runner.Run(ctx, w.opts)
}

// Trigger starts a run in the background. It returns core.ErrRunInProgress
// instead of queueing a second run.
func (w *Worker) Trigger() error {
	if !w.running.CompareAndSwap(false, true) {
		return core.ErrRunInProgress
	}
	go func() {
		defer w.running.Store(false)
		log.Println("[Worker] Running triggered pipeline job (async)...")
		if _, err := w.runner.Run(context.Background(), w.opts); err != nil {
			log.Printf("[Worker] Triggered run failed: %v", err)
		}
	}()
	return nil
}
