package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/amityadav/policyfeed/internal/core"
)

type fakeRunner struct {
	calls []core.RunOptions
}

func (f *fakeRunner) Run(ctx context.Context, opts core.RunOptions) (*core.RunReport, error) {
	f.calls = append(f.calls, opts)
	return &core.RunReport{Mode: opts.Mode}, nil
}

func TestNewWorkerValidates(t *testing.T) {
	if _, err := NewWorker(&fakeRunner{}, core.RunOptions{}, "0 */6 * * *", "Mars/Olympus"); err == nil {
		t.Error("expected timezone error")
	}
	if _, err := NewWorker(&fakeRunner{}, core.RunOptions{}, "every tuesday", "Asia/Shanghai"); err == nil {
		t.Error("expected schedule error")
	}
}

func TestWorkerRunNowAndLifecycle(t *testing.T) {
	runner := &fakeRunner{}
	w, err := NewWorker(runner, core.RunOptions{Mode: "serve", Keywords: []string{"智能建造"}}, "0 */6 * * *", "Asia/Shanghai")
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	defer w.Stop()

	report, err := w.RunNow(context.Background())
	if err != nil || report.Mode != "serve" {
		t.Fatalf("RunNow() = %+v, %v", report, err)
	}
	if len(runner.calls) != 1 || runner.calls[0].Keywords[0] != "智能建造" {
		t.Errorf("calls = %+v", runner.calls)
	}
}

type blockingRunner struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingRunner) Run(ctx context.Context, opts core.RunOptions) (*core.RunReport, error) {
	b.started <- struct{}{}
	<-b.release
	return &core.RunReport{Mode: opts.Mode}, nil
}

func TestWorkerRejectsOverlappingRuns(t *testing.T) {
	runner := &blockingRunner{started: make(chan struct{}, 2), release: make(chan struct{})}
	w, err := NewWorker(runner, core.RunOptions{Mode: "serve"}, "0 */6 * * *", "Asia/Shanghai")
	if err != nil {
		t.Fatal(err)
	}

	if err := w.Trigger(); err != nil {
		t.Fatalf("first Trigger() error: %v", err)
	}
	<-runner.started

	if err := w.Trigger(); !errors.Is(err, core.ErrRunInProgress) {
		t.Errorf("second Trigger() = %v, want ErrRunInProgress", err)
	}
	if _, err := w.RunNow(context.Background()); !errors.Is(err, core.ErrRunInProgress) {
		t.Errorf("RunNow() during a run = %v, want ErrRunInProgress", err)
	}

	close(runner.release)
	deadline := time.Now().Add(2 * time.Second)
	for w.Trigger() != nil {
		if time.Now().After(deadline) {
			t.Fatal("worker still busy after the run finished")
		}
		time.Sleep(10 * time.Millisecond)
	}
	<-runner.started
	if len(runner.started) != 0 {
		t.Errorf("only the accepted triggers should have run")
	}
}
