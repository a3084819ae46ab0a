package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"ecochat-core/services"
)

type countingExporter struct {
	calls atomic.Int32
	err   error
}

func (e *countingExporter) Export(context.Context) (*services.RankingSnapshot, error) {
	e.calls.Add(1)
	if e.err != nil {
		return nil, e.err
	}
	return &services.RankingSnapshot{}, nil
}

func waitForCalls(t *testing.T, e *countingExporter, n int32) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for e.calls.Load() < n {
		if time.Now().After(deadline) {
			t.Fatalf("expected at least %d exports, got %d", n, e.calls.Load())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestRankingSnapshotWorkerRunsUntilCancelled(t *testing.T) {
	exp := &countingExporter{}
	ctx, cancel := context.WithCancel(context.Background())

	if err := NewRankingSnapshotWorker(exp, 50*time.Millisecond).Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	waitForCalls(t, exp, 2)

	cancel()
	time.Sleep(100 * time.Millisecond)
	stopped := exp.calls.Load()
	time.Sleep(200 * time.Millisecond)
	if got := exp.calls.Load(); got != stopped {
		t.Fatalf("worker kept exporting after cancel: %d -> %d", stopped, got)
	}
}

func TestRankingSnapshotWorkerSurvivesExportErrors(t *testing.T) {
	exp := &countingExporter{err: errors.New("bucket unavailable")}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := NewRankingSnapshotWorker(exp, 30*time.Millisecond).Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	waitForCalls(t, exp, 3)
}

func TestRankingSnapshotWorkerRejectsBadInterval(t *testing.T) {
	if err := NewRankingSnapshotWorker(&countingExporter{}, 0).Start(context.Background()); err == nil {
		t.Fatalf("expected an error for a zero interval")
	}
}
