package workers

import (
	"context"
	"fmt"
	"time"

	"ecochat-core/services"
	"ecochat-core/utils"

	"github.com/go-co-op/gocron/v2"
)

// SnapshotExporter publishes one ranking snapshot.
type SnapshotExporter interface {
	Export(ctx context.Context) (*services.RankingSnapshot, error)
}

// RankingSnapshotWorker exports the leaderboard on a fixed interval.
type RankingSnapshotWorker struct {
	exporter SnapshotExporter
	interval time.Duration
}

func NewRankingSnapshotWorker(exporter SnapshotExporter, interval time.Duration) *RankingSnapshotWorker {
	return &RankingSnapshotWorker{exporter: exporter, interval: interval}
}

// Start exports once immediately, then every interval until ctx is cancelled.
// A slow export delays the next run instead of overlapping it.
func (w *RankingSnapshotWorker) Start(ctx context.Context) error {
	if w.interval <= 0 {
		return fmt.Errorf("snapshot interval must be positive, got %s", w.interval)
	}

	sched, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(w.interval),
		gocron.NewTask(func() { w.runOnce(ctx) }),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return fmt.Errorf("schedule snapshot job: %w", err)
	}

	utils.LogInfo("🔁 Starting ranking snapshot worker (every %s)…", w.interval)
	sched.Start()

	go func() {
		<-ctx.Done()
		if err := sched.Shutdown(); err != nil {
			utils.LogWarn("[SNAPSHOT] scheduler shutdown: %v", err)
		}
		utils.LogInfo("⏹️ Ranking snapshot worker stopped")
	}()
	return nil
}

func (w *RankingSnapshotWorker) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	runCtx, cancel := context.WithTimeout(ctx, w.interval)
	defer cancel()

	if _, err := w.exporter.Export(runCtx); err != nil {
		utils.LogError("[SNAPSHOT] ❌ export failed: %v", err)
	}
}
