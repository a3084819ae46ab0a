package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"ecochat-core/models"
	"ecochat-core/testutil"

	"gorm.io/gorm"
)

func newTestCatalog(t *testing.T) *StaticCatalog {
	t.Helper()
	c, err := NewStaticCatalog([]models.Task{
		{ID: 5, Title: "Plantar uma árvore", Points: 10, Category: models.TaskCategoryWeekly},
		{ID: 6, Title: "Apagar luzes", Points: 25, Category: models.TaskCategoryDaily},
		{ID: 7, Title: "Mutirão", Points: 0, Category: models.TaskCategoryMonthly},
	})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return c
}

func reloadUser(t *testing.T, svc *ScoringService, id uint) *models.User {
	t.Helper()
	u, err := loadUser(svc.DB, id)
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	return u
}

func TestCompleteUncompleteScenario(t *testing.T) {
	db := testutil.NewDB(t)
	u := testutil.CreateUser(t, db, "Ana", "a@x.com")
	svc := NewScoringService(db, newTestCatalog(t))
	ctx := context.Background()

	res, err := svc.CompleteTask(ctx, u.ID, 5)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if res.PointsAwarded != 10 || res.NewTotal != 10 || res.CompletedTasks != 1 {
		t.Fatalf("unexpected first completion: %+v", res)
	}

	res, err = svc.CompleteTask(ctx, u.ID, 5)
	if err != nil {
		t.Fatalf("second complete should be a no-op, got %v", err)
	}
	if res.PointsAwarded != 0 || res.NewTotal != 10 || res.CompletedTasks != 1 {
		t.Fatalf("second completion must not award points: %+v", res)
	}

	un, err := svc.UncompleteTask(ctx, u.ID, 5)
	if err != nil {
		t.Fatalf("uncomplete: %v", err)
	}
	if un.PointsDeducted != 10 || un.NewTotal != 0 || un.CompletedTasks != 0 {
		t.Fatalf("unexpected uncompletion: %+v", un)
	}

	if _, err := svc.UncompleteTask(ctx, u.ID, 5); !errors.Is(err, ErrNotCompleted) {
		t.Fatalf("expected ErrNotCompleted, got %v", err)
	}
}

func TestCompleteTaskErrors(t *testing.T) {
	db := testutil.NewDB(t)
	u := testutil.CreateUser(t, db, "Ana", "a@x.com")
	svc := NewScoringService(db, newTestCatalog(t))
	ctx := context.Background()

	if _, err := svc.CompleteTask(ctx, u.ID, 999); !errors.Is(err, ErrUnknownTask) {
		t.Fatalf("expected ErrUnknownTask, got %v", err)
	}
	if _, err := svc.CompleteTask(ctx, 12345, 5); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown user, got %v", err)
	}
	if _, err := svc.UncompleteTask(ctx, u.ID, 6); !errors.Is(err, ErrNotCompleted) {
		t.Fatalf("expected ErrNotCompleted for never-completed task, got %v", err)
	}
}

func TestCompletionSequenceConservesPoints(t *testing.T) {
	db := testutil.NewDB(t)
	u := testutil.CreateUser(t, db, "Ana", "a@x.com")
	svc := NewScoringService(db, newTestCatalog(t))
	ctx := context.Background()

	// Points from another task must survive the sequence untouched.
	if _, err := svc.CompleteTask(ctx, u.ID, 6); err != nil {
		t.Fatalf("complete 6: %v", err)
	}
	before := reloadUser(t, svc, u.ID)

	steps := []bool{true, true, false, true, false, true, true, false}
	for i, complete := range steps {
		var err error
		if complete {
			_, err = svc.CompleteTask(ctx, u.ID, 5)
		} else {
			_, err = svc.UncompleteTask(ctx, u.ID, 5)
		}
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	after := reloadUser(t, svc, u.ID)
	if after.Points != before.Points || after.CompletedTasks != before.CompletedTasks {
		t.Fatalf("expected totals unchanged (%d pts, %d tasks), got (%d, %d)",
			before.Points, before.CompletedTasks, after.Points, after.CompletedTasks)
	}
}

func TestUncompleteClampsAtZero(t *testing.T) {
	db := testutil.NewDB(t)
	u := testutil.CreateUser(t, db, "Ana", "a@x.com")
	svc := NewScoringService(db, newTestCatalog(t))
	ctx := context.Background()

	if _, err := svc.CompleteTask(ctx, u.ID, 6); err != nil {
		t.Fatalf("complete: %v", err)
	}
	// Simulate a total that drifted below the recorded award.
	if err := db.Model(&models.User{}).Where("id = ?", u.ID).UpdateColumn("points", 3).Error; err != nil {
		t.Fatalf("force points: %v", err)
	}

	un, err := svc.UncompleteTask(ctx, u.ID, 6)
	if err != nil {
		t.Fatalf("uncomplete: %v", err)
	}
	if un.NewTotal != 0 || un.PointsDeducted != 3 {
		t.Fatalf("expected clamp at zero, got %+v", un)
	}
}

func TestZeroPointTaskCountsCompletion(t *testing.T) {
	db := testutil.NewDB(t)
	u := testutil.CreateUser(t, db, "Ana", "a@x.com")
	svc := NewScoringService(db, newTestCatalog(t))

	res, err := svc.CompleteTask(context.Background(), u.ID, 7)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if res.NewTotal != 0 || res.CompletedTasks != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestConcurrentCompletionsAwardOnce(t *testing.T) {
	db := testutil.NewDB(t)
	u := testutil.CreateUser(t, db, "Ana", "a@x.com")
	svc := NewScoringService(db, newTestCatalog(t))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.CompleteTask(ctx, u.ID, 5); err != nil {
				t.Errorf("complete: %v", err)
			}
		}()
	}
	wg.Wait()

	got := reloadUser(t, svc, u.ID)
	if got.Points != 10 || got.CompletedTasks != 1 {
		t.Fatalf("expected a single award (10 pts, 1 task), got (%d, %d)", got.Points, got.CompletedTasks)
	}

	var rows int64
	if err := db.Model(&models.TaskCompletion{}).Where("user_id = ? AND task_id = ?", u.ID, 5).Count(&rows).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected one ledger row, got %d", rows)
	}
}

func TestTaskBoard(t *testing.T) {
	db := testutil.NewDB(t)
	u := testutil.CreateUser(t, db, "Ana", "a@x.com")
	svc := NewScoringService(db, newTestCatalog(t))
	ctx := context.Background()

	if _, err := svc.CompleteTask(ctx, u.ID, 6); err != nil {
		t.Fatalf("complete: %v", err)
	}

	board, err := svc.TaskBoard(ctx, u.ID)
	if err != nil {
		t.Fatalf("task board: %v", err)
	}
	if len(board.Tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(board.Tasks))
	}
	for _, ts := range board.Tasks {
		if ts.Completed != (ts.ID == 6) {
			t.Fatalf("task %d completed=%t", ts.ID, ts.Completed)
		}
	}
	if board.Tasks[0].Slug != "plantar-uma-arvore" {
		t.Fatalf("expected generated slug, got %q", board.Tasks[0].Slug)
	}

	daily := board.Categories[0]
	if daily.Category != models.TaskCategoryDaily || daily.Completed != 1 || daily.Total != 1 || daily.Percent != 100 {
		t.Fatalf("unexpected daily progress: %+v", daily)
	}
	weekly := board.Categories[1]
	if weekly.Completed != 0 || weekly.Total != 1 || weekly.Percent != 0 {
		t.Fatalf("unexpected weekly progress: %+v", weekly)
	}
}

func TestUncompleteReportsOwnDeductionUnderConcurrentAward(t *testing.T) {
	db := testutil.NewDB(t)
	u := testutil.CreateUser(t, db, "Ana", "a@x.com")
	svc := NewScoringService(db, newTestCatalog(t))
	ctx := context.Background()

	if _, err := svc.CompleteTask(ctx, u.ID, 5); err != nil {
		t.Fatalf("complete: %v", err)
	}

	// Another award for the same user lands between the read and the deduction.
	testutil.BeforeUpdate(t, db, "users", 1, func(tx *gorm.DB) error {
		return tx.Exec("UPDATE users SET points = points + 100 WHERE id = ?", u.ID).Error
	})

	un, err := svc.UncompleteTask(ctx, u.ID, 5)
	if err != nil {
		t.Fatalf("uncomplete: %v", err)
	}
	if un.PointsDeducted != 10 || un.NewTotal != 100 {
		t.Fatalf("expected 10 deducted leaving 100, got %+v", un)
	}
}

func TestDeductionFor(t *testing.T) {
	tests := []struct{ total, awarded, want int64 }{
		{50, 10, 10},
		{10, 10, 10},
		{3, 25, 3},
		{0, 25, 0},
		{-4, 25, 0},
	}
	for _, tt := range tests {
		if got := deductionFor(tt.total, tt.awarded); got != tt.want {
			t.Errorf("deductionFor(%d, %d) = %d, want %d", tt.total, tt.awarded, got, tt.want)
		}
	}
}

func TestCompleteTaskLosesFlipRace(t *testing.T) {
	db := testutil.NewDB(t)
	u := testutil.CreateUser(t, db, "Ana", "a@x.com")
	svc := NewScoringService(db, newTestCatalog(t))

	// A concurrent call for the same task flips the row and awards first.
	testutil.BeforeUpdate(t, db, "task_completions", 1, func(tx *gorm.DB) error {
		if err := tx.Exec("UPDATE task_completions SET completed = ?, points_awarded = ? WHERE user_id = ? AND task_id = ?", true, 10, u.ID, 5).Error; err != nil {
			return err
		}
		return tx.Exec("UPDATE users SET points = points + 10, completed_tasks = completed_tasks + 1 WHERE id = ?", u.ID).Error
	})

	res, err := svc.CompleteTask(context.Background(), u.ID, 5)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if res.PointsAwarded != 0 || res.NewTotal != 10 || res.CompletedTasks != 1 {
		t.Fatalf("losing call must award nothing and report the winner's totals, got %+v", res)
	}

	got := reloadUser(t, svc, u.ID)
	if got.Points != 10 || got.CompletedTasks != 1 {
		t.Fatalf("expected a single award, got (%d, %d)", got.Points, got.CompletedTasks)
	}
}
