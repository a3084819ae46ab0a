package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ecochat-core/models"
	"ecochat-core/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ScoringService keeps the completion ledger and the point totals derived from it.
type ScoringService struct {
	DB      *gorm.DB
	Catalog TaskCatalog
}

func NewScoringService(db *gorm.DB, catalog TaskCatalog) *ScoringService {
	return &ScoringService{DB: db, Catalog: catalog}
}

type CompletionResult struct {
	TaskID         uint  `json:"task_id"`
	PointsAwarded  int64 `json:"points_awarded"`
	NewTotal       int64 `json:"new_total"`
	CompletedTasks int64 `json:"completed_tasks"`
	Level          Level `json:"level"`
}

type UncompletionResult struct {
	TaskID         uint  `json:"task_id"`
	PointsDeducted int64 `json:"points_deducted"`
	NewTotal       int64 `json:"new_total"`
	CompletedTasks int64 `json:"completed_tasks"`
	Level          Level `json:"level"`
}

// CompleteTask marks taskID done for userID and awards its points. Completing an
// already completed task changes nothing and is not an error.
func (s *ScoringService) CompleteTask(ctx context.Context, userID, taskID uint) (*CompletionResult, error) {
	task, ok := s.Catalog.Task(taskID)
	if !ok {
		return nil, ErrUnknownTask
	}

	var result *CompletionResult
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := loadUser(tx, userID); err != nil {
			return err
		}

		row := models.TaskCompletion{UserID: userID, TaskID: taskID}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "task_id"}},
			DoNothing: true,
		}).Create(&row).Error; err != nil {
			return fmt.Errorf("ensure completion row: %w", err)
		}

		now := time.Now()
		res := tx.Model(&models.TaskCompletion{}).
			Where("user_id = ? AND task_id = ? AND completed = ?", userID, taskID, false).
			UpdateColumns(map[string]interface{}{
				"completed":      true,
				"points_awarded": task.Points,
				"completed_at":   now,
				"updated_at":     now,
			})
		if res.Error != nil {
			return fmt.Errorf("complete task: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			// Already completed, possibly by a call that committed after our first read.
			current, err := loadUser(tx, userID)
			if err != nil {
				return err
			}
			result = &CompletionResult{TaskID: taskID, NewTotal: current.Points, CompletedTasks: current.CompletedTasks, Level: LevelFor(current.Points)}
			return nil
		}

		if err := tx.Model(&models.User{}).Where("id = ?", userID).UpdateColumns(map[string]interface{}{
			"points":          gorm.Expr("points + ?", task.Points),
			"completed_tasks": gorm.Expr("completed_tasks + 1"),
			"updated_at":      now,
		}).Error; err != nil {
			return fmt.Errorf("award points: %w", err)
		}

		user, err := loadUser(tx, userID)
		if err != nil {
			return err
		}
		result = &CompletionResult{
			TaskID:         taskID,
			PointsAwarded:  task.Points,
			NewTotal:       user.Points,
			CompletedTasks: user.CompletedTasks,
			Level:          LevelFor(user.Points),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.PointsAwarded > 0 {
		utils.LogInfo("🎯 Task %d completed by user %d: +%d → %d pts (%s)", taskID, userID, result.PointsAwarded, result.NewTotal, result.Level.Name)
	}
	return result, nil
}

// UncompleteTask reverses the points awarded by the last completion of taskID.
func (s *ScoringService) UncompleteTask(ctx context.Context, userID, taskID uint) (*UncompletionResult, error) {
	var result *UncompletionResult
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row models.TaskCompletion
		err := tx.Where("user_id = ? AND task_id = ? AND completed = ?", userID, taskID, true).First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotCompleted
		}
		if err != nil {
			return fmt.Errorf("load completion: %w", err)
		}

		// Locked so the deduction below applies to exactly this total.
		before, err := loadUser(tx.Clauses(clause.Locking{Strength: "UPDATE"}), userID)
		if err != nil {
			return err
		}

		now := time.Now()
		res := tx.Model(&models.TaskCompletion{}).
			Where("id = ? AND completed = ?", row.ID, true).
			UpdateColumns(map[string]interface{}{
				"completed":      false,
				"points_awarded": 0,
				"completed_at":   nil,
				"updated_at":     now,
			})
		if res.Error != nil {
			return fmt.Errorf("uncomplete task: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotCompleted
		}

		// Clamped at zero; in practice the deduction mirrors an earlier award exactly.
		if err := tx.Model(&models.User{}).Where("id = ?", userID).UpdateColumns(map[string]interface{}{
			"points":          gorm.Expr("CASE WHEN points >= ? THEN points - ? ELSE 0 END", row.PointsAwarded, row.PointsAwarded),
			"completed_tasks": gorm.Expr("CASE WHEN completed_tasks > 0 THEN completed_tasks - 1 ELSE 0 END"),
			"updated_at":      now,
		}).Error; err != nil {
			return fmt.Errorf("deduct points: %w", err)
		}

		after, err := loadUser(tx, userID)
		if err != nil {
			return err
		}
		result = &UncompletionResult{
			TaskID:         taskID,
			PointsDeducted: deductionFor(before.Points, row.PointsAwarded),
			NewTotal:       after.Points,
			CompletedTasks: after.CompletedTasks,
			Level:          LevelFor(after.Points),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.LogInfo("↩️  Task %d uncompleted by user %d: -%d → %d pts", taskID, userID, result.PointsDeducted, result.NewTotal)
	return result, nil
}

// deductionFor mirrors the clamped SQL deduction: never more than the total held.
func deductionFor(total, awarded int64) int64 {
	if total < awarded {
		return max(total, 0)
	}
	return awarded
}

// TaskStatus is a catalog task with the caller's completion flag.
type TaskStatus struct {
	models.Task
	Completed bool `json:"completed"`
}

type CategoryProgress struct {
	Category  models.TaskCategory `json:"category"`
	Completed int                 `json:"completed"`
	Total     int                 `json:"total"`
	Percent   float64             `json:"percent"`
}

type TaskBoard struct {
	Tasks      []TaskStatus       `json:"tasks"`
	Categories []CategoryProgress `json:"categories"`
}

// TaskBoard lists the catalog with userID's completion state and per-category progress.
func (s *ScoringService) TaskBoard(ctx context.Context, userID uint) (*TaskBoard, error) {
	db := s.DB.WithContext(ctx)
	if _, err := loadUser(db, userID); err != nil {
		return nil, err
	}

	var done []uint
	if err := db.Model(&models.TaskCompletion{}).
		Where("user_id = ? AND completed = ?", userID, true).
		Pluck("task_id", &done).Error; err != nil {
		return nil, fmt.Errorf("load completions: %w", err)
	}
	completed := make(map[uint]bool, len(done))
	for _, id := range done {
		completed[id] = true
	}

	board := &TaskBoard{}
	counts := map[models.TaskCategory]*CategoryProgress{}
	for _, c := range models.TaskCategories {
		cp := &CategoryProgress{Category: c}
		counts[c] = cp
	}

	for _, t := range s.Catalog.Tasks() {
		board.Tasks = append(board.Tasks, TaskStatus{Task: t, Completed: completed[t.ID]})
		cp, ok := counts[t.Category]
		if !ok {
			continue
		}
		cp.Total++
		if completed[t.ID] {
			cp.Completed++
		}
	}

	for _, c := range models.TaskCategories {
		cp := counts[c]
		if cp.Total > 0 {
			cp.Percent = float64(cp.Completed) / float64(cp.Total) * 100
		}
		board.Categories = append(board.Categories, *cp)
	}
	return board, nil
}
