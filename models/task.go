package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskCategory string

const (
	TaskCategoryDaily   TaskCategory = "daily"
	TaskCategoryWeekly  TaskCategory = "weekly"
	TaskCategoryMonthly TaskCategory = "monthly"
)

// TaskCategories lists categories in display order.
var TaskCategories = []TaskCategory{TaskCategoryDaily, TaskCategoryWeekly, TaskCategoryMonthly}

// Task is read-only catalog data.
type Task struct {
	ID          uint         `json:"id"`
	Slug        string       `json:"slug"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Points      int64        `json:"points"`
	Category    TaskCategory `json:"category"`
	Icon        string       `json:"icon"`
}

// TaskCompletion is the (user, task) ledger row. PointsAwarded holds exactly what
// the last completion added, so un-completing reverses that amount.
type TaskCompletion struct {
	ID            string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID        uint       `gorm:"not null;uniqueIndex:idx_completion_user_task" json:"user_id"`
	TaskID        uint       `gorm:"not null;uniqueIndex:idx_completion_user_task" json:"task_id"`
	Completed     bool       `gorm:"not null;default:false" json:"completed"`
	PointsAwarded int64      `gorm:"not null;default:0" json:"points_awarded"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`

	Timestamps
}

func (c *TaskCompletion) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
