package services

import (
	"context"

	"ecochat-core/models"

	"gorm.io/gorm"
)

// ProfileService assembles the profile view from scoring and friendship state.
type ProfileService struct {
	DB      *gorm.DB
	Friends *FriendshipService
}

func NewProfileService(db *gorm.DB, friends *FriendshipService) *ProfileService {
	return &ProfileService{DB: db, Friends: friends}
}

type Profile struct {
	UserID             uint                 `json:"user_id"`
	Name               string               `json:"name"`
	Email              string               `json:"email"`
	Points             int64                `json:"points"`
	Level              string               `json:"level"`
	NextLevelThreshold int64                `json:"next_level_threshold"`
	Progress           float64              `json:"progress"`
	CompletedTaskCount int64                `json:"completed_task_count"`
	FriendCount        int64                `json:"friend_count"`
	DaysActive         int64                `json:"days_active"`
	Achievements       []models.Achievement `json:"achievements"`
}

func (s *ProfileService) GetProfile(ctx context.Context, userID uint) (*Profile, error) {
	user, err := loadUser(s.DB.WithContext(ctx), userID)
	if err != nil {
		return nil, err
	}
	friends, err := s.Friends.FriendCount(ctx, userID)
	if err != nil {
		return nil, err
	}

	level := LevelFor(user.Points)
	return &Profile{
		UserID:             user.ID,
		Name:               user.Name,
		Email:              user.Email,
		Points:             user.Points,
		Level:              level.Name,
		NextLevelThreshold: level.NextThreshold,
		Progress:           level.Progress,
		CompletedTaskCount: user.CompletedTasks,
		FriendCount:        friends,
		DaysActive:         user.DaysActive,
		Achievements: EvaluateAchievements(ProfileStats{
			Points:         user.Points,
			CompletedTasks: user.CompletedTasks,
			DaysActive:     user.DaysActive,
			Friends:        friends,
		}),
	}, nil
}
