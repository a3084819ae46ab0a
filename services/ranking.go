package services

import (
	"context"
	"fmt"

	"ecochat-core/models"

	"gorm.io/gorm"
)

// RankingService projects the leaderboard from current user totals. Nothing is
// cached; every call reads fresh state.
type RankingService struct {
	DB *gorm.DB
}

func NewRankingService(db *gorm.DB) *RankingService {
	return &RankingService{DB: db}
}

type rankingRow struct {
	ID             uint
	Name           string
	Points         int64
	CompletedTasks int64
}

// BuildRanking orders users by points descending, earlier ids first on ties.
// Points and task counts come from the same rows of a single query.
func (s *RankingService) BuildRanking(ctx context.Context) ([]models.RankingEntry, error) {
	var rows []rankingRow
	if err := s.DB.WithContext(ctx).
		Model(&models.User{}).
		Select("id", "name", "points", "completed_tasks").
		Order("points DESC").
		Order("id ASC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("build ranking: %w", err)
	}

	entries := make([]models.RankingEntry, len(rows))
	for i, r := range rows {
		entries[i] = models.RankingEntry{
			Rank:           i + 1,
			UserID:         r.ID,
			Name:           r.Name,
			Points:         r.Points,
			Level:          LevelFor(r.Points).Name,
			CompletedTasks: r.CompletedTasks,
		}
	}
	return entries, nil
}

// Leaderboard returns the top limit entries plus userID's own position.
// limit <= 0 returns every entry.
func (s *RankingService) Leaderboard(ctx context.Context, userID uint, limit int) (*models.Leaderboard, error) {
	entries, err := s.BuildRanking(ctx)
	if err != nil {
		return nil, err
	}

	board := &models.Leaderboard{Entries: entries, TotalUsers: len(entries)}
	for i := range entries {
		if entries[i].UserID == userID {
			pos := entries[i]
			board.UserPosition = &pos
			break
		}
	}
	if limit > 0 && limit < len(entries) {
		board.Entries = entries[:limit]
	}
	return board, nil
}
