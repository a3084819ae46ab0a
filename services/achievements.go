package services

import "ecochat-core/models"

// ProfileStats are the counters achievements are evaluated against.
type ProfileStats struct {
	Points         int64
	CompletedTasks int64
	DaysActive     int64
	Friends        int64
}

// EvaluateAchievements returns every achievement with its Earned flag set.
func EvaluateAchievements(stats ProfileStats) []models.Achievement {
	out := make([]models.Achievement, len(models.Achievements))
	for i, a := range models.Achievements {
		a.Earned = meetsThreshold(stats, a.Threshold)
		out[i] = a
	}
	return out
}

func meetsThreshold(stats ProfileStats, req map[string]int64) bool {
	for key, required := range req {
		var have int64
		switch key {
		case "points":
			have = stats.Points
		case "completed_tasks":
			have = stats.CompletedTasks
		case "days_active":
			have = stats.DaysActive
		case "friends":
			have = stats.Friends
		default:
			return false
		}
		if have < required {
			return false
		}
	}
	return true
}
