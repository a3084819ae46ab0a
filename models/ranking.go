package models

// RankingEntry is a derived leaderboard row; it is never stored.
type RankingEntry struct {
	Rank           int    `json:"rank"`
	UserID         uint   `json:"user_id"`
	Name           string `json:"name"`
	Points         int64  `json:"points"`
	Level          string `json:"level"`
	CompletedTasks int64  `json:"completed_tasks"`
}

// Leaderboard is the ranking view returned to a signed-in user.
type Leaderboard struct {
	Entries      []RankingEntry `json:"entries"`
	UserPosition *RankingEntry  `json:"user_position,omitempty"`
	TotalUsers   int            `json:"total_users"`
}
