package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ecochat-core/models"
	"ecochat-core/utils"
)

// ObjectUploader stores a blob under a key and returns where it can be fetched.
type ObjectUploader interface {
	PutObject(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

// RankingSnapshot is the exported leaderboard document.
type RankingSnapshot struct {
	GeneratedAt time.Time             `json:"generated_at"`
	TotalUsers  int                   `json:"total_users"`
	Entries     []models.RankingEntry `json:"entries"`
}

// SnapshotService publishes the current ranking to object storage.
type SnapshotService struct {
	Ranking  *RankingService
	Uploader ObjectUploader
	Now      func() time.Time
}

func NewSnapshotService(ranking *RankingService, uploader ObjectUploader) *SnapshotService {
	return &SnapshotService{Ranking: ranking, Uploader: uploader, Now: time.Now}
}

// LatestSnapshotKey is overwritten on every export.
const LatestSnapshotKey = "rankings/latest.json"

// Export builds the ranking and uploads it twice: as latest and under a timestamped key.
func (s *SnapshotService) Export(ctx context.Context) (*RankingSnapshot, error) {
	entries, err := s.Ranking.BuildRanking(ctx)
	if err != nil {
		return nil, err
	}

	snap := &RankingSnapshot{
		GeneratedAt: s.Now().UTC(),
		TotalUsers:  len(entries),
		Entries:     entries,
	}
	body, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode ranking snapshot: %w", err)
	}

	archiveKey := fmt.Sprintf("rankings/%s.json", snap.GeneratedAt.Format("20060102T150405Z"))
	for _, key := range []string{archiveKey, LatestSnapshotKey} {
		url, err := s.Uploader.PutObject(ctx, key, body, "application/json")
		if err != nil {
			return nil, fmt.Errorf("upload %s: %w", key, err)
		}
		utils.LogDebug("Ranking snapshot uploaded: %s", url)
	}

	utils.LogInfo("📊 Ranking snapshot exported (%d users)", snap.TotalUsers)
	return snap, nil
}
