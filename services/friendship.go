package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"ecochat-core/models"
	"ecochat-core/utils"

	"gorm.io/gorm"
)

// FriendshipService owns friendship edges and enforces the request lifecycle.
type FriendshipService struct {
	DB *gorm.DB
}

func NewFriendshipService(db *gorm.DB) *FriendshipService {
	return &FriendshipService{DB: db}
}

// FriendRequestResult confirms a sent request.
type FriendRequestResult struct {
	TargetID    uint      `json:"target_id"`
	TargetName  string    `json:"target_name"`
	RequestedAt time.Time `json:"requested_at"`
}

// FriendView is how a user appears in someone else's friend and request lists.
// Email stays private to its owner.
type FriendView struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	Points         int64  `json:"points"`
	Level          string `json:"level"`
	CompletedTasks int64  `json:"completed_tasks"`
}

func friendViewOf(u *models.User) FriendView {
	return FriendView{
		ID:             u.ID,
		Name:           u.Name,
		Points:         u.Points,
		Level:          LevelFor(u.Points).Name,
		CompletedTasks: u.CompletedTasks,
	}
}

// PendingRequest is a request waiting on someone's answer.
type PendingRequest struct {
	EdgeID      uint       `json:"id"`
	User        FriendView `json:"user"`
	RequestedAt time.Time  `json:"requested_at"`
}

func findEdge(db *gorm.DB, a, b uint) (*models.Friendship, error) {
	var edge models.Friendship
	err := db.Where("pair_key = ?", models.PairKeyFor(a, b)).First(&edge).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load friendship: %w", err)
	}
	return &edge, nil
}

// maxPairInsertAttempts bounds how often SendRequest re-reads a pair after
// losing the insert to a concurrent request.
const maxPairInsertAttempts = 3

// SendRequest creates a pending edge from requesterID to the user targetToken
// resolves to. If a concurrent request for the same pair commits first, the
// caller gets the error that edge implies (ErrRequestAlreadyPending or
// ErrAlreadyFriends); if that edge is gone again by the time it is re-read,
// the insert is retried.
func (s *FriendshipService) SendRequest(ctx context.Context, requesterID uint, targetToken string) (*FriendRequestResult, error) {
	var result *FriendRequestResult
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := loadUser(tx, requesterID); err != nil {
			return err
		}
		targetID, err := resolveIdentity(tx, targetToken)
		if err != nil {
			return err
		}

		var created *models.Friendship
		for attempt := 1; created == nil; attempt++ {
			edge, err := findEdge(tx, requesterID, targetID)
			if err != nil {
				return err
			}
			if _, err := nextPairState(edge, opRequest, requesterID, targetID); err != nil {
				return err
			}

			edge = &models.Friendship{
				RequesterID: requesterID,
				AddresseeID: targetID,
				PairKey:     models.PairKeyFor(requesterID, targetID),
				Status:      models.FriendshipStatusPending,
			}
			// Savepoint, so a unique violation leaves the outer transaction usable.
			err = tx.Transaction(func(sp *gorm.DB) error {
				return sp.Create(edge).Error
			})
			switch {
			case err == nil:
				created = edge
			case !isUniqueViolation(err):
				return fmt.Errorf("create friend request: %w", err)
			case attempt == maxPairInsertAttempts:
				return fmt.Errorf("friend request for pair %s kept conflicting: %w", edge.PairKey, err)
			default:
				utils.LogDebug("Pair %s taken concurrently, re-reading (attempt %d)", edge.PairKey, attempt)
			}
		}

		target, err := loadUser(tx, targetID)
		if err != nil {
			return err
		}
		result = &FriendRequestResult{TargetID: target.ID, TargetName: target.Name, RequestedAt: created.CreatedAt}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.LogInfo("🤝 Friend request sent: %d → %d (%s)", requesterID, result.TargetID, result.TargetName)
	return result, nil
}

// AcceptRequest turns requesterID's pending request to accepterID into a friendship.
// Acceptance is consumed once; accepting again yields ErrNoSuchRequest.
func (s *FriendshipService) AcceptRequest(ctx context.Context, accepterID, requesterID uint) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		edge, err := findEdge(tx, accepterID, requesterID)
		if err != nil {
			return err
		}
		if _, err := nextPairState(edge, opAccept, accepterID, requesterID); err != nil {
			return err
		}

		now := time.Now()
		res := tx.Model(&models.Friendship{}).
			Where("id = ? AND status = ?", edge.ID, models.FriendshipStatusPending).
			Updates(map[string]interface{}{
				"status":      models.FriendshipStatusAccepted,
				"accepted_at": now,
			})
		if res.Error != nil {
			return fmt.Errorf("accept friendship: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNoSuchRequest
		}
		return nil
	})
	if err != nil {
		return err
	}

	utils.LogInfo("🌱 Friend request accepted: %d ↔ %d", requesterID, accepterID)
	return nil
}

// DeclineRequest deletes requesterID's pending request to declinerID.
func (s *FriendshipService) DeclineRequest(ctx context.Context, declinerID, requesterID uint) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		edge, err := findEdge(tx, declinerID, requesterID)
		if err != nil {
			return err
		}
		if _, err := nextPairState(edge, opDecline, declinerID, requesterID); err != nil {
			return err
		}
		return deleteEdge(tx, edge.ID, models.FriendshipStatusPending, ErrNoSuchRequest)
	})
	if err != nil {
		return err
	}

	utils.LogInfo("🚫 Friend request declined: %d → %d", requesterID, declinerID)
	return nil
}

// RemoveFriend deletes an accepted friendship from either side.
func (s *FriendshipService) RemoveFriend(ctx context.Context, userID, friendID uint) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		edge, err := findEdge(tx, userID, friendID)
		if err != nil {
			return err
		}
		if _, err := nextPairState(edge, opRemove, userID, friendID); err != nil {
			return err
		}
		return deleteEdge(tx, edge.ID, models.FriendshipStatusAccepted, ErrNoSuchFriendship)
	})
	if err != nil {
		return err
	}

	utils.LogInfo("👋 Friendship removed: %d ✕ %d", userID, friendID)
	return nil
}

// deleteEdge removes the edge only if it is still in the expected status.
func deleteEdge(tx *gorm.DB, id uint, status models.FriendshipStatus, gone error) error {
	res := tx.Where("id = ? AND status = ?", id, status).Delete(&models.Friendship{})
	if res.Error != nil {
		return fmt.Errorf("delete friendship: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gone
	}
	return nil
}

// ListFriends returns userID's friends ordered by name, then id.
func (s *FriendshipService) ListFriends(ctx context.Context, userID uint) ([]FriendView, error) {
	db := s.DB.WithContext(ctx)

	var edges []models.Friendship
	if err := db.Where("(requester_id = ? OR addressee_id = ?) AND status = ?", userID, userID, models.FriendshipStatusAccepted).
		Find(&edges).Error; err != nil {
		return nil, fmt.Errorf("list friendships: %w", err)
	}

	out := []FriendView{}
	if len(edges) == 0 {
		return out, nil
	}

	ids := make([]uint, 0, len(edges))
	for i := range edges {
		ids = append(ids, edges[i].Other(userID))
	}
	var users []models.User
	if err := db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("load friends: %w", err)
	}

	// Byte-wise ordering so results do not depend on the database collation.
	sort.Slice(users, func(i, j int) bool {
		if users[i].Name != users[j].Name {
			return users[i].Name < users[j].Name
		}
		return users[i].ID < users[j].ID
	})
	for i := range users {
		out = append(out, friendViewOf(&users[i]))
	}
	return out, nil
}

// ListPending returns requests addressed to userID, oldest first.
func (s *FriendshipService) ListPending(ctx context.Context, userID uint) ([]PendingRequest, error) {
	return s.listRequests(ctx, "addressee_id", userID, func(e *models.Friendship) *models.User { return &e.Requester })
}

// ListOutgoing returns requests userID sent that are still unanswered, oldest first.
func (s *FriendshipService) ListOutgoing(ctx context.Context, userID uint) ([]PendingRequest, error) {
	return s.listRequests(ctx, "requester_id", userID, func(e *models.Friendship) *models.User { return &e.Addressee })
}

func (s *FriendshipService) listRequests(ctx context.Context, column string, userID uint, counterpart func(*models.Friendship) *models.User) ([]PendingRequest, error) {
	var edges []models.Friendship
	if err := s.DB.WithContext(ctx).
		Preload("Requester").
		Preload("Addressee").
		Where(column+" = ? AND status = ?", userID, models.FriendshipStatusPending).
		Order("created_at ASC").
		Order("id ASC").
		Find(&edges).Error; err != nil {
		return nil, fmt.Errorf("list friend requests: %w", err)
	}

	out := make([]PendingRequest, 0, len(edges))
	for i := range edges {
		out = append(out, PendingRequest{
			EdgeID:      edges[i].ID,
			User:        friendViewOf(counterpart(&edges[i])),
			RequestedAt: edges[i].CreatedAt,
		})
	}
	return out, nil
}

// FriendCount counts accepted friendships of userID.
func (s *FriendshipService) FriendCount(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&models.Friendship{}).
		Where("(requester_id = ? OR addressee_id = ?) AND status = ?", userID, userID, models.FriendshipStatusAccepted).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count friends: %w", err)
	}
	return n, nil
}

// PairStateOf reports the relationship state between a and b.
func (s *FriendshipService) PairStateOf(ctx context.Context, a, b uint) (models.PairState, error) {
	edge, err := findEdge(s.DB.WithContext(ctx), a, b)
	if err != nil {
		return models.PairStateNone, err
	}
	return edge.State(), nil
}
