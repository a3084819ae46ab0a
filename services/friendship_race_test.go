package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"ecochat-core/models"
	"ecochat-core/testutil"

	"gorm.io/gorm"
)

// insertEdge writes a friendship row the way a concurrent request would.
func insertEdge(requester, addressee uint, status models.FriendshipStatus) func(tx *gorm.DB) error {
	return func(tx *gorm.DB) error {
		return tx.Exec(
			"INSERT INTO friendships (requester_id, addressee_id, pair_key, status, created_at) VALUES (?, ?, ?, ?, ?)",
			requester, addressee, models.PairKeyFor(requester, addressee), status, time.Now(),
		).Error
	}
}

func TestSendRequestLosesPairRace(t *testing.T) {
	tests := []struct {
		name    string
		winner  models.FriendshipStatus
		wantErr error
	}{
		{"reverse request wins", models.FriendshipStatusPending, ErrRequestAlreadyPending},
		{"friendship accepted meanwhile", models.FriendshipStatusAccepted, ErrAlreadyFriends},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testutil.NewDB(t)
			a := testutil.CreateUser(t, db, "Ana", "a@x.com")
			b := testutil.CreateUser(t, db, "Bruno", "b@x.com")
			svc := NewFriendshipService(db)

			// Bruno's edge appears after Ana's request found the pair empty.
			testutil.AfterQuery(t, db, "friendships", 1, insertEdge(b.ID, a.ID, tt.winner))

			_, err := svc.SendRequest(context.Background(), a.ID, "b@x.com")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}

			var edges []models.Friendship
			if err := db.Find(&edges).Error; err != nil {
				t.Fatalf("load edges: %v", err)
			}
			if len(edges) != 0 {
				// The winner was written inside the failed call's transaction, so it rolls back too.
				t.Fatalf("expected the failed request to leave no edge, got %d", len(edges))
			}
		})
	}
}

func TestSendRequestRetriesWhenWinnerVanishes(t *testing.T) {
	db := testutil.NewDB(t)
	a := testutil.CreateUser(t, db, "Ana", "a@x.com")
	b := testutil.CreateUser(t, db, "Bruno", "b@x.com")
	svc := NewFriendshipService(db)
	ctx := context.Background()

	testutil.AfterQuery(t, db, "friendships", 1, insertEdge(b.ID, a.ID, models.FriendshipStatusPending))
	// Bruno's request is declined before Ana's call re-reads the pair.
	testutil.BeforeQuery(t, db, "friendships", 2, func(tx *gorm.DB) error {
		return tx.Exec("DELETE FROM friendships WHERE pair_key = ?", models.PairKeyFor(a.ID, b.ID)).Error
	})

	res, err := svc.SendRequest(ctx, a.ID, "b@x.com")
	if err != nil {
		t.Fatalf("expected the retry to succeed, got %v", err)
	}
	if res.TargetID != b.ID {
		t.Fatalf("unexpected target: %+v", res)
	}

	outgoing, err := svc.ListOutgoing(ctx, a.ID)
	if err != nil {
		t.Fatalf("list outgoing: %v", err)
	}
	if len(outgoing) != 1 || outgoing[0].User.ID != b.ID {
		t.Fatalf("expected Ana's request to Bruno, got %+v", outgoing)
	}
}
