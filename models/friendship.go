package models

import (
	"fmt"
	"time"
)

type FriendshipStatus string

const (
	FriendshipStatusPending  FriendshipStatus = "pending"
	FriendshipStatusAccepted FriendshipStatus = "accepted"
)

// PairState is the relationship state of an unordered pair of users.
type PairState string

const (
	PairStateNone     PairState = "none"
	PairStatePending  PairState = "pending"
	PairStateAccepted PairState = "accepted"
)

// Friendship is the single edge allowed between two users. Declined and removed
// edges are deleted, so there is no soft delete here.
type Friendship struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	RequesterID uint             `gorm:"not null;index" json:"requester_id"`
	AddresseeID uint             `gorm:"not null;index" json:"addressee_id"`
	PairKey     string           `gorm:"size:64;not null;uniqueIndex" json:"-"`
	Status      FriendshipStatus `gorm:"type:varchar(16);not null;default:'pending'" json:"status"`
	CreatedAt   time.Time        `gorm:"autoCreateTime" json:"created_at"`
	AcceptedAt  *time.Time       `json:"accepted_at,omitempty"`

	Requester User `gorm:"foreignKey:RequesterID" json:"-"`
	Addressee User `gorm:"foreignKey:AddresseeID" json:"-"`
}

func (Friendship) TableName() string {
	return "friendships"
}

// PairKeyFor returns the canonical key of the unordered pair {a, b}.
func PairKeyFor(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d:%d", a, b)
}

// State reports the pair state this edge represents. A nil edge is PairStateNone.
func (f *Friendship) State() PairState {
	if f == nil {
		return PairStateNone
	}
	if f.Status == FriendshipStatusAccepted {
		return PairStateAccepted
	}
	return PairStatePending
}

// Other returns the id on the opposite side of the edge from userID.
func (f *Friendship) Other(userID uint) uint {
	if f.RequesterID == userID {
		return f.AddresseeID
	}
	return f.RequesterID
}
