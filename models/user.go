package models

import (
	"strings"
	"time"

	"github.com/gosimple/unidecode"
	"golang.org/x/text/cases"
	"gorm.io/gorm"
)

// User is the local row for an application account. Points and counters are
// denormalized here so a single read gives a consistent ranking snapshot.
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"not null" json:"name"`
	Email        string `gorm:"not null" json:"email"`
	NameKey      string `gorm:"index;not null" json:"-"`
	NameSearch   string `gorm:"index;not null;default:''" json:"-"`
	EmailKey     string `gorm:"uniqueIndex;not null" json:"-"`
	PasswordHash string `gorm:"not null" json:"-"` // written at registration, verified by the auth service

	Points         int64  `gorm:"not null;default:0" json:"points"`
	CompletedTasks int64  `gorm:"not null;default:0" json:"completed_tasks"`
	DaysActive     int64  `gorm:"not null;default:0" json:"days_active"`
	LastActiveOn   string `gorm:"size:10;not null;default:''" json:"-"` // YYYY-MM-DD

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// FoldKey normalizes a name or email for exact case-insensitive comparison.
func FoldKey(s string) string {
	// Casers carry state, so each call gets its own.
	return cases.Fold().String(strings.TrimSpace(s))
}

// SearchKey is the accent- and case-insensitive form used for partial name
// search: "João" becomes "joao".
func SearchKey(s string) string {
	return strings.ToLower(unidecode.Unidecode(strings.TrimSpace(s)))
}

// BeforeSave keeps the lookup keys in sync with the visible fields.
func (u *User) BeforeSave(_ *gorm.DB) error {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = strings.TrimSpace(u.Email)
	u.NameKey = FoldKey(u.Name)
	u.NameSearch = SearchKey(u.Name)
	u.EmailKey = FoldKey(u.Email)
	return nil
}
