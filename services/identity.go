package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"ecochat-core/models"

	"gorm.io/gorm"
)

// IdentityService resolves "add friend" targets to user ids.
type IdentityService struct {
	DB *gorm.DB
}

func NewIdentityService(db *gorm.DB) *IdentityService {
	return &IdentityService{DB: db}
}

// Resolve accepts a numeric id, an email or a display name. Email and name
// matches are exact but case-insensitive; email is tried first.
func (s *IdentityService) Resolve(ctx context.Context, token string) (uint, error) {
	return resolveIdentity(s.DB.WithContext(ctx), token)
}

// resolveIdentity runs on any handle, so callers can resolve inside a transaction.
func resolveIdentity(db *gorm.DB, token string) (uint, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, ErrNotFound
	}

	if isIntegerToken(token) {
		id, err := strconv.ParseUint(strings.TrimPrefix(token, "+"), 10, 64)
		if err != nil || id == 0 {
			// Negative or out of range: still an id, just not one that exists.
			return 0, ErrNotFound
		}
		var u models.User
		if err := db.Select("id").First(&u, "id = ?", uint(id)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, ErrNotFound
			}
			return 0, fmt.Errorf("resolve user id: %w", err)
		}
		return u.ID, nil
	}

	key := models.FoldKey(token)

	var byEmail models.User
	err := db.Select("id").Where("email_key = ?", key).First(&byEmail).Error
	if err == nil {
		return byEmail.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("resolve email: %w", err)
	}

	var ids []uint
	if err := db.Model(&models.User{}).Where("name_key = ?", key).Order("id ASC").Limit(2).Pluck("id", &ids).Error; err != nil {
		return 0, fmt.Errorf("resolve name: %w", err)
	}
	switch len(ids) {
	case 0:
		return 0, ErrNotFound
	case 1:
		return ids[0], nil
	default:
		return 0, ErrAmbiguousMatch
	}
}

// isIntegerToken reports whether token is an optionally signed run of digits.
func isIntegerToken(token string) bool {
	digits := strings.TrimLeft(token, "+-")
	if len(token)-len(digits) > 1 || digits == "" {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// loadUser fetches a user or returns ErrNotFound.
func loadUser(db *gorm.DB, id uint) (*models.User, error) {
	var u models.User
	if err := db.First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load user %d: %w", id, err)
	}
	return &u, nil
}
