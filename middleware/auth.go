package middleware

import (
	"context"
	"strconv"
	"time"

	"ecochat-core/utils"

	"github.com/gofiber/fiber/v2"
)

const userIDKey = "user_id"

// ActivityTracker records that a user was active on a given day.
type ActivityTracker interface {
	TouchActivity(ctx context.Context, userID uint, now time.Time) (bool, error)
}

// UserContextMiddleware reads the caller id the auth service verified (X-User-ID)
// and stores it in Locals. tracker may be nil.
func UserContextMiddleware(tracker ActivityTracker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Get("X-User-ID")
		if raw == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing X-User-ID: request must come through the gateway with auth context",
			})
		}
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid X-User-ID",
			})
		}

		userID := uint(id)
		c.Locals(userIDKey, userID)

		if tracker != nil {
			first, err := tracker.TouchActivity(c.UserContext(), userID, time.Now())
			if err != nil {
				utils.LogError("[USER_CTX] activity tracking failed for %d: %v", userID, err)
			} else if first {
				utils.LogDebug("👤 [USER_CTX] first activity today for user %d", userID)
			}
		}

		return c.Next()
	}
}

// UserID returns the caller id set by UserContextMiddleware.
func UserID(c *fiber.Ctx) uint {
	id, _ := c.Locals(userIDKey).(uint)
	return id
}
