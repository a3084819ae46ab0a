package handlers

import (
	"ecochat-core/middleware"
	"ecochat-core/services"

	"github.com/gofiber/fiber/v2"
)

// Services bundles everything the HTTP layer calls into.
type Services struct {
	Identity   *services.IdentityService
	Friendship *services.FriendshipService
	Scoring    *services.ScoringService
	Ranking    *services.RankingService
	Profile    *services.ProfileService
	Users      *services.UserService
}

// SetupRoutes mounts every route on app. Gateway auth is applied by the caller.
func SetupRoutes(app *fiber.App, svc Services) {
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	SetupRegistrationRoutes(app, svc.Users)

	// Everything registered after this group requires X-User-ID.
	secured := app.Group("/", middleware.UserContextMiddleware(svc.Users))

	SetupUserRoutes(secured, svc.Users, svc.Identity)
	SetupFriendRoutes(secured, svc.Friendship)
	SetupTaskRoutes(secured, svc.Scoring)
	SetupRankingRoutes(secured, svc.Ranking)
	SetupProfileRoutes(secured, svc.Profile, svc.Users)
}
