package handlers

import (
	"ecochat-core/middleware"
	"ecochat-core/services"

	"github.com/gofiber/fiber/v2"
)

func SetupRankingRoutes(secured fiber.Router, rankingService *services.RankingService) {
	// Always recomputed; clients that want fresh data poll this route.
	secured.Get("/ranking", func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", 0)
		if limit < 0 {
			return badRequest(c, "limit must not be negative")
		}
		board, err := rankingService.Leaderboard(c.UserContext(), middleware.UserID(c), limit)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(board)
	})
}
