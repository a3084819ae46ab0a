package handlers

import (
	"ecochat-core/middleware"
	"ecochat-core/services"

	"github.com/gofiber/fiber/v2"
)

func SetupTaskRoutes(secured fiber.Router, scoringService *services.ScoringService) {
	secured.Get("/tasks", func(c *fiber.Ctx) error {
		board, err := scoringService.TaskBoard(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(board)
	})

	secured.Post("/tasks/:task_id/complete", func(c *fiber.Ctx) error {
		taskID, ok := paramID(c, "task_id")
		if !ok {
			return badRequest(c, "invalid task id")
		}
		res, err := scoringService.CompleteTask(c.UserContext(), middleware.UserID(c), taskID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(res)
	})

	secured.Post("/tasks/:task_id/uncomplete", func(c *fiber.Ctx) error {
		taskID, ok := paramID(c, "task_id")
		if !ok {
			return badRequest(c, "invalid task id")
		}
		res, err := scoringService.UncompleteTask(c.UserContext(), middleware.UserID(c), taskID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(res)
	})
}
