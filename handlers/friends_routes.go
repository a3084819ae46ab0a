package handlers

import (
	"ecochat-core/middleware"
	"ecochat-core/services"

	"github.com/gofiber/fiber/v2"
)

func SetupFriendRoutes(secured fiber.Router, friendService *services.FriendshipService) {
	secured.Get("/friends", func(c *fiber.Ctx) error {
		friends, err := friendService.ListFriends(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"friends": friends, "count": len(friends)})
	})

	secured.Delete("/friends/:friend_id", func(c *fiber.Ctx) error {
		friendID, ok := paramID(c, "friend_id")
		if !ok {
			return badRequest(c, "invalid friend id")
		}
		if err := friendService.RemoveFriend(c.UserContext(), middleware.UserID(c), friendID); err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"message": "friend removed"})
	})

	secured.Get("/friends/requests", func(c *fiber.Ctx) error {
		pending, err := friendService.ListPending(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"requests": pending})
	})

	secured.Get("/friends/requests/outgoing", func(c *fiber.Ctx) error {
		outgoing, err := friendService.ListOutgoing(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"requests": outgoing})
	})

	secured.Post("/friends/requests", func(c *fiber.Ctx) error {
		var req struct {
			Target string `json:"target"`
		}
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid JSON")
		}
		if req.Target == "" {
			return badRequest(c, "target is required")
		}

		res, err := friendService.SendRequest(c.UserContext(), middleware.UserID(c), req.Target)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	})

	secured.Post("/friends/requests/:requester_id/accept", func(c *fiber.Ctx) error {
		requesterID, ok := paramID(c, "requester_id")
		if !ok {
			return badRequest(c, "invalid requester id")
		}
		if err := friendService.AcceptRequest(c.UserContext(), middleware.UserID(c), requesterID); err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"message": "friend request accepted"})
	})

	secured.Post("/friends/requests/:requester_id/decline", func(c *fiber.Ctx) error {
		requesterID, ok := paramID(c, "requester_id")
		if !ok {
			return badRequest(c, "invalid requester id")
		}
		if err := friendService.DeclineRequest(c.UserContext(), middleware.UserID(c), requesterID); err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"message": "friend request declined"})
	})
}
