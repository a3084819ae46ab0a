package handlers

import (
	"ecochat-core/middleware"
	"ecochat-core/services"

	"github.com/gofiber/fiber/v2"
)

func SetupProfileRoutes(secured fiber.Router, profileService *services.ProfileService, userService *services.UserService) {
	secured.Get("/profile", func(c *fiber.Ctx) error {
		profile, err := profileService.GetProfile(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(profile)
	})

	secured.Get("/profile/:user_id", func(c *fiber.Ctx) error {
		userID, ok := paramID(c, "user_id")
		if !ok {
			return badRequest(c, "invalid user id")
		}
		profile, err := profileService.GetProfile(c.UserContext(), userID)
		if err != nil {
			return respondError(c, err)
		}
		if userID != middleware.UserID(c) {
			profile.Email = ""
		}
		return c.JSON(profile)
	})

	secured.Put("/profile", func(c *fiber.Ctx) error {
		var req struct {
			Name  string `json:"name"`
			Email string `json:"email"`
		}
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid JSON")
		}
		user, err := userService.UpdateProfile(c.UserContext(), middleware.UserID(c), req.Name, req.Email)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(user)
	})
}
