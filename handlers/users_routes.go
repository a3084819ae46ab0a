package handlers

import (
	"ecochat-core/middleware"
	"ecochat-core/services"

	"github.com/gofiber/fiber/v2"
)

// SetupRegistrationRoutes registers account creation. The auth service calls it
// before any user context exists, so it must be mounted ahead of the secured group.
func SetupRegistrationRoutes(app fiber.Router, userService *services.UserService) {
	app.Post("/users", func(c *fiber.Ctx) error {
		var req struct {
			Name     string `json:"name"`
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid JSON")
		}
		user, err := userService.Register(c.UserContext(), req.Name, req.Email, req.Password)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(user)
	})
}

func SetupUserRoutes(secured fiber.Router, userService *services.UserService, identityService *services.IdentityService) {
	secured.Get("/users/resolve", func(c *fiber.Ctx) error {
		id, err := identityService.Resolve(c.UserContext(), c.Query("q"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"user_id": id})
	})

	secured.Get("/users/search", func(c *fiber.Ctx) error {
		results, err := userService.Search(c.UserContext(), middleware.UserID(c), c.Query("q"), c.QueryInt("limit", 20))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(results)
	})
}
