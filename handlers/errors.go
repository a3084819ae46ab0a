package handlers

import (
	"strconv"

	"ecochat-core/services"
	"ecochat-core/utils"

	"github.com/gofiber/fiber/v2"
)

var kindStatus = map[services.Kind]int{
	services.KindNotFound:              fiber.StatusNotFound,
	services.KindAmbiguousMatch:        fiber.StatusConflict,
	services.KindSelfFriendRequest:     fiber.StatusBadRequest,
	services.KindAlreadyFriends:        fiber.StatusConflict,
	services.KindRequestAlreadyPending: fiber.StatusConflict,
	services.KindNoSuchRequest:         fiber.StatusNotFound,
	services.KindNoSuchFriendship:      fiber.StatusNotFound,
	services.KindUnknownTask:           fiber.StatusNotFound,
	services.KindNotCompleted:          fiber.StatusConflict,
	services.KindEmailTaken:            fiber.StatusConflict,
	services.KindInvalidInput:          fiber.StatusBadRequest,
}

// respondError writes typed engine errors with their mapped status; anything
// else is logged and hidden behind a 500.
func respondError(c *fiber.Ctx, err error) error {
	kind := services.KindOf(err)
	if status, ok := kindStatus[kind]; ok {
		return c.Status(status).JSON(fiber.Map{
			"error": err.Error(),
			"code":  kind,
		})
	}

	utils.LogError("%s %s failed: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "internal error",
		"code":  "internal",
	})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": msg,
		"code":  services.KindInvalidInput,
	})
}

// paramID parses a positive numeric route parameter.
func paramID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
