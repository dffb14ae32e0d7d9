package follow

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/:username", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		if err := svc.Follow(c.Context(), userID, c.Params("username")); err != nil {
			return mapError(err)
		}
		return c.SendStatus(fiber.StatusCreated)
	})

	r.Delete("/:username", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		if err := svc.Unfollow(c.Context(), userID, c.Params("username")); err != nil {
			return mapError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Get("/:username", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		following, err := svc.IsFollowing(c.Context(), userID, c.Params("username"))
		if err != nil {
			return mapError(err)
		}
		return c.JSON(fiber.Map{"following": following})
	})
}

func mapError(err error) *fiber.Error {
	switch {
	case errors.Is(err, ErrSelfFollow):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ErrUnknownAuthor):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, err.Error())
}
