package storage

import (
	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/upload", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			FileName string `json:"file_name"`
		}
		_ = c.BodyParser(&body)

		userID, _ := c.Locals("user_id").(string)
		id, url, err := svc.SaveImage(c.Context(), userID, body.FileName)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":  id,
			"url": url,
		})
	})
}
