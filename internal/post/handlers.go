package post

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			Text     string `json:"text"`
			GroupID  string `json:"group_id"`
			ImageURL string `json:"image_url"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		authorID, _ := c.Locals("user_id").(string)
		if authorID == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing viewer identity")
		}
		p, err := svc.CreatePost(c.Context(), Post{
			AuthorID: authorID,
			Text:     body.Text,
			GroupID:  body.GroupID,
			ImageURL: body.ImageURL,
		})
		if err != nil {
			return mapError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(p)
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		p, err := svc.GetPost(c.Context(), c.Params("id"))
		if err != nil {
			return mapError(err)
		}
		return c.JSON(p)
	})

	r.Put("/:id", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			Text    string `json:"text"`
			GroupID string `json:"group_id"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		actorID, _ := c.Locals("user_id").(string)
		p, err := svc.EditPost(c.Context(), actorID, c.Params("id"), body.Text, body.GroupID)
		if err != nil {
			return mapError(err)
		}
		return c.JSON(p)
	})
}

func mapError(err error) *fiber.Error {
	switch {
	case errors.Is(err, ErrEmptyText):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotAuthor):
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrUnknownGroup):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, err.Error())
}
