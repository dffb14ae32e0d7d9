package feed

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, cache *PageCache, authMiddleware fiber.Handler) {
	r.Get("/", func(c *fiber.Ctx) error {
		page := pageParam(c)
		if page > 1 {
			// only the first index page is cached
			p, err := svc.Global(c.Context(), page)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, err.Error())
			}
			return c.JSON(p)
		}

		body, _, err := cache.GetOrCompute(c.Context(), func(ctx context.Context) ([]byte, error) {
			p, err := svc.Global(ctx, 1)
			if err != nil {
				return nil, err
			}
			return json.Marshal(p)
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(body)
	})

	r.Get("/group/:slug", func(c *fiber.Ctx) error {
		p, err := svc.ByGroup(c.Context(), c.Params("slug"), pageParam(c))
		if err != nil {
			return mapError(err)
		}
		return c.JSON(p)
	})

	r.Get("/profile/:username", func(c *fiber.Ctx) error {
		p, err := svc.ByAuthor(c.Context(), c.Params("username"), pageParam(c))
		if err != nil {
			return mapError(err)
		}
		return c.JSON(p)
	})

	r.Get("/following", authMiddleware, func(c *fiber.Ctx) error {
		viewerID, _ := c.Locals("user_id").(string)
		if viewerID == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing viewer identity")
		}
		p, err := svc.Following(c.Context(), viewerID, pageParam(c))
		if err != nil {
			return mapError(err)
		}
		return c.JSON(p)
	})

	r.Delete("/cache", authMiddleware, func(c *fiber.Ctx) error {
		if err := cache.Invalidate(c.Context()); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

func pageParam(c *fiber.Ctx) int {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	return page
}

func mapError(err error) *fiber.Error {
	if errors.Is(err, ErrUnknownGroup) || errors.Is(err, ErrUnknownAuthor) {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, err.Error())
}
