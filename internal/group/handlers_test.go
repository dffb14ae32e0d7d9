package group

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/pashagolub/pgxmock/v3"
)

func TestGroupHandlers(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec(`INSERT INTO groups`).
		WithArgs(pgxmock.AnyArg(), "Travel", "travel", "").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	mock.ExpectQuery(`SELECT id, title, slug, description`).
		WithArgs("travel").
		WillReturnRows(pgxmock.NewRows([]string{"id", "title", "slug", "description"}).
			AddRow("g-1", "Travel", "travel", ""))

	app := fiber.New()
	RegisterRoutes(app.Group("/groups"), NewService(mock), func(c *fiber.Ctx) error { return c.Next() })

	body, _ := json.Marshal(Group{Title: "Travel", Slug: "travel"})
	req := httptest.NewRequest(http.MethodPost, "/groups/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusCreated {
		t.Fatalf("create group status: %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, "/groups/travel", nil)
	resp, err = app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("get group status: %v", err)
	}
}

func TestGroupHandlersBadRequest(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app.Group("/groups"), NewService(nil), func(c *fiber.Ctx) error { return c.Next() })

	req := httptest.NewRequest(http.MethodPost, "/groups/", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request")
	}
}

func TestGroupHandlersNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, title, slug, description`).
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows([]string{"id", "title", "slug", "description"}))

	app := fiber.New()
	RegisterRoutes(app.Group("/groups"), NewService(mock), func(c *fiber.Ctx) error { return c.Next() })

	req := httptest.NewRequest(http.MethodGet, "/groups/missing", nil)
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected not found")
	}
}
