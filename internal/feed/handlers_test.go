package feed

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/redis/go-redis/v9"
)

func viewerMiddleware(userID string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("user_id", userID)
		return c.Next()
	}
}

func newFeedApp(t *testing.T, mock pgxmock.PgxPoolIface) *fiber.App {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	app := fiber.New()
	RegisterRoutes(app.Group("/feed"), NewService(mock, 10), NewPageCache(client, time.Minute), viewerMiddleware("user-1"))
	return app
}

func TestIndexFeedCachedAcrossWrites(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	app := newFeedApp(t, mock)

	createdAt := time.Now()
	mock.ExpectQuery(selectFeed).
		WithArgs(10, 0).
		WillReturnRows(feedRows().
			AddRow("post-1", "user-1", "lisa", "first post", "", "", "", createdAt))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/feed/", nil))
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("first fetch: %v", err)
	}
	first, _ := io.ReadAll(resp.Body)

	// a post was written meanwhile; the cached page must not change
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/feed/", nil))
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("second fetch: %v", err)
	}
	second, _ := io.ReadAll(resp.Body)
	if !bytes.Equal(first, second) {
		t.Fatalf("expected byte-identical cached index page")
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, "/feed/cache", nil))
	if err != nil || resp.StatusCode != http.StatusNoContent {
		t.Fatalf("invalidate: %v", err)
	}

	mock.ExpectQuery(selectFeed).
		WithArgs(10, 0).
		WillReturnRows(feedRows().
			AddRow("post-2", "user-1", "lisa", "second post", "", "", "", createdAt.Add(time.Minute)).
			AddRow("post-1", "user-1", "lisa", "first post", "", "", "", createdAt))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/feed/", nil))
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("fetch after invalidate: %v", err)
	}
	third, _ := io.ReadAll(resp.Body)
	if bytes.Equal(first, third) {
		t.Fatalf("expected fresh index page after invalidate")
	}
	if !bytes.Contains(third, []byte("post-2")) {
		t.Fatalf("expected new post in recomputed page")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestIndexFeedLaterPagesBypassCache(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	app := newFeedApp(t, mock)

	// page 2 always computes, once per request
	for i := 0; i < 2; i++ {
		mock.ExpectQuery(selectFeed).
			WithArgs(10, 10).
			WillReturnRows(feedRows().
				AddRow("post-11", "user-1", "lisa", "old", "", "", "", time.Now()))
	}

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/feed/?page=2", nil))
		if err != nil || resp.StatusCode != http.StatusOK {
			t.Fatalf("page 2 fetch: %v", err)
		}
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGroupFeedHandler(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	app := newFeedApp(t, mock)

	mock.ExpectQuery(`SELECT id FROM groups`).
		WithArgs("travel").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("group-1"))
	mock.ExpectQuery(selectFeed).
		WithArgs("group-1", 10, 0).
		WillReturnRows(feedRows().
			AddRow("post-1", "user-1", "lisa", "trip", "group-1", "travel", "", time.Now()))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/feed/group/travel", nil))
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("group feed: %v", err)
	}
}

func TestGroupFeedHandlerUnknownSlug(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	app := newFeedApp(t, mock)

	mock.ExpectQuery(`SELECT id FROM groups`).
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/feed/group/missing", nil))
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected not found for unknown group")
	}
}

func TestFollowingFeedHandler(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	app := newFeedApp(t, mock)

	mock.ExpectQuery(selectFeed).
		WithArgs("user-1", 10, 0).
		WillReturnRows(feedRows())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/feed/following", nil))
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("following feed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if !bytes.Contains(body, []byte(`"posts":[]`)) {
		t.Fatalf("expected empty posts array, got %s", body)
	}
}

func TestProfileFeedHandlerUnknownUser(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	app := newFeedApp(t, mock)

	mock.ExpectQuery(`SELECT id FROM users`).
		WithArgs("ghost").
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/feed/profile/ghost", nil))
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected not found for unknown user")
	}
}
