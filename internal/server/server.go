package server

import (
	"time"

	"backend-bloghub/internal/auth"
	"backend-bloghub/internal/config"
	"backend-bloghub/internal/feed"
	"backend-bloghub/internal/follow"
	"backend-bloghub/internal/group"
	"backend-bloghub/internal/post"
	"backend-bloghub/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App   *fiber.App
	Cfg   config.Config
	DB    *pgxpool.Pool
	Redis *redis.Client
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	if cfg.PageSize <= 0 {
		cfg.PageSize = 10
	}
	if cfg.IndexCacheTTL <= 0 {
		cfg.IndexCacheTTL = 20
	}

	s := &Server{
		App:   app,
		Cfg:   cfg,
		DB:    db,
		Redis: redisClient,
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)
	indexCache := feed.NewPageCache(s.Redis, time.Duration(s.Cfg.IndexCacheTTL)*time.Second)

	auth.RegisterRoutes(s.App.Group("/auth"), auth.NewService(s.Cfg.JWTSecret, s.DB))
	group.RegisterRoutes(s.App.Group("/groups"), group.NewService(s.DB), jwtMiddleware)
	post.RegisterRoutes(s.App.Group("/posts"), post.NewService(s.DB), jwtMiddleware)
	feed.RegisterRoutes(s.App.Group("/feed"), feed.NewService(s.DB, s.Cfg.PageSize), indexCache, jwtMiddleware)
	follow.RegisterRoutes(s.App.Group("/follow"), follow.NewService(s.DB), jwtMiddleware)
	storage.RegisterRoutes(s.App.Group("/storage"), storage.NewService(s.DB, ""), jwtMiddleware)
}
