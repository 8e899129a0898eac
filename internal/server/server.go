// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"time"

	"moim/internal/config"
	"moim/internal/database"
	"moim/internal/middleware"
	"moim/internal/repository"
	"moim/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	promMiddleware *fiberprometheus.FiberPrometheus

	userRepo    repository.UserRepository
	feedRepo    repository.FeedRepository
	hashtagRepo repository.HashtagRepository
	commentRepo repository.CommentRepository
	clapRepo    repository.ClapRepository

	feedService    *service.FeedService
	commentService *service.CommentService
	clapService    *service.ClapService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisURL})
	}

	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	userRepo := repository.NewUserRepository(db)
	feedRepo := repository.NewFeedRepository(db)
	hashtagRepo := repository.NewHashtagRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	clapRepo := repository.NewClapRepository(db)

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: fiberprometheus.New("moim-api"),
		userRepo:       userRepo,
		feedRepo:       feedRepo,
		hashtagRepo:    hashtagRepo,
		commentRepo:    commentRepo,
		clapRepo:       clapRepo,
	}

	log := middleware.Logger
	server.feedService = service.NewFeedService(db, feedRepo, hashtagRepo, log)
	server.commentService = service.NewCommentService(commentRepo, feedRepo, log)
	server.clapService = service.NewClapService(clapRepo, feedRepo, commentRepo, log)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context middleware to propagate request ID and user ID into logs
	app.Use(middleware.ContextMiddleware())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS must run before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)

	// Public feed routes (browse)
	publicFeeds := api.Group("/feeds")
	publicFeeds.Get("/", s.GetFeeds)
	// Define specific /:id/:resource routes BEFORE generic /:id route
	publicFeeds.Get("/:id/comments", s.GetComments)
	publicFeeds.Get("/:id/claps", s.GetFeedClappers)
	publicFeeds.Get("/:id", s.GetFeed)
	api.Get("/comments/:id/claps", s.GetCommentClappers)

	// Protected routes
	protected := api.Group("", middleware.RequireAuth(s.config.JWTSecret))

	feeds := protected.Group("/feeds")
	feeds.Post("/", middleware.RateLimit(
		s.redis, 10, time.Minute, "create_feed"), s.CreateFeed)
	feeds.Post("/:id/claps", s.ToggleFeedClap)
	feeds.Post("/:id/comments", middleware.RateLimit(
		s.redis, 15, time.Minute, "create_comment"), s.CreateComment)
	feeds.Put("/:id/comments/:commentId", s.UpdateComment)
	feeds.Delete("/:id/comments/:commentId", s.DeleteComment)
	// Generic /:id routes (update, delete) must be last
	feeds.Put("/:id", s.UpdateFeed)
	feeds.Delete("/:id", s.DeleteFeed)

	protected.Post("/comments/:id/claps", s.ToggleCommentClap)
}

// Shutdown releases server-held resources.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			return err
		}
	}
	if s.db != nil {
		sqlDB, err := s.db.DB()
		if err == nil {
			return sqlDB.Close()
		}
	}
	return nil
}
