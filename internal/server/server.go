// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"log"
	"time"

	"hayai/internal/bootstrap"
	"hayai/internal/config"
	"hayai/internal/featureflags"
	"hayai/internal/middleware"
	"hayai/internal/models"
	"hayai/internal/notifications"
	"hayai/internal/repository"
	"hayai/internal/service"
	"hayai/internal/storage"
	"hayai/internal/transform"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
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
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc
	store          storage.BlobStore
	featureFlags   *featureflags.Manager
	userRepo       repository.UserRepository
	postRepo       repository.PostRepository
	commentRepo    repository.CommentRepository
	followRepo     repository.FollowRepository
	notifier       *notifications.Notifier

	userService        *service.UserService
	postService        *service.PostService
	interactionService *service.InteractionService
	followService      *service.FollowService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, redisClient, err := bootstrap.InitRuntime(cfg, bootstrap.Options{
		EnsureDemoAccounts: true,
	})
	if err != nil {
		return nil, err
	}

	store := storage.NewLocalStore(cfg.UploadDir, cfg.PublicBaseURL)
	transformer := transform.NewHTTPClient(cfg)

	return NewServerWithDeps(cfg, db, redisClient, store, transformer)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis and optionally
// performs explicit seeding.
func NewServerWithDeps(
	cfg *config.Config,
	db *gorm.DB,
	redisClient *redis.Client,
	store storage.BlobStore,
	transformer transform.Transformer,
) (*Server, error) {
	middleware.InitMiddleware(cfg)

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	followRepo := repository.NewFollowRepository(db)

	prom := middleware.InitMetrics("hayai-api")

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		store:          store,
		featureFlags:   featureflags.NewManager(cfg.FeatureFlags),
		userRepo:       userRepo,
		postRepo:       postRepo,
		commentRepo:    commentRepo,
		followRepo:     followRepo,
	}

	if redisClient != nil {
		server.notifier = notifications.NewNotifier(redisClient)
	}

	server.userService = service.NewUserService(userRepo, cfg.AvatarDir)
	server.postService = service.NewPostService(
		postRepo, store, transformer, server.notifier,
		cfg.MaxUploadBytes(), server.userService.IsAdmin)
	server.interactionService = service.NewInteractionService(
		postRepo, commentRepo, userRepo, server.notifier)
	server.followService = service.NewFollowService(
		followRepo, userRepo, server.notifier)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// OpenTelemetry spans per request
	app.Use(middleware.TracingMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS middleware should run before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they should be handled by CORS.
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
	app.Get("/health", s.ReadinessCheck)
	api.Get("/", s.HealthCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "HayAI Backend Metrics Dashboard",
	}))

	// Static media: uploaded drawings, their transforms and the built-in avatars
	if local, ok := s.store.(*storage.LocalStore); ok {
		app.Static("/media", local.Dir())
	}
	if s.config.AvatarDir != "" {
		app.Static("/avatars", s.config.AvatarDir)
	}

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)

	// Fixed catalogs
	api.Get("/styles", s.GetStyles)
	api.Get("/comments/presets", s.GetCommentPresets)
	api.Get("/avatars", s.GetAvatars)

	// Post reads work anonymously; visibility gating hides what the
	// viewer may not see.
	publicPosts := api.Group("/posts", middleware.AuthOptional)
	publicPosts.Get("/", s.GetFeed)
	publicPosts.Get("/:imageId/comments", s.GetComments)
	publicPosts.Get("/:imageId", s.GetPost)

	// Protected routes
	protected := api.Group("", middleware.AuthRequired)

	// Post lifecycle and interactions
	posts := protected.Group("/posts")
	posts.Post("/", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "upload"), s.UploadDrawing)
	// Define specific /:imageId/:resource routes BEFORE generic /:imageId route
	posts.Post("/:imageId/transform", middleware.RateLimit(
		s.redis, 5, 5*time.Minute, "transform"), s.TransformPost)
	posts.Put("/:imageId/visibility", s.SetPostVisibility)
	posts.Post("/:imageId/like", s.LikePost)
	posts.Delete("/:imageId/like", s.UnlikePost)
	posts.Post("/:imageId/comments", middleware.RateLimit(
		s.redis, 10, time.Minute, "create_comment"), s.CreateComment)
	posts.Delete("/:imageId", s.DeletePost)

	// User routes
	users := protected.Group("/users")
	users.Get("/me", s.GetMyProfile)
	users.Put("/me", s.UpdateMyProfile)
	users.Put("/me/avatar", s.SetMyAvatar)
	users.Get("/search", s.SearchUsers)

	// Define specific /:id/:resource routes BEFORE generic /:id route
	users.Get("/:id/posts", s.GetUserPosts)
	users.Get("/:id/followers", s.GetFollowers)
	users.Get("/:id/following", s.GetFollowing)
	users.Get("/:id/follow-stats", s.GetFollowStats)
	users.Post("/:id/follow", s.FollowUser)
	users.Delete("/:id/follow", s.UnfollowUser)
	users.Get("/:id/follow", s.GetFollowStatus)
	users.Get("/:id", s.GetUserProfile)

	// Admin-only operations
	admin := protected.Group("/admin", s.AdminRequired())
	admin.Get("/feature-flags", s.GetFeatureFlags)
}

// HealthCheck is a legacy/simple alias for ReadinessCheck
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return s.ReadinessCheck(c)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// The app degrades without Redis (no cache, no notifications)
		// but stays serviceable, so a missing client is not fatal here.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"message": "HayAI",
		"version": "1.0.0",
		"status":  overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AdminRequired returns middleware that rejects non-admin users with 403.
// Must be placed after AuthRequired so that userID is available in locals.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("userID").(uint)

		admin, err := s.userService.IsAdmin(c.UserContext(), userID)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
		if !admin {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Admin access required"))
		}

		return c.Next()
	}
}

// Start starts the server
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	app := fiber.New(fiber.Config{
		AppName:   "HayAI API",
		BodyLimit: int(s.config.MaxUploadBytes()) + 1024*1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	if s.notifier != nil {
		if err := s.notifier.StartPatternSubscriber(s.shutdownCtx, logNotification); err != nil {
			log.Printf("failed to start notification subscriber: %v", err)
		}
	}

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// logNotification is the default sink for published events. A push
// delivery channel (APNs, web push) would hang off this hook.
func logNotification(channel string, payload string) {
	log.Printf("notification on %s: %s", channel, payload)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	// Cancel the server-scoped context to stop the notification subscriber
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	// Close database connection
	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	// Close Redis connection
	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
