// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"time"

	"motion/internal/cache"
	"motion/internal/config"
	"motion/internal/database"
	"motion/internal/middleware"
	"motion/internal/repository"
	"motion/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers.
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	promMiddleware *fiberprometheus.FiberPrometheus

	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	followRepo  repository.FollowRepository
	postRepo    repository.PostRepository

	userService   *service.UserService
	followService *service.FollowService
	postService   *service.PostService
}

// NewServer creates a new server instance, establishing the database and
// Redis connections from configuration.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient()), nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis itself.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	followRepo := repository.NewFollowRepository(db)
	postRepo := repository.NewPostRepository(db)

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: fiberprometheus.New("motion-api"),
		userRepo:       userRepo,
		profileRepo:    profileRepo,
		followRepo:     followRepo,
		postRepo:       postRepo,
	}

	s.userService = service.NewUserService(userRepo, userRepo.IsAdmin)
	s.followService = service.NewFollowService(followRepo, userRepo)
	s.postService = service.NewPostService(postRepo, profileRepo, userRepo, userRepo.IsAdmin)

	return s
}

// SetupMiddleware configures middleware for the Fiber app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	// Propagates request ID and user ID into the request context for the logger.
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
	}

	// Security headers
	app.Use(helmet.New())

	app.Use(middleware.StructuredLogger())

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
}

// SetupRoutes configures all routes for the application.
func (s *Server) SetupRoutes(app *fiber.App) {
	// Health checks
	app.Get("/health", s.HealthCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Token endpoints
	app.Post("/token", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "token"), s.ObtainTokenPair)
	app.Post("/token/refresh", s.RefreshToken)

	// User routes: registration is open, listing is admin-only, detail is
	// public, update/delete is owner-or-admin (enforced in the service).
	users := app.Group("/users")
	users.Post("/", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "register"), s.CreateUser)
	users.Get("/", s.AuthRequired(), s.AdminRequired(), s.ListUsers)
	users.Get("/:id", s.GetUser)
	users.Put("/:id", s.AuthRequired(), s.UpdateUser)
	users.Patch("/:id", s.AuthRequired(), s.UpdateUser)
	users.Delete("/:id", s.AuthRequired(), s.DeleteUser)

	// Follow graph routes
	followers := app.Group("/followers", s.AuthRequired())
	followers.Post("/toggle-follow/:userId", s.ToggleFollow)
	followers.Get("/followers", s.ListFollowers)
	followers.Get("/following", s.ListFollowing)

	// Post routes. Specific paths are registered before the generic /:id.
	posts := app.Group("/posts")
	posts.Get("/user/:userId", s.GetUserPosts)
	posts.Post("/toggle-like/:postId", s.AuthRequired(), s.ToggleLike)
	posts.Get("/likes", s.AuthRequired(), s.ListLikedPosts)
	posts.Get("/following", s.AuthRequired(), s.FollowingFeed)
	posts.Get("/", s.AuthRequired(), s.ListPosts)
	posts.Post("/", s.AuthRequired(), s.CreatePost)
	posts.Get("/:id", s.AuthRequired(), s.GetPost)
	posts.Put("/:id", s.AuthRequired(), s.UpdatePost)
	posts.Patch("/:id", s.AuthRequired(), s.UpdatePost)
	posts.Delete("/:id", s.AuthRequired(), s.DeletePost)
}

// HealthCheck handles the liveness probe with a fixed plain-text body.
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString("ok")
}

// ReadinessCheck reports whether the backing stores are reachable.
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
		// The cache is optional; readiness only requires the database.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overall := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overall = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Shutdown releases server resources.
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
