// Package router provides HTTP routing, middleware configuration, and server setup for the web application
package router

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"time"

	"github.com/eduvia/eduvia-api/app/dto"
	"github.com/eduvia/eduvia-api/app/handlers"
	"github.com/eduvia/eduvia-api/app/middleware"
	"github.com/eduvia/eduvia-api/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/compress"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router interface for HTTP routing
type Router interface {
	SetupRoutes()
	Start(address string) error
	GetApp() *fiber.App
}

// Handlers bundles every HTTP handler the router mounts
type Handlers struct {
	Auth         handlers.AuthHandlerInterface
	Profile      handlers.ProfileHandlerInterface
	Note         handlers.NoteHandlerInterface
	Timetable    handlers.TimetableHandlerInterface
	Event        handlers.EventHandlerInterface
	LostFound    handlers.LostFoundHandlerInterface
	Notification handlers.NotificationHandlerInterface
	Chat         handlers.ChatHandlerInterface
	Admin        handlers.AdminHandlerInterface
}

// Options carries the router knobs that come from configuration
type Options struct {
	AllowedOrigins []string
	EnableMetrics  bool
	MetricsPath    string
}

// FiberRouter implements Router using Fiber v3
type FiberRouter struct {
	app      *fiber.App
	handlers Handlers
	auth     *middleware.AuthMiddleware
	opts     Options
}

// NewFiberRouter creates a new Fiber router
func NewFiberRouter(h Handlers, auth *middleware.AuthMiddleware, opts Options) Router {
	app := fiber.New(fiber.Config{
		AppName:      "Eduvia API",
		ServerHeader: "Eduvia",
		ErrorHandler: errorHandler,
		BodyLimit:    4 * 1024 * 1024, // 4MB
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	return &FiberRouter{
		app:      app,
		handlers: h,
		auth:     auth,
		opts:     opts,
	}
}

// SetupRoutes configures all application routes
func (r *FiberRouter) SetupRoutes() {
	log.Println("Setting up routes...")

	r.setupMiddleware()

	if r.opts.EnableMetrics {
		path := r.opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.app.Get(path, adaptor.HTTPHandler(promhttp.Handler()))
	}

	api := r.app.Group("/api/v1")

	// Health check route (no rate limiting)
	api.Get("/health", r.healthCheck)

	// General rate limiting for all API routes
	api.Use(limiter.New(limiter.Config{
		Max:        2000,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: rateLimitReached,
		Next: func(c fiber.Ctx) bool {
			return c.Path() == "/api/v1/health"
		},
	}))

	// Auth routes with stricter rate limiting
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:        20,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: rateLimitReached,
	}))

	auth.Post("/signin", r.handlers.Auth.SignIn)
	auth.Post("/refresh", r.handlers.Auth.Refresh)
	auth.Post("/logout", r.auth.Authenticate(), r.handlers.Auth.Logout)

	authed := r.auth.Authenticate()
	admin := r.auth.RequireAdmin()

	// Profile
	api.Get("/profile", authed, r.handlers.Profile.GetProfile)
	api.Put("/profile", authed, r.handlers.Profile.UpdateProfile)
	api.Delete("/profile", authed, r.handlers.Profile.DeleteAccount)

	// Notes
	api.Get("/notes", authed, r.handlers.Note.List)
	api.Post("/notes", authed, admin, r.handlers.Note.Create)
	api.Get("/notes/:id", authed, r.handlers.Note.Get)
	api.Delete("/notes/:id", authed, admin, r.handlers.Note.Delete)
	api.Get("/notes/:id/download", authed, r.handlers.Note.Download)
	api.Get("/debug/notes", authed, r.handlers.Note.DebugMatches)

	// Timetable
	api.Get("/timetable", authed, r.handlers.Timetable.List)
	api.Post("/timetable", authed, admin, r.handlers.Timetable.Create)
	api.Put("/timetable/:id", authed, admin, r.handlers.Timetable.Update)
	api.Delete("/timetable/:id", authed, admin, r.handlers.Timetable.Delete)

	// Events
	api.Get("/events", authed, r.handlers.Event.List)
	api.Post("/events", authed, admin, r.handlers.Event.Create)
	api.Put("/events/:id", authed, admin, r.handlers.Event.Update)
	api.Delete("/events/:id", authed, admin, r.handlers.Event.Delete)

	// Lost & found
	api.Get("/lostfound", authed, r.handlers.LostFound.List)
	api.Post("/lostfound", authed, r.handlers.LostFound.Create)
	api.Patch("/lostfound/:id", authed, r.handlers.LostFound.UpdateStatus)
	api.Delete("/lostfound/:id", authed, r.handlers.LostFound.Delete)

	// Notifications
	api.Get("/notifications", authed, r.handlers.Notification.List)
	api.Post("/notifications/read", authed, r.handlers.Notification.MarkAllRead)
	api.Post("/notifications/:id/read", authed, r.handlers.Notification.MarkRead)

	// Assistant chat
	api.Post("/chat/messages", authed, r.handlers.Chat.Send)
	api.Get("/chat/sessions", authed, r.handlers.Chat.ListSessions)
	api.Get("/chat/sessions/:id/messages", authed, r.handlers.Chat.ListMessages)
	api.Delete("/chat/sessions/:id", authed, r.handlers.Chat.DeleteSession)

	// Admin console
	adminGroup := api.Group("/admin", authed, admin)
	adminGroup.Get("/stats", r.auth.RequireSuperAdmin(), r.handlers.Admin.Stats)
	adminGroup.Get("/users", r.handlers.Admin.ListUsers)
	adminGroup.Get("/users/export", r.auth.RequireSuperAdmin(), r.handlers.Admin.ExportUsers)
	adminGroup.Put("/users/:id/role", r.auth.RequireSuperAdmin(), r.handlers.Admin.ChangeRole)

	// Not found handler
	r.app.Use(r.notFoundHandler)

	log.Println("Routes configured successfully")
}

// setupMiddleware configures global middleware
func (r *FiberRouter) setupMiddleware() {
	// Request ID middleware goes first
	r.app.Use(requestid.New(requestid.Config{
		Header: "X-Request-ID",
		Generator: func() string {
			return generateRequestID()
		},
	}))

	// Security headers middleware
	r.app.Use(helmet.New(helmet.Config{
		XSSProtection:             "1; mode=block",
		ContentTypeNosniff:        "nosniff",
		XFrameOptions:             "DENY",
		HSTSMaxAge:                31536000, // 1 year
		HSTSExcludeSubdomains:     false,
		ContentSecurityPolicy:     "default-src 'self'; frame-ancestors 'none';",
		ReferrerPolicy:            "strict-origin-when-cross-origin",
		CrossOriginOpenerPolicy:   "same-origin",
		CrossOriginResourcePolicy: "cross-origin",
		OriginAgentCluster:        "?1",
		XDNSPrefetchControl:       "off",
		XDownloadOptions:          "noopen",
		XPermittedCrossDomain:     "none",
	}))

	origins := r.opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"https://eduvia.app"}
	}
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{
			"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"Authorization",
			"X-Requested-With",
			"X-Request-ID",
			"Cache-Control",
		},
		ExposeHeaders: []string{
			"X-Request-ID",
			"Content-Disposition",
		},
		AllowCredentials: true,
		MaxAge:           utils.CORSMaxAge,
	}))

	// Compression middleware
	r.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// Prometheus request metrics
	if r.opts.EnableMetrics {
		r.app.Use(middleware.Metrics())
	}

	// Structured request logging
	r.app.Use(logger.New(logger.Config{
		Format:     `{"time":"${time}","pid":"${pid}","request_id":"${locals:requestid}","level":"info","method":"${method}","path":"${path}","protocol":"${protocol}","ip":"${ip}","user_agent":"${ua}","status":${status},"latency":"${latency}","bytes_in":${bytesReceived},"bytes_out":${bytesSent},"referer":"${referer}"}` + "\n",
		TimeFormat: time.RFC3339,
		TimeZone:   "UTC",
		Next: func(c fiber.Ctx) bool {
			return c.Path() == "/api/v1/health"
		},
	}))

	// Recovery middleware with custom error handling
	r.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e interface{}) {
			log.Printf(`{"time":"%s","level":"error","request_id":"%s","event":"panic","error":"%v","path":"%s","method":"%s","ip":"%s"}`,
				utils.UTCNow().Format(time.RFC3339),
				c.Locals("requestid"),
				e,
				c.Path(),
				c.Method(),
				c.IP(),
			)
		},
	}))
}

// Start starts the HTTP server
func (r *FiberRouter) Start(address string) error {
	log.Printf("Starting server on %s", address)
	return r.app.Listen(address)
}

// GetApp returns the Fiber app instance
func (r *FiberRouter) GetApp() *fiber.App {
	return r.app
}

// Health check endpoint
func (r *FiberRouter) healthCheck(c fiber.Ctx) error {
	return c.JSON(dto.APIResponse{
		Success: true,
		Message: "Service is healthy",
		Data: fiber.Map{
			"status":    "ok",
			"timestamp": utils.UTCNow().Unix(),
			"version":   "1.0.0",
			"service":   "eduvia-api",
		},
	})
}

// Not found handler
func (r *FiberRouter) notFoundHandler(c fiber.Ctx) error {
	requestID := c.Locals("requestid")

	return c.Status(fiber.StatusNotFound).JSON(dto.APIResponse{
		Success: false,
		Message: "The requested resource was not found",
		Error: dto.ErrorDetail{
			Code: "NOT_FOUND",
			Details: fiber.Map{
				"path":       c.Path(),
				"method":     c.Method(),
				"request_id": requestID,
			},
		},
	})
}

func rateLimitReached(c fiber.Ctx) error {
	return c.Status(fiber.StatusTooManyRequests).JSON(dto.APIResponse{
		Success: false,
		Message: "Too many requests. Please try again later.",
		Error: dto.ErrorDetail{
			Code: "RATE_LIMIT_EXCEEDED",
		},
	})
}

// Global error handler
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	log.Printf("Error %d: %v", code, err)

	requestID := c.Locals("requestid")

	return c.Status(code).JSON(dto.APIResponse{
		Success: false,
		Message: "An internal server error occurred",
		Error: dto.ErrorDetail{
			Code: "INTERNAL_ERROR",
			Details: fiber.Map{
				"timestamp":  utils.UTCNow().Unix(),
				"request_id": requestID,
			},
		},
	})
}

// generateRequestID creates a unique request ID
func generateRequestID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
