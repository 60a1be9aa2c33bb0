// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// compression, CORS, and security headers.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggoFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/dida1024/AideX/internal/ai"
	"github.com/dida1024/AideX/internal/auth"
	"github.com/dida1024/AideX/internal/config"
	"github.com/dida1024/AideX/internal/http/handlers"
	"github.com/dida1024/AideX/internal/http/middleware"
	"github.com/dida1024/AideX/internal/services"
	"github.com/dida1024/AideX/internal/storage"
)

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), compression, CORS
// and security headers, health and docs endpoints, and then mounts the
// versioned public API under /api/v*.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Gzip compression
//  7. Metrics
//  8. CORS and Security headers
//
// chat may be nil; the chat endpoint then reports itself unavailable.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, chat *ai.ChatClient, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction (Authorization is masked by default)
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{}))

	// 4) Panic recovery to envelope 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (20 MiB; uploads go through this too)
	r.Use(limitBody(20 << 20))

	// 6) Response compression (skip the Prometheus scrape endpoint)
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	// 7) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 8) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.FailStatus(c, http.StatusNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.FailStatus(c, http.StatusMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// API docs (off by default)
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggoFiles.Handler))
	}

	// Dependency injection: services ← repo/db/config
	issuer := &auth.TokenIssuer{
		Secret:         []byte(cfg.Auth.SecretKey),
		AccessTokenTTL: cfg.Auth.AccessTokenTTL,
		ResetTokenTTL:  cfg.Auth.ResetTokenTTL,
	}
	authn := &auth.Authenticator{DB: db, Issuer: issuer}
	store := storage.FileStore{Dir: cfg.UploadDir}

	userSvc := &services.UserService{DB: db, Issuer: issuer, Mailer: services.LogSender{}}
	itemSvc := &services.ItemService{DB: db}
	paperSvc := &services.PaperService{DB: db, Store: store, BaseURL: cfg.BackendHost}

	var completer handlers.ChatCompleter
	if chat != nil {
		completer = chat
	}
	h := handlers.New(userSvc, itemSvc, paperSvc, issuer, completer, store)

	// Public API
	apiBase := cfg.APIBasePath // e.g. "/api/v1"
	api := groupWithPrefix(r, apiBase)
	{
		// Login & recovery (no token required)
		api.POST("/login/access-token", h.LoginAccessToken)
		api.POST("/password-recovery/:email", h.PasswordRecovery)
		api.POST("/reset-password", h.ResetPassword)
		api.POST("/users/signup", h.Signup)

		// Unauthenticated utilities
		api.GET("/utils/health-check", h.HealthCheck)
		api.GET("/utils/download", h.Download)

		// Everything below requires a valid bearer token
		authd := api.Group("", middleware.RequireUser(authn))

		authd.POST("/login/test-token", h.TestToken)

		// Users
		authd.GET("/users", h.ListUsers)
		authd.POST("/users", h.CreateUser)
		authd.GET("/users/me", h.Me)
		authd.PATCH("/users/me", h.UpdateMe)
		authd.DELETE("/users/me", h.DeleteMe)
		authd.PATCH("/users/me/password", h.UpdateMyPassword)
		authd.GET("/users/:id", h.GetUser)
		authd.PATCH("/users/:id", h.UpdateUser)
		authd.DELETE("/users/:id", h.DeleteUser)

		// Items
		authd.GET("/items", h.ListItems)
		authd.POST("/items", h.CreateItem)
		authd.GET("/items/:id", h.GetItem)
		authd.PUT("/items/:id", h.UpdateItem)
		authd.DELETE("/items/:id", h.DeleteItem)

		// Papers
		authd.GET("/papers", h.ListPapers)
		authd.POST("/papers", h.UploadPaper)

		// AI chat
		authd.POST("/utils/chat", h.Chat)
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
