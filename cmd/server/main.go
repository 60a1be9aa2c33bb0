// Command server runs the AideX backend: a multi-tenant API for user
// accounts, items, and research-paper uploads, with an optional AI chat
// endpoint.
//
// Startup order: env file → config → logging → database (+migrations, first
// superuser) → tracing → HTTP server. Shutdown drains in-flight requests and
// flushes traces.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	_ "github.com/dida1024/AideX/docs"
	"github.com/dida1024/AideX/internal/ai"
	"github.com/dida1024/AideX/internal/auth"
	"github.com/dida1024/AideX/internal/config"
	httpapi "github.com/dida1024/AideX/internal/http"
	"github.com/dida1024/AideX/internal/observability"
	"github.com/dida1024/AideX/internal/repo"
	"github.com/dida1024/AideX/internal/services"
	"github.com/dida1024/AideX/internal/sysutil"
)

// version is stamped at build time via -ldflags.
var version = "dev"

// @title        AideX API
// @version      1.0
// @description  Multi-tenant backend for users, items, and research papers.
// @BasePath     /api/v1
//
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	sysutil.SetupLogger(cfg.LogLevel, cfg.LogPretty)
	gin.SetMode(cfg.GinMode)

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.UploadDir).Msg("create upload dir")
	}

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}
	if cfg.OTEL.Enabled {
		if err := repo.EnableTracing(db); err != nil {
			log.Fatal().Err(err).Msg("enable db tracing")
		}
	}

	ctx := context.Background()

	issuer := &auth.TokenIssuer{
		Secret:         []byte(cfg.Auth.SecretKey),
		AccessTokenTTL: cfg.Auth.AccessTokenTTL,
		ResetTokenTTL:  cfg.Auth.ResetTokenTTL,
	}
	userSvc := &services.UserService{DB: db, Issuer: issuer, Mailer: services.LogSender{}}
	if err := userSvc.EnsureSuperuser(ctx, cfg.Superuser.Email, cfg.Superuser.Password); err != nil {
		log.Fatal().Err(err).Msg("seed superuser")
	}

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("setup tracing")
	}

	var chat *ai.ChatClient
	if cfg.AI.Enabled {
		chat = ai.NewChatClient(cfg.AI.APIKey, cfg.AI.BaseURL, cfg.AI.Model)
	}

	r := gin.New()
	httpapi.RegisterRoutes(r, db, chat, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	if err := shutdownOTel(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("tracing shutdown")
	}
}
