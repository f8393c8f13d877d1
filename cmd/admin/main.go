package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dafibh/fortuna/fortuna-admin/internal/api"
	"github.com/dafibh/fortuna/fortuna-admin/internal/config"
	"github.com/dafibh/fortuna/fortuna-admin/internal/handler"
	"github.com/dafibh/fortuna/fortuna-admin/internal/middleware"
	"github.com/dafibh/fortuna/fortuna-admin/internal/page"
	"github.com/dafibh/fortuna/fortuna-admin/internal/repository/rest"
	"github.com/dafibh/fortuna/fortuna-admin/internal/websocket"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Finance backend client
	clientOpts := []api.ClientOption{api.WithToken(cfg.Backend.Token)}
	if cfg.Backend.Timeout > 0 {
		clientOpts = append(clientOpts, api.WithTimeout(cfg.Backend.Timeout))
	}
	client := api.NewClient(cfg.Backend.BaseURL, clientOpts...)

	var transport rest.Transport = client
	if cfg.Backend.WithCredentials {
		transport = rest.WithCredentials(client)
	}
	log.Info().
		Str("backend", cfg.Backend.BaseURL).
		Bool("with_credentials", cfg.Backend.WithCredentials).
		Msg("Finance backend configured")

	// Initialize repositories
	deps := page.Dependencies{
		ExpenseTypes: rest.NewExpenseTypeRepository(transport),
		Funds:        rest.NewMonetaryFundRepository(transport),
		Budgets:      rest.NewBudgetRepository(transport),
		Deposits:     rest.NewDepositRepository(transport),
		Expenses:     rest.NewExpenseRepository(transport),
		Reports:      rest.NewReportRepository(transport),
	}

	// Page sessions publish their events to the session's websockets
	hub := websocket.NewHub()
	registry := page.NewRegistry(deps, cfg.SessionTTL)
	registry.SetEventPublisher(hub)
	registry.OnExpire(hub.CloseSession)

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst)

	// Optional Auth0 gate
	var authenticate echo.MiddlewareFunc
	var tokenValidator middleware.TokenValidator
	if cfg.AuthEnabled() {
		authMiddleware, err := middleware.NewAuthMiddleware(cfg.Auth0Domain, cfg.Auth0Audience)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create auth middleware")
		}
		authenticate = authMiddleware.Authenticate()
		tokenValidator = authMiddleware
		log.Info().Str("domain", cfg.Auth0Domain).Msg("Auth0 gate enabled")
	} else {
		log.Warn().Msg("Auth0 not configured, page routes are open")
	}

	wsHandler := handler.NewWebSocketHandler(hub, tokenValidator, cfg.CORSOrigins)
	handlers := handler.NewHandlers(registry, wsHandler)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomiddleware.RequestID())

	// Credentials are allowed so the session cookie travels cross-origin
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		ExposeHeaders:    []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	e.Use(middleware.RequestLogger())
	e.Use(echomiddleware.Recover())

	handler.RegisterHealth(e)
	handler.RegisterRoutes(e, handlers, authenticate,
		middleware.Session(middleware.SessionConfig{
			TTL:    cfg.SessionTTL,
			Secure: cfg.Env == "production",
		}),
		middleware.RateLimitMiddleware(limiter),
	)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}
	registry.Stop()
	limiter.Stop()

	log.Info().Msg("Server exited")
}
