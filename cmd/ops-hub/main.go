package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ops-hub/internal/adapter/gateway"
	adapterhandler "ops-hub/internal/adapter/handler"
	"ops-hub/internal/domain"
	infracache "ops-hub/internal/infrastructure/cache"
	"ops-hub/internal/infrastructure/postgres"
	infratoken "ops-hub/internal/infrastructure/token"
	"ops-hub/internal/usecase"

	"ops-hub/config"
	"ops-hub/metrics"
	appmiddleware "ops-hub/middleware"
	"ops-hub/utils/logger"
	"ops-hub/utils/otel"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Handle healthcheck subcommand (for Docker healthcheck in distroless image)
	if len(os.Args) > 1 && os.Args[1] == "healthcheck" {
		if err := runHealthcheck(); err != nil {
			fmt.Fprintf(os.Stderr, "Healthcheck failed: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// Load environment variables from .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not load .env file", "error", err)
	}

	// Initialize OpenTelemetry
	otelCfg := otel.ConfigFromEnv()
	otelShutdown, err := otel.InitProvider(ctx, otelCfg)
	if err != nil {
		slog.Warn("failed to initialize OpenTelemetry, continuing without tracing", "error", err)
		otelCfg.Enabled = false
	}
	if otelShutdown == nil {
		otelShutdown = func(context.Context) error { return nil }
	}

	// Initialize structured logger
	logger.Init(otelCfg.Enabled)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.ErrorContext(ctx, "failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.InfoContext(ctx, "configuration loaded",
		"kratos_url", cfg.KratosURL,
		"port", cfg.Port,
		"auth_mode", cfg.AuthMode,
		"profile_cache_ttl", cfg.ProfileCacheTTL)

	// Infrastructure
	pool, err := postgres.NewPool(ctx, cfg.DatabaseDSN)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	profileRepo := postgres.NewProfileRepository(pool)
	collectionRepo := postgres.NewCollectionRepository(pool, pool, slog.Default())
	profileCache := infracache.NewProfileCache(cfg.ProfileCacheTTL)

	jwtIssuer := infratoken.NewJWTIssuer(infratoken.JWTConfig{
		Secret:   cfg.SessionTokenSecret,
		Issuer:   cfg.SessionTokenIssuer,
		Audience: cfg.SessionTokenAudience,
		TTL:      cfg.SessionTokenTTL,
	})
	csrfGenerator := infratoken.NewHMACCSRFGenerator(cfg.CSRFSecret)

	// Auth provider variant. No automatic fallback: the fixed identity
	// is served only when configuration says so.
	var provider domain.AuthProvider
	switch cfg.AuthMode {
	case config.AuthModeFixed:
		slog.WarnContext(ctx, "running with the fixed development identity")
		provider = gateway.NewFixedIdentityProvider()
	default:
		provider = gateway.NewKratosProvider(cfg.KratosURL, cfg.KratosAdminURL, 5*time.Second, profileRepo, profileCache)
	}

	// Usecases
	session := usecase.NewSession(provider, slog.Default())
	if err := session.Initialize(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to initialize session context", "error", err)
		os.Exit(1)
	}
	defer session.Close()

	dashboard := usecase.NewHomeDashboard(collectionRepo, slog.Default(), metrics.RecordDashboard)
	if err := dashboard.Mount(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to mount dashboard", "error", err)
		os.Exit(1)
	}
	defer dashboard.Unmount()

	// Handlers
	loginHandler := adapterhandler.NewLoginHandler(session, jwtIssuer, csrfGenerator, cfg.SessionTokenTTL)
	logoutHandler := adapterhandler.NewLogoutHandler(session, csrfGenerator)
	sessionHandler := adapterhandler.NewSessionHandler(session)
	csrfHandler := adapterhandler.NewCSRFHandler(session, csrfGenerator)
	dashboardHandler := adapterhandler.NewDashboardHandler(dashboard)
	healthHandler := adapterhandler.NewHealthHandler()

	// Setup Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Security middleware
	e.Use(appmiddleware.SecurityHeaders())

	// OpenTelemetry tracing
	if otelCfg.Enabled {
		e.Use(otelecho.Middleware(otelCfg.ServiceName))
	}

	// Request logging
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == "/health" || c.Request().URL.Path == "/metrics"
		},
		LogStatus:   true,
		LogURI:      true,
		LogError:    true,
		LogMethod:   true,
		LogLatency:  true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			rctx := c.Request().Context()
			if v.Error == nil {
				slog.InfoContext(rctx, "request completed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds())
			} else {
				slog.ErrorContext(rctx, "request failed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds(),
					"error", v.Error.Error())
			}
			return nil
		},
	}))

	e.Use(middleware.Recover())

	// Rate limiters per endpoint group
	loginRL := appmiddleware.NewRateLimiter(10.0/60.0, 3)    // 10 req/min
	sessionRL := appmiddleware.NewRateLimiter(60.0/60.0, 10) // 60 req/min
	csrfRL := appmiddleware.NewRateLimiter(10.0/60.0, 3)     // 10 req/min

	// Public routes
	e.POST("/login", loginHandler.Handle, loginRL.Middleware())
	e.GET("/health", healthHandler.Handle)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Logout stays guard-free so signing out twice still succeeds
	e.POST("/logout", logoutHandler.Handle, sessionRL.Middleware())
	e.GET("/session", sessionHandler.Handle, sessionRL.Middleware())

	// Routes behind the session guard
	guard := appmiddleware.SessionGuard(session, jwtIssuer, adapterhandler.SessionCookieName, "/login")
	e.GET("/csrf", csrfHandler.Handle, csrfRL.Middleware(), guard)
	e.GET("/dashboard", dashboardHandler.Handle, sessionRL.Middleware(), guard)

	// Start server with errgroup for graceful shutdown
	address := fmt.Sprintf(":%s", cfg.Port)
	slog.InfoContext(ctx, "starting ops-hub server", "address", address)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := e.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		slog.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return otelShutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited properly")
}

// runHealthcheck performs a health check against the local server.
func runHealthcheck() error {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8888"
	}

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://127.0.0.1:%s/health", port))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health endpoint returned status: %d", resp.StatusCode)
	}
	return nil
}
