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

	"github.com/BradenHooton/sitebase/internal/admin"
	"github.com/BradenHooton/sitebase/internal/auth"
	"github.com/BradenHooton/sitebase/internal/config"
	"github.com/BradenHooton/sitebase/internal/database"
	"github.com/BradenHooton/sitebase/internal/handlers"
	"github.com/BradenHooton/sitebase/internal/media"
	middlewareCustom "github.com/BradenHooton/sitebase/internal/middleware"
	"github.com/BradenHooton/sitebase/internal/models"
	"github.com/BradenHooton/sitebase/internal/repositories"
	"github.com/BradenHooton/sitebase/internal/routes"
	"github.com/BradenHooton/sitebase/internal/seo"
	"github.com/BradenHooton/sitebase/internal/services"
	pkgauth "github.com/BradenHooton/sitebase/pkg/auth"
	pkghttp "github.com/BradenHooton/sitebase/pkg/http"
	pkglogger "github.com/BradenHooton/sitebase/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger = newLogger(cfg.Server.LogLevel)
	slog.SetDefault(logger)
	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env), slog.String("media_backend", cfg.Media.Backend))

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

func run(cfg *config.Config, logger *slog.Logger) error {
	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStart()

	db, err := database.NewConnection(startCtx, &cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	pageRepo := repositories.NewPageRepository(db)
	adminRepo := repositories.NewAdminRepository(db)

	// Media storage
	storage, mediaURL, closeStorage, err := newStorage(startCtx, cfg.Media)
	if err != nil {
		return fmt.Errorf("failed to initialize media storage: %w", err)
	}
	defer closeStorage()

	// Services
	auditLogger := pkglogger.NewAuditLogger(logger).WithSink(repositories.NewAdminLogRepository(db))
	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenExpiry)

	userService := services.NewUserService(userRepo, pkgauth.NewHasher(cfg.Auth.BcryptCost), auditLogger, logger)
	pageService := services.NewPageService(pageRepo, auditLogger, logger)
	mediaService := services.NewMediaService(storage, pageService, cfg.Media.MaxUploadBytes, auditLogger, logger)
	adminService := services.NewAdminService(admin.NewDefaultSite(), adminRepo, logger)
	authService := services.NewAuthService(userService, tokenManager, auth.DefaultFailureDelay, logger)

	if err := ensureAdminUser(startCtx, userService, cfg.Admin, logger); err != nil {
		logger.Error("failed to ensure admin user", slog.Any("error", err))
	}

	ipConfig, err := pkghttp.NewIPConfig(cfg.Server.TrustedProxies)
	if err != nil {
		return fmt.Errorf("invalid TRUSTED_PROXIES: %w", err)
	}

	resolver := seo.NewResolver(seo.Settings{
		MediaURL:            mediaURL,
		DefaultOGImage:      cfg.SEO.DefaultOGImage,
		DefaultTwitterImage: cfg.SEO.DefaultTwitterImage,
		SiteURL:             cfg.SEO.SiteURL,
	})

	h := routes.Handlers{
		Health: handlers.NewHealthHandler(db, logger),
		Auth:   handlers.NewAuthHandler(authService, ipConfig),
		Users:  handlers.NewUserHandler(userService),
		Pages:  handlers.NewPageHandler(pageService, mediaService, resolver, cfg.Media.MaxUploadBytes, logger),
		Admin:  handlers.NewAdminHandler(adminService),
	}

	mediaRoot := ""
	if cfg.Media.Backend == config.MediaBackendLocal {
		mediaRoot = cfg.Media.Root
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middlewareCustom.CORS(middlewareCustom.DefaultCORSConfig(cfg.Server.AllowedOrigins)))
	router.Use(middlewareCustom.SecureLogger(logger, ipConfig))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	routes.RegisterRoutes(router, h, routes.Options{
		TokenManager:   tokenManager,
		UserRepo:       userRepo,
		IPConfig:       ipConfig,
		LoginRateLimit: middlewareCustom.RateLimitConfig{RequestsPerMinute: cfg.Server.LoginRatePerMinute, IPConfig: ipConfig},
		AdminRateLimit: middlewareCustom.RateLimitConfig{RequestsPerMinute: cfg.Server.AdminRatePerMinute, IPConfig: ipConfig},
		MediaURL:       mediaURL,
		MediaRoot:      mediaRoot,
		Logger:         logger,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Graceful shutdown
	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-sigCtx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("server stopped gracefully")
	return nil
}

// newStorage builds the configured media backend and the public base URL of its objects
func newStorage(ctx context.Context, cfg config.MediaConfig) (media.Storage, string, func(), error) {
	switch cfg.Backend {
	case config.MediaBackendGCS:
		client, err := media.NewGCSClient(ctx, cfg.GCSCredentialsFile)
		if err != nil {
			return nil, "", nil, err
		}
		gcs := media.NewGCSStorage(client, cfg.GCSBucket)

		url := cfg.URL
		if url == seo.DefaultMediaURL {
			url = media.PublicBaseURL(cfg.GCSBucket)
		}
		return gcs, url, func() { _ = gcs.Close() }, nil
	default:
		local, err := media.NewLocalStorage(cfg.Root)
		if err != nil {
			return nil, "", nil, err
		}
		return local, cfg.URL, func() {}, nil
	}
}

// ensureAdminUser creates the first superuser when ADMIN_EMAIL and ADMIN_PASSWORD are set
func ensureAdminUser(ctx context.Context, users *services.UserService, cfg config.AdminConfig, logger *slog.Logger) error {
	if cfg.Email == "" {
		logger.Info("no ADMIN_EMAIL set, skipping superuser creation")
		return nil
	}

	_, err := users.CreateSuperuser(ctx, services.CreateUserParams{
		Email:    cfg.Email,
		Password: cfg.Password,
	})
	if errors.Is(err, models.ErrConflict) {
		logger.Info("superuser already exists")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create superuser: %w", err)
	}

	logger.Info("superuser created")
	return nil
}
