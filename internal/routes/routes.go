package routes

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/BradenHooton/sitebase/internal/auth"
	"github.com/BradenHooton/sitebase/internal/handlers"
	"github.com/BradenHooton/sitebase/internal/middleware"
	pkghttp "github.com/BradenHooton/sitebase/pkg/http"
	"github.com/go-chi/chi/v5"
)

// Handlers groups the HTTP handlers mounted by RegisterRoutes
type Handlers struct {
	Health *handlers.HealthHandler
	Auth   *handlers.AuthHandler
	Users  *handlers.UserHandler
	Pages  *handlers.PageHandler
	Admin  *handlers.AdminHandler
}

// Options carries the security wiring shared by the route groups
type Options struct {
	TokenManager   *auth.TokenManager
	UserRepo       auth.UserRepository
	IPConfig       *pkghttp.IPConfig
	LoginRateLimit middleware.RateLimitConfig
	AdminRateLimit middleware.RateLimitConfig
	// MediaURL and MediaRoot serve locally stored uploads; leave MediaRoot empty
	// when uploads live in an external bucket.
	MediaURL  string
	MediaRoot string
	Logger    *slog.Logger
}

// RegisterRoutes registers all application routes
func RegisterRoutes(router chi.Router, h Handlers, opts Options) {
	router.Use(handlers.RequestContext(opts.IPConfig))

	// Public routes - no authentication required
	router.Get("/health", h.Health.Health)
	h.Pages.RegisterPublicRoutes(router)
	router.With(middleware.RateLimitByIP(opts.LoginRateLimit)).Post("/auth/login", h.Auth.Login)

	if opts.MediaRoot != "" && strings.HasPrefix(opts.MediaURL, "/") {
		prefix := strings.TrimSuffix(opts.MediaURL, "/") + "/"
		router.Handle(prefix+"*", http.StripPrefix(prefix, mediaFiles(opts.MediaRoot)))
	}

	// Back office - active staff only
	router.Route("/admin", func(r chi.Router) {
		r.Use(auth.AuthMiddleware(opts.TokenManager))
		r.Use(auth.RequireStaff(opts.UserRepo, opts.Logger))
		r.Use(handlers.RequestContext(opts.IPConfig))
		r.Use(middleware.RateLimitByUser(opts.AdminRateLimit))

		// model list routes first so they win over /users/{id}
		h.Admin.RegisterRoutes(r)
		h.Users.RegisterRoutes(r)
		h.Pages.RegisterRoutes(r)
	})
}

// mediaFiles serves stored objects without directory listings
func mediaFiles(root string) http.Handler {
	files := http.FileServer(http.Dir(root))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			pkghttp.WriteNotFound(w, "Not found")
			return
		}
		files.ServeHTTP(w, r)
	})
}
