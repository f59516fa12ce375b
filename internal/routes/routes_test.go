package routes

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/BradenHooton/sitebase/internal/admin"
	"github.com/BradenHooton/sitebase/internal/auth"
	"github.com/BradenHooton/sitebase/internal/database"
	"github.com/BradenHooton/sitebase/internal/handlers"
	"github.com/BradenHooton/sitebase/internal/middleware"
	"github.com/BradenHooton/sitebase/internal/models"
	"github.com/BradenHooton/sitebase/internal/seo"
	"github.com/BradenHooton/sitebase/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "routes-test-secret-0123456789abcdef"

type okDatabase struct{}

func (okDatabase) HealthCheck(ctx context.Context) error { return nil }
func (okDatabase) Stats() database.PoolStats           { return database.PoolStats{} }

type usersByID map[string]*models.User

func (u usersByID) GetByID(ctx context.Context, id string) (*models.User, error) {
	if user, ok := u[id]; ok {
		return user, nil
	}
	return nil, models.ErrNotFound
}

func newTestRouter(t *testing.T, mediaRoot string) (chi.Router, *auth.TokenManager) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	tm := auth.NewTokenManager(testSecret, 15*time.Minute)

	users := usersByID{
		"staff":  {ID: "staff", Email: "staff@example.com", IsActive: true, IsStaff: true},
		"member": {ID: "member", Email: "member@example.com", IsActive: true},
	}

	adminSvc := &handlers.MockAdminService{
		ModelsFunc: func() []services.ModelSummary {
			return []services.ModelSummary{{Name: "users"}, {Name: "pages"}}
		},
		FieldsetsFunc: func(name string) ([]admin.Fieldset, error) {
			return []admin.Fieldset{{Fields: []string{"email"}}}, nil
		},
	}

	h := Handlers{
		Health: handlers.NewHealthHandler(okDatabase{}, logger),
		Auth:   handlers.NewAuthHandler(&handlers.MockAuthService{}, nil),
		Users:  handlers.NewUserHandler(&handlers.MockUserService{}),
		Pages:  handlers.NewPageHandler(&handlers.MockPageService{}, &handlers.MockImageUploader{}, seo.NewResolver(seo.Settings{}), 1<<20, logger),
		Admin:  handlers.NewAdminHandler(adminSvc),
	}

	router := chi.NewRouter()
	RegisterRoutes(router, h, Options{
		TokenManager:   tm,
		UserRepo:       users,
		LoginRateLimit: middleware.RateLimitConfig{RequestsPerMinute: 2},
		AdminRateLimit: middleware.RateLimitConfig{RequestsPerMinute: 100},
		MediaURL:       "/media/",
		MediaRoot:      mediaRoot,
		Logger:         logger,
	})
	return router, tm
}

func bearer(t *testing.T, tm *auth.TokenManager, userID string) string {
	t.Helper()
	token, err := tm.GenerateAccessToken(userID, userID+"@example.com")
	require.NoError(t, err)
	return "Bearer " + token
}

func TestRoutes_AdminRequiresStaff(t *testing.T) {
	router, tm := newTestRouter(t, "")

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"garbage token", "Bearer nope", http.StatusUnauthorized},
		{"non-staff user", bearer(t, tm, "member"), http.StatusForbidden},
		{"deleted user", bearer(t, tm, "ghost"), http.StatusUnauthorized},
		{"staff user", bearer(t, tm, "staff"), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestRoutes_FieldsetsBeforeEntityRoute(t *testing.T) {
	router, tm := newTestRouter(t, "")

	req := httptest.NewRequest(http.MethodGet, "/admin/users/fieldsets", nil)
	req.Header.Set("Authorization", bearer(t, tm, "staff"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"fieldsets"`)
}

func TestRoutes_PublicEndpoints(t *testing.T) {
	router, _ := newTestRouter(t, "")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/pages/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRoutes_LoginIsRateLimited(t *testing.T) {
	router, _ := newTestRouter(t, "")

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := handlers.NewTestRequest(t, http.MethodPost, "/auth/login", handlers.LoginRequest{Email: "a@example.com", Password: "pw"})
		req.RemoteAddr = "192.0.2.99:1000"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusUnauthorized, http.StatusUnauthorized, http.StatusTooManyRequests}, codes)
}

func TestRoutes_ServesLocalMedia(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "og_images"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "og_images", "a.png"), []byte("png"), 0o644))

	router, _ := newTestRouter(t, root)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/media/og_images/a.png", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "png", w.Body.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/media/og_images/", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
