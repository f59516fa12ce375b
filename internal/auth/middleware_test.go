package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/BradenHooton/sitebase/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "k3H9vQz2Lp8Xr4Nw7Ty1Bm6Jc5Fd0Gs!"

type stubUserRepo struct {
	user *models.User
	err  error
}

func (s *stubUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	tm := NewTokenManager(testSecret, 15*time.Minute)
	token, err := tm.GenerateAccessToken("user-1", "staff@example.com")
	require.NoError(t, err)

	var claims *models.TokenClaims
	h := AuthMiddleware(tm)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims = GetUserFromContext(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, claims)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "staff@example.com", claims.Email)
}

func TestAuthMiddleware_RejectsBadHeaders(t *testing.T) {
	tm := NewTokenManager(testSecret, 15*time.Minute)

	other := NewTokenManager("another-secret-another-secret-00", 15*time.Minute)
	foreign, err := other.GenerateAccessToken("user-1", "staff@example.com")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"missing", ""},
		{"no scheme", "abc.def.ghi"},
		{"basic scheme", "Basic dXNlcjpwYXNz"},
		{"garbage token", "Bearer not-a-jwt"},
		{"wrong secret", "Bearer " + foreign},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			h := AuthMiddleware(tm)(okHandler(&called))

			req := httptest.NewRequest(http.MethodGet, "/admin/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.False(t, called)
		})
	}
}

func TestRequireStaff(t *testing.T) {
	tests := []struct {
		name     string
		repo     *stubUserRepo
		claims   *models.TokenClaims
		wantCode int
	}{
		{
			name:     "staff passes",
			repo:     &stubUserRepo{user: &models.User{ID: "u1", IsActive: true, IsStaff: true}},
			claims:   &models.TokenClaims{UserID: "u1"},
			wantCode: http.StatusNoContent,
		},
		{
			name:     "superuser passes",
			repo:     &stubUserRepo{user: &models.User{ID: "u1", IsActive: true, IsSuperuser: true}},
			claims:   &models.TokenClaims{UserID: "u1"},
			wantCode: http.StatusNoContent,
		},
		{
			name:     "inactive staff is forbidden",
			repo:     &stubUserRepo{user: &models.User{ID: "u1", IsActive: false, IsStaff: true}},
			claims:   &models.TokenClaims{UserID: "u1"},
			wantCode: http.StatusForbidden,
		},
		{
			name:     "regular user is forbidden",
			repo:     &stubUserRepo{user: &models.User{ID: "u1", IsActive: true}},
			claims:   &models.TokenClaims{UserID: "u1"},
			wantCode: http.StatusForbidden,
		},
		{
			name:     "deleted user",
			repo:     &stubUserRepo{err: models.ErrNotFound},
			claims:   &models.TokenClaims{UserID: "u1"},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "database failure",
			repo:     &stubUserRepo{err: errors.New("connection reset")},
			claims:   &models.TokenClaims{UserID: "u1"},
			wantCode: http.StatusInternalServerError,
		},
		{
			name:     "no claims",
			repo:     &stubUserRepo{},
			wantCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			h := RequireStaff(tt.repo, slog.Default())(okHandler(&called))

			req := httptest.NewRequest(http.MethodGet, "/admin/", nil)
			if tt.claims != nil {
				req = req.WithContext(context.WithValue(req.Context(), UserContextKey, tt.claims))
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantCode == http.StatusNoContent, called)
		})
	}
}
