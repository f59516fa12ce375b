package handlers

import (
	"context"
	"net/http"

	"github.com/BradenHooton/sitebase/internal/services"
	pkghttp "github.com/BradenHooton/sitebase/pkg/http"
)

// AuthServiceInterface defines the interface for auth business logic
type AuthServiceInterface interface {
	Login(ctx context.Context, email, password string) (*services.AuthResponse, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	service  AuthServiceInterface
	ipConfig *pkghttp.IPConfig
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service AuthServiceInterface, ipConfig *pkghttp.IPConfig) *AuthHandler {
	return &AuthHandler{
		service:  service,
		ipConfig: ipConfig,
	}
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login exchanges credentials for a bearer token
//
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	if err := ValidateRequest(req); err != nil {
		writeServiceError(w, err, "")
		return
	}

	ctx := services.WithClientIP(r.Context(), pkghttp.ExtractClientIP(r, h.ipConfig))

	resp, err := h.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err, "")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, resp)
}
