package handlers

import (
	"context"
	"net/http"

	"github.com/BradenHooton/sitebase/internal/models"
	"github.com/BradenHooton/sitebase/internal/services"
	pkghttp "github.com/BradenHooton/sitebase/pkg/http"
	"github.com/go-chi/chi/v5"
)

// UserService defines the interface for user business logic
type UserService interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	CreateUser(ctx context.Context, params services.CreateUserParams) (*models.User, error)
	CreateSuperuser(ctx context.Context, params services.CreateUserParams) (*models.User, error)
	UpdateUser(ctx context.Context, id string, params services.UpdateUserParams) (*models.User, error)
}

// UserHandler serves the back-office user endpoints
type UserHandler struct {
	service UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(service UserService) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

// CreateUserRequest represents the request body for creating a user.
// Superuser requests go through the superuser factory and may not clear any flag.
// An empty password leaves the account without a usable password.
type CreateUserRequest struct {
	Email       string `json:"email" validate:"required,email,max=254"`
	Password    string `json:"password"`
	FirstName   string `json:"first_name" validate:"max=32"`
	LastName    string `json:"last_name" validate:"max=32"`
	IsActive    *bool  `json:"is_active"`
	IsStaff     *bool  `json:"is_staff"`
	IsSuperuser *bool  `json:"is_superuser"`
}

// UpdateUserRequest represents a partial user update
type UpdateUserRequest struct {
	Email       *string `json:"email" validate:"omitempty,email,max=254"`
	Password    *string `json:"password"`
	FirstName   *string `json:"first_name" validate:"omitempty,max=32"`
	LastName    *string `json:"last_name" validate:"omitempty,max=32"`
	IsActive    *bool   `json:"is_active"`
	IsStaff     *bool   `json:"is_staff"`
	IsSuperuser *bool   `json:"is_superuser"`
}

// RegisterRoutes registers the user routes on the back-office router
func (h *UserHandler) RegisterRoutes(router chi.Router) {
	router.Post("/users", h.CreateUser)
	router.Get("/users/{id}", h.GetUser)
	router.Put("/users/{id}", h.UpdateUser)
}

// CreateUser handles POST /admin/users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	if err := ValidateRequest(req); err != nil {
		writeServiceError(w, err, "")
		return
	}
	if err := checkPassword(req.Password); err != nil {
		writeServiceError(w, err, "")
		return
	}

	params := services.CreateUserParams{
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		IsActive:    req.IsActive,
		IsStaff:     req.IsStaff,
		IsSuperuser: req.IsSuperuser,
	}

	create := h.service.CreateUser
	if req.IsSuperuser != nil && *req.IsSuperuser {
		create = h.service.CreateSuperuser
	}

	user, err := create(r.Context(), params)
	if err != nil {
		writeServiceError(w, err, "")
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, user)
}

// GetUser handles GET /admin/users/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetUserByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, "User not found")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, user)
}

// UpdateUser handles PUT /admin/users/{id}
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req UpdateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	if err := ValidateRequest(req); err != nil {
		writeServiceError(w, err, "")
		return
	}
	if req.Password != nil {
		if err := checkPassword(*req.Password); err != nil {
			writeServiceError(w, err, "")
			return
		}
	}

	user, err := h.service.UpdateUser(r.Context(), chi.URLParam(r, "id"), services.UpdateUserParams{
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		IsActive:    req.IsActive,
		IsStaff:     req.IsStaff,
		IsSuperuser: req.IsSuperuser,
	})
	if err != nil {
		writeServiceError(w, err, "User not found")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, user)
}
