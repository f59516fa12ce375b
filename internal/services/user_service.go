package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/BradenHooton/sitebase/internal/models"
	pkgauth "github.com/BradenHooton/sitebase/pkg/auth"
	"github.com/BradenHooton/sitebase/pkg/logger"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Update(ctx context.Context, id string, user *models.User) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}

// PasswordHasher hashes and verifies passwords
type PasswordHasher interface {
	Hash(password string) (string, error)
	Check(hashedPassword, password string) bool
}

// CreateUserParams carries the fields accepted by the user factories.
// A nil flag takes the factory's default.
type CreateUserParams struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	IsActive    *bool
	IsStaff     *bool
	IsSuperuser *bool
}

// UpdateUserParams carries a partial user update. Nil fields are left unchanged.
type UpdateUserParams struct {
	Email       *string
	Password    *string
	FirstName   *string
	LastName    *string
	IsActive    *bool
	IsStaff     *bool
	IsSuperuser *bool
}

// UserService handles user business logic
type UserService struct {
	repo   UserRepository
	hasher PasswordHasher
	audit  *logger.AuditLogger
	logger *slog.Logger
}

// NewUserService creates a new UserService
func NewUserService(repo UserRepository, hasher PasswordHasher, audit *logger.AuditLogger, logger *slog.Logger) *UserService {
	return &UserService{
		repo:   repo,
		hasher: hasher,
		audit:  audit,
		logger: logger,
	}
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

// CreateUser creates a regular user. Active by default, never staff or superuser unless asked.
func (s *UserService) CreateUser(ctx context.Context, params CreateUserParams) (*models.User, error) {
	user, err := s.createUser(ctx, params)
	if err != nil {
		return nil, err
	}

	recordAdminAction(ctx, s.audit, logger.ActionUserCreated, "users", user.ID, nil)
	return user, nil
}

func (s *UserService) createUser(ctx context.Context, params CreateUserParams) (*models.User, error) {
	if strings.TrimSpace(params.Email) == "" {
		return nil, models.NewValidationError("email", "the email field is required and must be set")
	}

	user := &models.User{
		Email:       params.Email,
		FirstName:   params.FirstName,
		LastName:    params.LastName,
		IsActive:    boolOr(params.IsActive, true),
		IsStaff:     boolOr(params.IsStaff, false),
		IsSuperuser: boolOr(params.IsSuperuser, false),
	}

	if err := user.FullClean(); err != nil {
		return nil, err
	}

	hash, err := s.hashPassword(params.Password)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hash

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			s.logger.Info("user already exists", slog.String("email", logger.SanitizedEmail(user.Email)))
			return nil, models.ErrConflict
		}
		s.logger.Error("failed to create user", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("user created", slog.String("user_id", created.ID))
	return created, nil
}

// CreateSuperuser creates an active staff superuser. An explicit false for any of
// those flags is rejected.
func (s *UserService) CreateSuperuser(ctx context.Context, params CreateUserParams) (*models.User, error) {
	required := []struct {
		field string
		value *bool
	}{
		{"is_staff", params.IsStaff},
		{"is_superuser", params.IsSuperuser},
		{"is_active", params.IsActive},
	}
	for _, r := range required {
		if r.value != nil && !*r.value {
			return nil, models.NewValidationError(r.field, "superuser must have "+r.field+"=true")
		}
	}

	yes := true
	params.IsStaff, params.IsSuperuser, params.IsActive = &yes, &yes, &yes

	user, err := s.createUser(ctx, params)
	if err != nil {
		return nil, err
	}

	s.logger.Info("superuser created", slog.String("user_id", user.ID))
	recordAdminAction(ctx, s.audit, logger.ActionSuperuserCreated, "users", user.ID, nil)
	return user, nil
}

// GetUserByID retrieves a user by ID
func (s *UserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("user not found", slog.String("user_id", id))
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get user", slog.String("user_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return user, nil
}

// UpdateUser applies a partial update. The result is cleaned and validated
// the same way as on creation.
func (s *UserService) UpdateUser(ctx context.Context, id string, params UpdateUserParams) (*models.User, error) {
	existing, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Email != nil {
		existing.Email = *params.Email
	}
	if params.FirstName != nil {
		existing.FirstName = *params.FirstName
	}
	if params.LastName != nil {
		existing.LastName = *params.LastName
	}
	if params.IsActive != nil {
		existing.IsActive = *params.IsActive
	}
	if params.IsStaff != nil {
		existing.IsStaff = *params.IsStaff
	}
	if params.IsSuperuser != nil {
		existing.IsSuperuser = *params.IsSuperuser
	}

	if err := existing.FullClean(); err != nil {
		return nil, err
	}

	if params.Password != nil {
		hash, err := s.hashPassword(*params.Password)
		if err != nil {
			return nil, err
		}
		existing.PasswordHash = hash
	}

	updated, err := s.repo.Update(ctx, id, existing)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			return nil, models.ErrNotFound
		case errors.Is(err, models.ErrConflict):
			return nil, models.ErrConflict
		}
		s.logger.Error("failed to update user", slog.String("user_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("user updated", slog.String("user_id", id))
	recordAdminAction(ctx, s.audit, logger.ActionUserUpdated, "users", id, nil)
	return updated, nil
}

// hashPassword hashes password, rejecting input bcrypt would refuse or truncate
func (s *UserService) hashPassword(password string) (string, error) {
	if len(password) > pkgauth.MaxPasswordLen {
		return "", models.NewValidationError("password", pkgauth.ErrPasswordTooLong.Error())
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, pkgauth.ErrPasswordTooLong) {
			return "", models.NewValidationError("password", err.Error())
		}
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return "", models.ErrInternalServer
	}
	return hash, nil
}

// CheckPassword reports whether password matches the user's stored hash
func (s *UserService) CheckPassword(user *models.User, password string) bool {
	return s.hasher.Check(user.PasswordHash, password)
}

// Authenticate verifies credentials and records the login time.
// Unknown emails and wrong passwords both yield ErrUnauthorized. Inactive accounts
// are reported only after the password matched.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = models.NormalizeEmail(email)

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logAuth(ctx, email, "", false, "unknown_email")
			return nil, models.ErrUnauthorized
		}
		s.logger.Error("failed to look up user", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if !s.CheckPassword(user, password) {
		s.logAuth(ctx, email, user.ID, false, "invalid_password")
		return nil, models.ErrUnauthorized
	}

	if !user.IsActive {
		s.logAuth(ctx, email, user.ID, false, "inactive")
		return nil, models.ErrAccountDisabled
	}

	now := time.Now()
	if err := s.repo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Error("failed to update last login", slog.String("user_id", user.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	user.LastLogin = &now

	s.logAuth(ctx, email, user.ID, true, "")
	return user, nil
}

func (s *UserService) logAuth(ctx context.Context, email, userID string, success bool, reason string) {
	if s.audit == nil {
		return
	}
	s.audit.LogAuthAttempt(ctx, logger.AuthEvent{
		Email:         email,
		UserID:        userID,
		IPAddress:     ClientIPFromContext(ctx),
		Success:       success,
		FailureReason: reason,
	})
}
