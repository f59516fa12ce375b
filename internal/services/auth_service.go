package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/BradenHooton/sitebase/internal/auth"
	"github.com/BradenHooton/sitebase/internal/models"
)

// Authenticator verifies credentials
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
}

// TokenIssuer signs access tokens
type TokenIssuer interface {
	GenerateAccessToken(userID, email string) (string, error)
	AccessTokenExpiry() time.Duration
}

// AuthResponse is returned by a successful login
type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int64        `json:"expires_in"`
	User        *models.User `json:"user"`
}

// AuthService issues back-office tokens
type AuthService struct {
	users  Authenticator
	tokens TokenIssuer
	delay  auth.FailureDelay
	logger *slog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(users Authenticator, tokens TokenIssuer, delay auth.FailureDelay, logger *slog.Logger) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		delay:  delay,
		logger: logger,
	}
}

// Login authenticates the user and returns a bearer token.
// Failed attempts are padded by the failure delay.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	start := time.Now()

	user, err := s.users.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, models.ErrUnauthorized) || errors.Is(err, models.ErrAccountDisabled) {
			s.delay.WaitFrom(ctx, start)
		}
		return nil, err
	}

	token, err := s.tokens.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		s.logger.Error("failed to generate access token", slog.String("user_id", user.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("user logged in", slog.String("user_id", user.ID))
	return &AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.tokens.AccessTokenExpiry().Seconds()),
		User:        user,
	}, nil
}
