package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/BradenHooton/sitebase/internal/models"
	pkgauth "github.com/BradenHooton/sitebase/pkg/auth"
	"github.com/BradenHooton/sitebase/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func strPtr(s string) *string { return &s }

func newTestUserService(repo UserRepository) (*UserService, *bytes.Buffer) {
	var buf bytes.Buffer
	audit := logger.NewAuditLogger(slog.New(slog.NewJSONHandler(&buf, nil)))
	return NewUserService(repo, &MockPasswordHasher{}, audit, slog.Default()), &buf
}

func decodeAuditLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var records []map[string]any
	dec := json.NewDecoder(buf)
	for dec.More() {
		var rec map[string]any
		require.NoError(t, dec.Decode(&rec))
		records = append(records, rec)
	}
	return records
}

func TestUserService_CreateUser_Defaults(t *testing.T) {
	svc, _ := newTestUserService(&MockUserRepository{})

	user, err := svc.CreateUser(context.Background(), CreateUserParams{
		Email:     "newuser@example.com",
		Password:  "password123",
		FirstName: "New",
		LastName:  "User",
	})

	require.NoError(t, err)
	assert.True(t, user.IsActive)
	assert.False(t, user.IsStaff)
	assert.False(t, user.IsSuperuser)
}

func TestUserService_CreateUser_Attributes(t *testing.T) {
	svc, _ := newTestUserService(&MockUserRepository{})

	user, err := svc.CreateUser(context.Background(), CreateUserParams{
		Email:     "testuser@example.com",
		Password:  "testpassword",
		FirstName: "Test",
		LastName:  "User",
	})

	require.NoError(t, err)
	assert.Equal(t, "testuser@example.com", user.Email)
	assert.Equal(t, "Test", user.FirstName)
	assert.Equal(t, "User", user.LastName)
	assert.Equal(t, "Test User", user.FullName)
	assert.Equal(t, "testuser@example.com", user.String())
	assert.True(t, svc.CheckPassword(user, "testpassword"))
	assert.False(t, svc.CheckPassword(user, "wrong"))
}

func TestUserService_CreateUser_NormalizesEmailDomain(t *testing.T) {
	var stored *models.User
	svc, _ := newTestUserService(&MockUserRepository{
		CreateFunc: func(ctx context.Context, user *models.User) (*models.User, error) {
			stored = user
			return user, nil
		},
	})

	_, err := svc.CreateUser(context.Background(), CreateUserParams{Email: " John.Doe@Example.COM ", Password: "pw"})

	require.NoError(t, err)
	assert.Equal(t, "John.Doe@example.com", stored.Email)
}

func TestUserService_CreateUser_RequiresEmail(t *testing.T) {
	called := false
	svc, _ := newTestUserService(&MockUserRepository{
		CreateFunc: func(ctx context.Context, user *models.User) (*models.User, error) {
			called = true
			return user, nil
		},
	})

	for _, email := range []string{"", "   "} {
		_, err := svc.CreateUser(context.Background(), CreateUserParams{Email: email, Password: "pw"})

		var ve *models.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "email", ve.Field)
		assert.True(t, errors.Is(err, models.ErrValidation))
	}
	assert.False(t, called, "nothing is persisted without an email")
}

func TestUserService_CreateUser_RejectsInvalidFields(t *testing.T) {
	svc, _ := newTestUserService(&MockUserRepository{})

	tests := []struct {
		name   string
		params CreateUserParams
		field  string
	}{
		{"bad email", CreateUserParams{Email: "not-an-email"}, "email"},
		{"long first name", CreateUserParams{Email: "a@b.co", FirstName: "Abcdefghijklmnopqrstuvwxyzabcdefg"}, "first_name"},
		{"long last name", CreateUserParams{Email: "a@b.co", LastName: "Abcdefghijklmnopqrstuvwxyzabcdefg"}, "last_name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateUser(context.Background(), tt.params)

			var ve *models.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestUserService_CreateUser_EmptyPasswordIsUnusable(t *testing.T) {
	svc, _ := newTestUserService(&MockUserRepository{})

	user, err := svc.CreateUser(context.Background(), CreateUserParams{Email: "nopass@example.com"})

	require.NoError(t, err)
	assert.False(t, svc.CheckPassword(user, ""))
	assert.False(t, svc.CheckPassword(user, "anything"))
}

func TestUserService_CreateUser_Conflict(t *testing.T) {
	svc, _ := newTestUserService(&MockUserRepository{
		CreateFunc: func(ctx context.Context, user *models.User) (*models.User, error) {
			return nil, models.ErrConflict
		},
	})

	_, err := svc.CreateUser(context.Background(), CreateUserParams{Email: "dup@example.com", Password: "pw"})

	assert.Equal(t, models.ErrConflict, err)
}

func TestUserService_CreateUser_DatabaseError(t *testing.T) {
	svc, _ := newTestUserService(&MockUserRepository{
		CreateFunc: func(ctx context.Context, user *models.User) (*models.User, error) {
			return nil, errors.New("connection refused")
		},
	})

	_, err := svc.CreateUser(context.Background(), CreateUserParams{Email: "a@example.com", Password: "pw"})

	assert.Equal(t, models.ErrInternalServer, err)
}

func TestUserService_CreateUser_HashFailure(t *testing.T) {
	svc := NewUserService(&MockUserRepository{}, &MockPasswordHasher{
		HashFunc: func(string) (string, error) { return "", errors.New("entropy exhausted") },
	}, nil, slog.Default())

	_, err := svc.CreateUser(context.Background(), CreateUserParams{Email: "a@example.com", Password: "pw"})

	assert.Equal(t, models.ErrInternalServer, err)
}

func TestUserService_PasswordsOver72BytesAreRejected(t *testing.T) {
	existing := NewTestUser("u1", "test@example.com", "pw")
	repo := &MockUserRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) { return existing, nil },
		CreateFunc: func(ctx context.Context, user *models.User) (*models.User, error) {
			t.Fatal("overlong password must not reach the repository")
			return nil, nil
		},
		UpdateFunc: func(ctx context.Context, id string, user *models.User) (*models.User, error) {
			t.Fatal("overlong password must not reach the repository")
			return nil, nil
		},
	}
	svc := NewUserService(repo, pkgauth.NewHasher(4), nil, slog.Default())

	for _, pw := range []string{strings.Repeat("a", 73), strings.Repeat("é", 40)} {
		var ve *models.ValidationError

		_, err := svc.CreateUser(context.Background(), CreateUserParams{Email: "a@example.com", Password: pw})
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "password", ve.Field)

		_, err = svc.CreateSuperuser(context.Background(), CreateUserParams{Email: "a@example.com", Password: pw})
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "password", ve.Field)

		_, err = svc.UpdateUser(context.Background(), "u1", UpdateUserParams{Password: &pw})
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "password", ve.Field)
	}
}

func TestUserService_HasherLengthErrorIsValidation(t *testing.T) {
	svc := NewUserService(&MockUserRepository{}, &MockPasswordHasher{
		HashFunc: func(string) (string, error) { return "", pkgauth.ErrPasswordTooLong },
	}, nil, slog.Default())

	_, err := svc.CreateUser(context.Background(), CreateUserParams{Email: "a@example.com", Password: "pw"})

	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestUserService_CreateSuperuser(t *testing.T) {
	svc, _ := newTestUserService(&MockUserRepository{})

	superuser, err := svc.CreateSuperuser(context.Background(), CreateUserParams{
		Email:     "admin@example.com",
		Password:  "admin123",
		FirstName: "Admin",
		LastName:  "User",
	})

	require.NoError(t, err)
	assert.True(t, superuser.IsActive)
	assert.True(t, superuser.IsStaff)
	assert.True(t, superuser.IsSuperuser)
}

func TestUserService_CreateSuperuser_AcceptsExplicitTrue(t *testing.T) {
	svc, _ := newTestUserService(&MockUserRepository{})

	superuser, err := svc.CreateSuperuser(context.Background(), CreateUserParams{
		Email:       "admin@example.com",
		Password:    "admin123",
		IsStaff:     boolPtr(true),
		IsSuperuser: boolPtr(true),
	})

	require.NoError(t, err)
	assert.True(t, superuser.IsStaff)
	assert.True(t, superuser.IsSuperuser)
}

func TestUserService_CreateSuperuser_RejectsExplicitFalse(t *testing.T) {
	tests := []struct {
		name   string
		params CreateUserParams
		field  string
	}{
		{"is_staff", CreateUserParams{IsStaff: boolPtr(false)}, "is_staff"},
		{"is_superuser", CreateUserParams{IsSuperuser: boolPtr(false)}, "is_superuser"},
		{"is_active", CreateUserParams{IsActive: boolPtr(false)}, "is_active"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			svc, _ := newTestUserService(&MockUserRepository{
				CreateFunc: func(ctx context.Context, user *models.User) (*models.User, error) {
					called = true
					return user, nil
				},
			})

			tt.params.Email = "admin@example.com"
			tt.params.Password = "admin123"
			_, err := svc.CreateSuperuser(context.Background(), tt.params)

			var ve *models.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
			assert.False(t, called)
		})
	}
}

func TestUserService_CreateSuperuser_Audited(t *testing.T) {
	svc, buf := newTestUserService(&MockUserRepository{})
	ctx := WithActor(context.Background(), "actor-9")

	_, err := svc.CreateSuperuser(ctx, CreateUserParams{Email: "admin@example.com", Password: "pw"})
	require.NoError(t, err)

	records := decodeAuditLines(t, buf)
	require.Len(t, records, 1)
	assert.Equal(t, logger.ActionSuperuserCreated, records[0]["event_type"])
	assert.Equal(t, "actor-9", records[0]["actor_id"])
	assert.Equal(t, "users", records[0]["model"])
}

func TestUserService_GetUserByID(t *testing.T) {
	user := NewTestUser("user123", "user@example.com", "pw")

	tests := []struct {
		name    string
		repoErr error
		wantErr error
	}{
		{"found", nil, nil},
		{"not found", models.ErrNotFound, models.ErrNotFound},
		{"database error", errors.New("boom"), models.ErrInternalServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestUserService(&MockUserRepository{
				GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
					if tt.repoErr != nil {
						return nil, tt.repoErr
					}
					return user, nil
				},
			})

			result, err := svc.GetUserByID(context.Background(), "user123")
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				assert.Nil(t, result)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "user123", result.ID)
		})
	}
}

func TestUserService_UpdateUser_RecomputesFullNameAndNormalizes(t *testing.T) {
	existing := NewTestUser("u1", "test@example.com", "old")
	existing.FirstName, existing.LastName = "Test", "User"

	svc, _ := newTestUserService(&MockUserRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
			copied := *existing
			return &copied, nil
		},
	})

	updated, err := svc.UpdateUser(context.Background(), "u1", UpdateUserParams{
		Email:     strPtr("Test@EXAMPLE.org"),
		FirstName: strPtr("Jane"),
		Password:  strPtr("new-password"),
	})

	require.NoError(t, err)
	assert.Equal(t, "Test@example.org", updated.Email)
	assert.Equal(t, "Jane User", updated.FullName)
	assert.True(t, svc.CheckPassword(updated, "new-password"))
	assert.False(t, svc.CheckPassword(updated, "old"))
}

func TestUserService_UpdateUser_Errors(t *testing.T) {
	existing := NewTestUser("u1", "test@example.com", "pw")

	t.Run("not found", func(t *testing.T) {
		svc, _ := newTestUserService(&MockUserRepository{})
		_, err := svc.UpdateUser(context.Background(), "missing", UpdateUserParams{})
		assert.Equal(t, models.ErrNotFound, err)
	})

	t.Run("invalid email", func(t *testing.T) {
		svc, _ := newTestUserService(&MockUserRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) { return existing, nil },
		})
		_, err := svc.UpdateUser(context.Background(), "u1", UpdateUserParams{Email: strPtr("nope")})
		assert.ErrorIs(t, err, models.ErrValidation)
	})

	t.Run("email taken", func(t *testing.T) {
		svc, _ := newTestUserService(&MockUserRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) { return existing, nil },
			UpdateFunc: func(ctx context.Context, id string, user *models.User) (*models.User, error) {
				return nil, models.ErrConflict
			},
		})
		_, err := svc.UpdateUser(context.Background(), "u1", UpdateUserParams{Email: strPtr("taken@example.com")})
		assert.Equal(t, models.ErrConflict, err)
	})
}

func TestUserService_Authenticate(t *testing.T) {
	active := NewTestUser("u1", "staff@example.com", "secret-pw")
	inactive := NewTestUser("u2", "gone@example.com", "secret-pw")
	inactive.IsActive = false

	users := map[string]*models.User{active.Email: active, inactive.Email: inactive}

	var lastLoginFor string
	repo := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			if u, ok := users[email]; ok {
				copied := *u
				return &copied, nil
			}
			return nil, models.ErrNotFound
		},
		UpdateLastLoginFunc: func(ctx context.Context, id string, at time.Time) error {
			lastLoginFor = id
			return nil
		},
	}

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"success", "staff@example.com", "secret-pw", nil},
		{"domain case ignored", "staff@EXAMPLE.com", "secret-pw", nil},
		{"wrong password", "staff@example.com", "nope", models.ErrUnauthorized},
		{"unknown email", "who@example.com", "secret-pw", models.ErrUnauthorized},
		{"inactive", "gone@example.com", "secret-pw", models.ErrAccountDisabled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lastLoginFor = ""
			svc, buf := newTestUserService(repo)
			ctx := WithClientIP(context.Background(), "203.0.113.7")

			user, err := svc.Authenticate(ctx, tt.email, tt.password)

			records := decodeAuditLines(t, buf)
			require.Len(t, records, 1)
			assert.Equal(t, "203.0.113.7", records[0]["ip_address"])

			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				assert.Nil(t, user)
				assert.Empty(t, lastLoginFor)
				assert.Equal(t, false, records[0]["success"])
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "u1", lastLoginFor)
			require.NotNil(t, user.LastLogin)
			assert.Equal(t, true, records[0]["success"])
		})
	}
}
