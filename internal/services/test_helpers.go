package services

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/BradenHooton/sitebase/internal/admin"
	"github.com/BradenHooton/sitebase/internal/models"
	"github.com/BradenHooton/sitebase/internal/repositories"
)

// MockUserRepository implements UserRepository for testing
type MockUserRepository struct {
	GetByIDFunc         func(ctx context.Context, id string) (*models.User, error)
	GetByEmailFunc      func(ctx context.Context, email string) (*models.User, error)
	CreateFunc          func(ctx context.Context, user *models.User) (*models.User, error)
	UpdateFunc          func(ctx context.Context, id string, user *models.User) (*models.User, error)
	UpdateLastLoginFunc func(ctx context.Context, id string, at time.Time) error
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, models.ErrNotFound
}

// Create echoes the user back with an ID and the generated full name by default
func (m *MockUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	created := *user
	created.ID = "user-1"
	created.FullName = user.FirstName + " " + user.LastName
	created.DateJoined = time.Now()
	return &created, nil
}

func (m *MockUserRepository) Update(ctx context.Context, id string, user *models.User) (*models.User, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, user)
	}
	updated := *user
	updated.FullName = user.FirstName + " " + user.LastName
	return &updated, nil
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	if m.UpdateLastLoginFunc != nil {
		return m.UpdateLastLoginFunc(ctx, id, at)
	}
	return nil
}

// MockPasswordHasher is a reversible stand-in for bcrypt
type MockPasswordHasher struct {
	HashFunc func(password string) (string, error)
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	if m.HashFunc != nil {
		return m.HashFunc(password)
	}
	if password == "" {
		return "!unusable", nil
	}
	return "hashed:" + password, nil
}

func (m *MockPasswordHasher) Check(hashedPassword, password string) bool {
	if strings.HasPrefix(hashedPassword, "!") {
		return false
	}
	return hashedPassword == "hashed:"+password
}

// MockPageRepository implements PageRepository for testing
type MockPageRepository struct {
	GetByIDFunc    func(ctx context.Context, id string, scope repositories.Scope) (*models.Page, error)
	GetBySlugFunc  func(ctx context.Context, slug string, scope repositories.Scope) (*models.Page, error)
	ListFunc       func(ctx context.Context, scope repositories.Scope, limit, offset int) ([]*models.Page, error)
	CreateFunc     func(ctx context.Context, page *models.Page) (*models.Page, error)
	UpdateFunc     func(ctx context.Context, page *models.Page) (*models.Page, error)
	SoftDeleteFunc func(ctx context.Context, id string) (*models.Page, error)
	RestoreFunc    func(ctx context.Context, id string) (*models.Page, error)
}

func (m *MockPageRepository) GetByID(ctx context.Context, id string, scope repositories.Scope) (*models.Page, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id, scope)
	}
	return nil, models.ErrNotFound
}

func (m *MockPageRepository) GetBySlug(ctx context.Context, slug string, scope repositories.Scope) (*models.Page, error) {
	if m.GetBySlugFunc != nil {
		return m.GetBySlugFunc(ctx, slug, scope)
	}
	return nil, models.ErrNotFound
}

func (m *MockPageRepository) List(ctx context.Context, scope repositories.Scope, limit, offset int) ([]*models.Page, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, scope, limit, offset)
	}
	return []*models.Page{}, nil
}

func (m *MockPageRepository) Create(ctx context.Context, page *models.Page) (*models.Page, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, page)
	}
	created := *page
	created.ID = "page-1"
	return &created, nil
}

func (m *MockPageRepository) Update(ctx context.Context, page *models.Page) (*models.Page, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, page)
	}
	updated := *page
	return &updated, nil
}

func (m *MockPageRepository) SoftDelete(ctx context.Context, id string) (*models.Page, error) {
	if m.SoftDeleteFunc != nil {
		return m.SoftDeleteFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockPageRepository) Restore(ctx context.Context, id string) (*models.Page, error) {
	if m.RestoreFunc != nil {
		return m.RestoreFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

// MockAdminListRepository implements AdminListRepository for testing
type MockAdminListRepository struct {
	ListFunc func(ctx context.Context, m *admin.ModelAdmin, q admin.ListQuery) (*admin.ListResult, error)
}

func (m *MockAdminListRepository) List(ctx context.Context, model *admin.ModelAdmin, q admin.ListQuery) (*admin.ListResult, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, model, q)
	}
	return &admin.ListResult{Model: model.Name, Columns: model.Columns()}, nil
}

// MockStorage keeps saved objects in memory
type MockStorage struct {
	SaveFunc func(ctx context.Context, name, contentType string, r io.Reader) (string, error)
	Objects  map[string][]byte
	Deleted  []string
}

func (m *MockStorage) Save(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, name, contentType, r)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if m.Objects == nil {
		m.Objects = make(map[string][]byte)
	}
	m.Objects[name] = data
	return name, nil
}

func (m *MockStorage) Delete(ctx context.Context, name string) error {
	m.Deleted = append(m.Deleted, name)
	delete(m.Objects, name)
	return nil
}

// MockTokenIssuer implements TokenIssuer for testing
type MockTokenIssuer struct {
	GenerateAccessTokenFunc func(userID, email string) (string, error)
	Expiry                  time.Duration
}

func (m *MockTokenIssuer) GenerateAccessToken(userID, email string) (string, error) {
	if m.GenerateAccessTokenFunc != nil {
		return m.GenerateAccessTokenFunc(userID, email)
	}
	return "token-for-" + userID, nil
}

func (m *MockTokenIssuer) AccessTokenExpiry() time.Duration {
	if m.Expiry == 0 {
		return 15 * time.Minute
	}
	return m.Expiry
}

// NewTestUser creates an active user with a mock-hashed password
func NewTestUser(id, email, password string) *models.User {
	return &models.User{
		ID:           id,
		Email:        email,
		PasswordHash: "hashed:" + password,
		IsActive:     true,
		DateJoined:   time.Now(),
	}
}

// NewTestPage creates a live page
func NewTestPage(id, slug, title string) *models.Page {
	p := &models.Page{
		ID:    id,
		Slug:  slug,
		Title: title,
		Body:  "Body of " + title,
	}
	p.Touch(time.Now())
	return p
}
