package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BradenHooton/sitebase/internal/admin"
	"github.com/BradenHooton/sitebase/internal/auth"
	"github.com/BradenHooton/sitebase/internal/media"
	"github.com/BradenHooton/sitebase/internal/models"
	"github.com/BradenHooton/sitebase/internal/repositories"
	"github.com/BradenHooton/sitebase/internal/services"
	pkghttp "github.com/BradenHooton/sitebase/pkg/http"
	"github.com/stretchr/testify/assert"
)

// NewTestRequest creates an HTTP request with JSON body for testing
func NewTestRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// WithAuthContext adds user claims to request context for testing authenticated endpoints
func WithAuthContext(req *http.Request, userID, email string) *http.Request {
	claims := &models.TokenClaims{
		UserID: userID,
		Email:  email,
		Type:   auth.TokenTypeAccess,
	}
	ctx := context.WithValue(req.Context(), auth.UserContextKey, claims)
	return req.WithContext(ctx)
}

// AssertJSONResponse checks that response has correct status and decodes JSON body
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target interface{}) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"), "Content-Type should be application/json")

	if target != nil {
		err := json.Unmarshal(w.Body.Bytes(), target)
		assert.NoError(t, err, "Failed to decode response JSON")
	}
}

// AssertErrorResponse checks that response is a valid error response
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedError string) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	var resp pkghttp.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err, "Failed to decode error response")
	assert.Equal(t, expectedError, resp.Error, "Error code mismatch")
	assert.NotEmpty(t, resp.Message, "Error message should not be empty")
}

// MockAuthService implements AuthServiceInterface for testing
type MockAuthService struct {
	LoginFunc func(ctx context.Context, email, password string) (*services.AuthResponse, error)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*services.AuthResponse, error) {
	if m.LoginFunc == nil {
		return nil, models.ErrUnauthorized
	}
	return m.LoginFunc(ctx, email, password)
}

// MockUserService implements UserService for testing
type MockUserService struct {
	GetUserByIDFunc     func(ctx context.Context, id string) (*models.User, error)
	CreateUserFunc      func(ctx context.Context, params services.CreateUserParams) (*models.User, error)
	CreateSuperuserFunc func(ctx context.Context, params services.CreateUserParams) (*models.User, error)
	UpdateUserFunc      func(ctx context.Context, id string, params services.UpdateUserParams) (*models.User, error)
}

func (m *MockUserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if m.GetUserByIDFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.GetUserByIDFunc(ctx, id)
}

func (m *MockUserService) CreateUser(ctx context.Context, params services.CreateUserParams) (*models.User, error) {
	if m.CreateUserFunc == nil {
		return &models.User{ID: "user-1", Email: params.Email, IsActive: true}, nil
	}
	return m.CreateUserFunc(ctx, params)
}

func (m *MockUserService) CreateSuperuser(ctx context.Context, params services.CreateUserParams) (*models.User, error) {
	if m.CreateSuperuserFunc == nil {
		return &models.User{ID: "user-1", Email: params.Email, IsActive: true, IsStaff: true, IsSuperuser: true}, nil
	}
	return m.CreateSuperuserFunc(ctx, params)
}

func (m *MockUserService) UpdateUser(ctx context.Context, id string, params services.UpdateUserParams) (*models.User, error) {
	if m.UpdateUserFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.UpdateUserFunc(ctx, id, params)
}

// MockPageService implements PageService for testing
type MockPageService struct {
	GetPublishedPageFunc func(ctx context.Context, slug string) (*models.Page, error)
	ListPagesFunc        func(ctx context.Context, scope repositories.Scope, limit, offset int) ([]*models.Page, error)
	GetPageFunc          func(ctx context.Context, id string) (*models.Page, error)
	CreatePageFunc       func(ctx context.Context, page *models.Page) (*models.Page, error)
	UpdatePageFunc       func(ctx context.Context, id string, mutate func(p *models.Page)) (*models.Page, error)
	DeletePageFunc       func(ctx context.Context, id string) (*models.Page, error)
	RestorePageFunc      func(ctx context.Context, id string) (*models.Page, error)
}

func (m *MockPageService) GetPublishedPage(ctx context.Context, slug string) (*models.Page, error) {
	if m.GetPublishedPageFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.GetPublishedPageFunc(ctx, slug)
}

func (m *MockPageService) ListPages(ctx context.Context, scope repositories.Scope, limit, offset int) ([]*models.Page, error) {
	if m.ListPagesFunc == nil {
		return nil, nil
	}
	return m.ListPagesFunc(ctx, scope, limit, offset)
}

func (m *MockPageService) GetPage(ctx context.Context, id string) (*models.Page, error) {
	if m.GetPageFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.GetPageFunc(ctx, id)
}

func (m *MockPageService) CreatePage(ctx context.Context, page *models.Page) (*models.Page, error) {
	if m.CreatePageFunc == nil {
		page.ID = "page-1"
		return page, nil
	}
	return m.CreatePageFunc(ctx, page)
}

func (m *MockPageService) UpdatePage(ctx context.Context, id string, mutate func(p *models.Page)) (*models.Page, error) {
	if m.UpdatePageFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.UpdatePageFunc(ctx, id, mutate)
}

func (m *MockPageService) DeletePage(ctx context.Context, id string) (*models.Page, error) {
	if m.DeletePageFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.DeletePageFunc(ctx, id)
}

func (m *MockPageService) RestorePage(ctx context.Context, id string) (*models.Page, error) {
	if m.RestorePageFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.RestorePageFunc(ctx, id)
}

// MockImageUploader implements ImageUploader for testing
type MockImageUploader struct {
	UploadPageImageFunc func(ctx context.Context, pageID string, kind media.ImageKind, r io.Reader) (*models.Page, error)
}

func (m *MockImageUploader) UploadPageImage(ctx context.Context, pageID string, kind media.ImageKind, r io.Reader) (*models.Page, error) {
	if m.UploadPageImageFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.UploadPageImageFunc(ctx, pageID, kind, r)
}

// MockAdminService implements AdminServiceInterface for testing
type MockAdminService struct {
	ModelsFunc    func() []services.ModelSummary
	FieldsetsFunc func(name string) ([]admin.Fieldset, error)
	ListFunc      func(ctx context.Context, name string, q admin.ListQuery) (*admin.ListResult, error)
}

func (m *MockAdminService) Models() []services.ModelSummary {
	if m.ModelsFunc == nil {
		return nil
	}
	return m.ModelsFunc()
}

func (m *MockAdminService) Fieldsets(name string) ([]admin.Fieldset, error) {
	if m.FieldsetsFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.FieldsetsFunc(name)
}

func (m *MockAdminService) List(ctx context.Context, name string, q admin.ListQuery) (*admin.ListResult, error) {
	if m.ListFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.ListFunc(ctx, name, q)
}
