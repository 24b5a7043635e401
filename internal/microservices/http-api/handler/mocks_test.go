package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"reviewhub/internal/microservices/http-api/models"
	"reviewhub/internal/microservices/http-api/permission"
	"reviewhub/internal/microservices/http-api/repository"
	"reviewhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
)

// MockAuthService mocks the AuthService interface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Signup(ctx context.Context, username, email string) (*models.User, error) {
	args := m.Called(ctx, username, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) IssueToken(ctx context.Context, username, code string) (string, error) {
	args := m.Called(ctx, username, code)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) List(ctx context.Context, actor permission.Actor, search string, opts repository.ListOptions) ([]models.User, int64, error) {
	args := m.Called(ctx, actor, search, opts)
	return args.Get(0).([]models.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserService) Get(ctx context.Context, actor permission.Actor, username string) (*models.User, error) {
	args := m.Called(ctx, actor, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) Create(ctx context.Context, actor permission.Actor, in service.UserInput) (*models.User, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) Update(ctx context.Context, actor permission.Actor, username string, in service.UserPatch) (*models.User, error) {
	args := m.Called(ctx, actor, username, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) Delete(ctx context.Context, actor permission.Actor, username string) error {
	return m.Called(ctx, actor, username).Error(0)
}

func (m *MockUserService) GetSelf(ctx context.Context, actor permission.Actor) (*models.User, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) UpdateSelf(ctx context.Context, actor permission.Actor, in service.UserPatch) (*models.User, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) ListGenres(ctx context.Context, search string, opts repository.ListOptions) ([]models.Genre, int64, error) {
	args := m.Called(ctx, search, opts)
	return args.Get(0).([]models.Genre), args.Get(1).(int64), args.Error(2)
}

func (m *MockCatalogService) CreateGenre(ctx context.Context, actor permission.Actor, in service.CatalogInput) (*models.Genre, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Genre), args.Error(1)
}

func (m *MockCatalogService) DeleteGenre(ctx context.Context, actor permission.Actor, slug string) error {
	return m.Called(ctx, actor, slug).Error(0)
}

func (m *MockCatalogService) ListCategories(ctx context.Context, search string, opts repository.ListOptions) ([]models.Category, int64, error) {
	args := m.Called(ctx, search, opts)
	return args.Get(0).([]models.Category), args.Get(1).(int64), args.Error(2)
}

func (m *MockCatalogService) CreateCategory(ctx context.Context, actor permission.Actor, in service.CatalogInput) (*models.Category, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCatalogService) DeleteCategory(ctx context.Context, actor permission.Actor, slug string) error {
	return m.Called(ctx, actor, slug).Error(0)
}

type MockTitleService struct {
	mock.Mock
}

func (m *MockTitleService) List(ctx context.Context, filter repository.TitleFilter, opts repository.ListOptions) ([]models.Title, int64, error) {
	args := m.Called(ctx, filter, opts)
	return args.Get(0).([]models.Title), args.Get(1).(int64), args.Error(2)
}

func (m *MockTitleService) Get(ctx context.Context, id int64) (*models.Title, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Title), args.Error(1)
}

func (m *MockTitleService) Create(ctx context.Context, actor permission.Actor, in service.CreateTitleInput) (*models.Title, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Title), args.Error(1)
}

func (m *MockTitleService) Update(ctx context.Context, actor permission.Actor, id int64, in service.UpdateTitleInput) (*models.Title, error) {
	args := m.Called(ctx, actor, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Title), args.Error(1)
}

func (m *MockTitleService) Delete(ctx context.Context, actor permission.Actor, id int64) error {
	return m.Called(ctx, actor, id).Error(0)
}

type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) List(ctx context.Context, titleID int64, opts repository.ListOptions) ([]models.Review, int64, error) {
	args := m.Called(ctx, titleID, opts)
	return args.Get(0).([]models.Review), args.Get(1).(int64), args.Error(2)
}

func (m *MockReviewService) Get(ctx context.Context, titleID, id int64) (*models.Review, error) {
	args := m.Called(ctx, titleID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewService) Create(ctx context.Context, actor permission.Actor, titleID int64, in service.ReviewInput) (*models.Review, error) {
	args := m.Called(ctx, actor, titleID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewService) Update(ctx context.Context, actor permission.Actor, titleID, id int64, in service.ReviewPatch, mode service.UpdateMode) (*models.Review, error) {
	args := m.Called(ctx, actor, titleID, id, in, mode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewService) Delete(ctx context.Context, actor permission.Actor, titleID, id int64) error {
	return m.Called(ctx, actor, titleID, id).Error(0)
}

type MockCommentService struct {
	mock.Mock
}

func (m *MockCommentService) List(ctx context.Context, titleID, reviewID int64, opts repository.ListOptions) ([]models.Comment, int64, error) {
	args := m.Called(ctx, titleID, reviewID, opts)
	return args.Get(0).([]models.Comment), args.Get(1).(int64), args.Error(2)
}

func (m *MockCommentService) Get(ctx context.Context, titleID, reviewID, id int64) (*models.Comment, error) {
	args := m.Called(ctx, titleID, reviewID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentService) Create(ctx context.Context, actor permission.Actor, titleID, reviewID int64, text string) (*models.Comment, error) {
	args := m.Called(ctx, actor, titleID, reviewID, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentService) Update(ctx context.Context, actor permission.Actor, titleID, reviewID, id int64, text *string, mode service.UpdateMode) (*models.Comment, error) {
	args := m.Called(ctx, actor, titleID, reviewID, id, text, mode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentService) Delete(ctx context.Context, actor permission.Actor, titleID, reviewID, id int64) error {
	return m.Called(ctx, actor, titleID, reviewID, id).Error(0)
}

// --- SETUP ---

type mocks struct {
	auth     *MockAuthService
	users    *MockUserService
	catalog  *MockCatalogService
	titles   *MockTitleService
	reviews  *MockReviewService
	comments *MockCommentService
}

// test tokens understood by the mocked Authenticate
var (
	aliceUser = &models.User{ID: "alice-id", Username: "alice", Role: models.RoleUser}
	modUser   = &models.User{ID: "mod-id", Username: "mod", Role: models.RoleModerator}
	adminUser = &models.User{ID: "admin-id", Username: "root", Role: models.RoleAdmin}

	alice = permission.ActorFromUser(aliceUser)
	mod   = permission.ActorFromUser(modUser)
	admin = permission.ActorFromUser(adminUser)
)

func setupRouter() (*gin.Engine, *mocks) {
	gin.SetMode(gin.TestMode)
	m := &mocks{
		auth:     new(MockAuthService),
		users:    new(MockUserService),
		catalog:  new(MockCatalogService),
		titles:   new(MockTitleService),
		reviews:  new(MockReviewService),
		comments: new(MockCommentService),
	}
	m.auth.On("Authenticate", mock.Anything, "alice-token").Return(aliceUser, nil).Maybe()
	m.auth.On("Authenticate", mock.Anything, "mod-token").Return(modUser, nil).Maybe()
	m.auth.On("Authenticate", mock.Anything, "admin-token").Return(adminUser, nil).Maybe()

	r := NewRouter(Services{
		Auth:     m.auth,
		Users:    m.users,
		Catalog:  m.catalog,
		Titles:   m.titles,
		Reviews:  m.reviews,
		Comments: m.comments,
	}, RouterOptions{})
	return r, m
}

func doRequest(r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](w *httptest.ResponseRecorder) T {
	var v T
	_ = json.Unmarshal(w.Body.Bytes(), &v)
	return v
}

func intPtr(i int) *int          { return &i }
func stringPtr(s string) *string { return &s }
