package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"

	"github.com/followwise/followwise-api/internal/entity"
	"github.com/followwise/followwise-api/internal/infra/http/middleware"
	"github.com/followwise/followwise-api/internal/usecase"
)

type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	return m.Called(ctx, lead).Error(0)
}

func (m *MockLeadRepository) FindByIDAndOwner(ctx context.Context, id, userID string) (*entity.Lead, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindByEmailAndOwner(ctx context.Context, email, userID string) (*entity.Lead, error) {
	args := m.Called(ctx, email, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) List(ctx context.Context, userID string, filter entity.LeadFilter) ([]*entity.Lead, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) Update(ctx context.Context, lead *entity.Lead) error {
	return m.Called(ctx, lead).Error(0)
}

func (m *MockLeadRepository) Delete(ctx context.Context, id, userID string) error {
	return m.Called(ctx, id, userID).Error(0)
}

func (m *MockLeadRepository) ListDueForFollowUp(ctx context.Context, now time.Time, limit int) ([]*entity.Lead, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *entity.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

type MockFollowUpRepository struct {
	mock.Mock
}

func (m *MockFollowUpRepository) ListByLead(ctx context.Context, leadID string) ([]*entity.FollowUpSuggestion, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.FollowUpSuggestion), args.Error(1)
}

func (m *MockFollowUpRepository) ReplaceForLead(ctx context.Context, leadID string, batch []*entity.FollowUpSuggestion) error {
	return m.Called(ctx, leadID, batch).Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishRegeneration(ctx context.Context, job usecase.RegenerationJob) error {
	return m.Called(ctx, job).Error(0)
}

var testUser = &entity.User{ID: "user-1", Email: "alex@example.com", FullName: "Alex", IsActive: true}

// withUser stands in for RequireAuth.
func withUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(middleware.WithUser(r.Context(), testUser)))
	})
}

func newTestRouter(register func(r chi.Router)) http.Handler {
	r := chi.NewRouter()
	r.Use(withUser)
	register(r)
	return r
}

func doRequest(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
