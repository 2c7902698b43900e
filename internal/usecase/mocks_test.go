package usecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/followwise/followwise-api/internal/entity"
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

type MockSentEmailRepository struct {
	mock.Mock
}

func (m *MockSentEmailRepository) Create(ctx context.Context, l *entity.SentEmailLog, resetFollowUp bool) error {
	return m.Called(ctx, l, resetFollowUp).Error(0)
}

func (m *MockSentEmailRepository) ListByLead(ctx context.Context, leadID string, skip, limit int) ([]*entity.SentEmailLog, error) {
	args := m.Called(ctx, leadID, skip, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.SentEmailLog), args.Error(1)
}

func (m *MockSentEmailRepository) ListByUser(ctx context.Context, userID string, skip, limit int) ([]*entity.SentEmailLog, error) {
	args := m.Called(ctx, userID, skip, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.SentEmailLog), args.Error(1)
}

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Generate(ctx context.Context, contextText string, tone entity.Tone, lead *entity.LeadInfo, history []entity.Interaction) ([]entity.FollowUpVariant, error) {
	args := m.Called(ctx, contextText, tone, lead, history)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.FollowUpVariant), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, leadID string) ([]*entity.FollowUpSuggestion, bool, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]*entity.FollowUpSuggestion), args.Bool(1), args.Error(2)
}

func (m *MockCache) Version(ctx context.Context, leadID string) (int64, error) {
	args := m.Called(ctx, leadID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, leadID string, version int64, batch []*entity.FollowUpSuggestion) error {
	return m.Called(ctx, leadID, version, batch).Error(0)
}

func (m *MockCache) Invalidate(ctx context.Context, leadID string) error {
	return m.Called(ctx, leadID).Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishRegeneration(ctx context.Context, job usecase.RegenerationJob) error {
	return m.Called(ctx, job).Error(0)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, to, subject, body string) error {
	return m.Called(ctx, to, subject, body).Error(0)
}

type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) Issue(userID string) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

func (m *MockTokenIssuer) Parse(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}

func ownedLead(id, userID, name string) *entity.Lead {
	lead := entity.NewLead(userID, name, "contact@example.com")
	lead.ID = id
	return lead
}
