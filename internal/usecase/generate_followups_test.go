package usecase_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/followwise/followwise-api/internal/entity"
	"github.com/followwise/followwise-api/internal/infra/ai"
	"github.com/followwise/followwise-api/internal/usecase"
)

func threeVariants() []entity.FollowUpVariant {
	return []entity.FollowUpVariant{
		{VariantIndex: 0, Subject: "s0", Body: "b0"},
		{VariantIndex: 1, Subject: "s1", Body: "b1"},
		{VariantIndex: 2, Subject: "s2", Body: "b2"},
	}
}

type generateFixture struct {
	leads     *MockLeadRepository
	users     *MockUserRepository
	followUps *MockFollowUpRepository
	sent      *MockSentEmailRepository
	provider  *MockProvider
	cache     *MockCache
	uc        *usecase.GenerateFollowUpsUseCase
}

func newGenerateFixture() *generateFixture {
	f := &generateFixture{
		leads:     new(MockLeadRepository),
		users:     new(MockUserRepository),
		followUps: new(MockFollowUpRepository),
		sent:      new(MockSentEmailRepository),
		provider:  new(MockProvider),
		cache:     new(MockCache),
	}
	f.uc = usecase.NewGenerateFollowUpsUseCase(f.leads, f.users, f.followUps, f.sent, f.provider, f.cache)
	return f
}

// TestGenerateFollowUpsSuccess - three variants persisted with the requested tone
func TestGenerateFollowUpsSuccess(t *testing.T) {
	f := newGenerateFixture()
	lead := ownedLead("lead-1", "user-1", "Sarah Johnson")

	f.leads.On("FindByIDAndOwner", mock.Anything, "lead-1", "user-1").Return(lead, nil)
	f.users.On("FindByID", mock.Anything, "user-1").Return(&entity.User{ID: "user-1", FullName: "Alex", Email: "alex@example.com"}, nil)
	f.sent.On("ListByLead", mock.Anything, "lead-1", 0, 5).Return([]*entity.SentEmailLog{}, nil)
	f.provider.On("Generate", mock.Anything, "interested in automation", entity.ToneFriendly,
		mock.MatchedBy(func(info *entity.LeadInfo) bool {
			return info.ContactName == "Sarah Johnson" && info.UserName == "Alex"
		}), mock.Anything).Return(threeVariants(), nil)
	f.followUps.On("ReplaceForLead", mock.Anything, "lead-1", mock.Anything).Return(nil)
	f.cache.On("Invalidate", mock.Anything, "lead-1").Return(nil)

	batch, err := f.uc.Execute(context.Background(), usecase.GenerateFollowUpsInput{
		LeadID:  "lead-1",
		UserID:  "user-1",
		Context: "interested in automation",
		Tone:    "friendly",
	})

	require.NoError(t, err)
	require.Len(t, batch, 3)
	for i, s := range batch {
		assert.Equal(t, i, s.VariantIndex)
		assert.Equal(t, "lead-1", s.LeadID)
		assert.Equal(t, entity.ToneFriendly, s.Tone)
		assert.NotEmpty(t, s.ID)
	}
	f.followUps.AssertCalled(t, "ReplaceForLead", mock.Anything, "lead-1", batch)
	f.cache.AssertExpectations(t)
	f.cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// TestGenerateFollowUpsLeadNotFound - ownership failure stops before the provider
func TestGenerateFollowUpsLeadNotFound(t *testing.T) {
	f := newGenerateFixture()
	f.leads.On("FindByIDAndOwner", mock.Anything, "lead-1", "intruder").Return(nil, entity.ErrNotFound)

	_, err := f.uc.Execute(context.Background(), usecase.GenerateFollowUpsInput{LeadID: "lead-1", UserID: "intruder", Tone: "polite"})

	assert.ErrorIs(t, err, usecase.ErrLeadNotFound)
	f.provider.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.followUps.AssertNotCalled(t, "ReplaceForLead", mock.Anything, mock.Anything, mock.Anything)
}

// TestGenerateFollowUpsUnknownTone - rejected before any lookup
func TestGenerateFollowUpsUnknownTone(t *testing.T) {
	f := newGenerateFixture()

	_, err := f.uc.Execute(context.Background(), usecase.GenerateFollowUpsInput{LeadID: "lead-1", UserID: "user-1", Tone: "sarcastic"})

	var ve usecase.ValidationErrors
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "tone", ve[0].Field)
	f.leads.AssertNotCalled(t, "FindByIDAndOwner", mock.Anything, mock.Anything, mock.Anything)
}

// TestGenerateFollowUpsDefaultContext - snippet first, then a generic phrase
func TestGenerateFollowUpsDefaultContext(t *testing.T) {
	cases := []struct {
		name    string
		snippet string
		want    string
	}{
		{"with snippet", "Can you send pricing?", "Can you send pricing?"},
		{"without snippet", "", "following up with Bob Stone"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newGenerateFixture()
			lead := ownedLead("lead-1", "user-1", "Bob Stone")
			lead.LastEmailSnippet = tc.snippet

			f.leads.On("FindByIDAndOwner", mock.Anything, "lead-1", "user-1").Return(lead, nil)
			f.users.On("FindByID", mock.Anything, "user-1").Return(nil, entity.ErrNotFound)
			f.sent.On("ListByLead", mock.Anything, "lead-1", 0, 5).Return(nil, errors.New("history down"))
			f.provider.On("Generate", mock.Anything, tc.want, entity.TonePolite, mock.Anything, mock.Anything).Return(threeVariants(), nil)
			f.followUps.On("ReplaceForLead", mock.Anything, "lead-1", mock.Anything).Return(nil)
			f.cache.On("Invalidate", mock.Anything, "lead-1").Return(errors.New("redis down"))

			batch, err := f.uc.Execute(context.Background(), usecase.GenerateFollowUpsInput{LeadID: "lead-1", UserID: "user-1"})

			require.NoError(t, err)
			assert.Len(t, batch, 3)
			f.provider.AssertExpectations(t)
		})
	}
}

// TestGenerateFollowUpsPersistenceFailure
func TestGenerateFollowUpsPersistenceFailure(t *testing.T) {
	f := newGenerateFixture()
	f.leads.On("FindByIDAndOwner", mock.Anything, "lead-1", "user-1").Return(ownedLead("lead-1", "user-1", "Bob"), nil)
	f.users.On("FindByID", mock.Anything, "user-1").Return(nil, entity.ErrNotFound)
	f.sent.On("ListByLead", mock.Anything, "lead-1", 0, 5).Return(nil, nil)
	f.provider.On("Generate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(threeVariants(), nil)
	f.followUps.On("ReplaceForLead", mock.Anything, "lead-1", mock.Anything).Return(errors.New("tx aborted"))

	_, err := f.uc.Execute(context.Background(), usecase.GenerateFollowUpsInput{LeadID: "lead-1", UserID: "user-1", Tone: "polite"})

	assert.ErrorIs(t, err, usecase.ErrPersistence)
	f.cache.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
}

// TestGenerateFollowUpsProviderFailure - errors and wrong counts are both provider failures
func TestGenerateFollowUpsProviderFailure(t *testing.T) {
	cases := map[string][]interface{}{
		"error":       {nil, errors.New("model offline")},
		"wrong count": {threeVariants()[:2], nil},
	}

	for name, ret := range cases {
		t.Run(name, func(t *testing.T) {
			f := newGenerateFixture()
			f.leads.On("FindByIDAndOwner", mock.Anything, "lead-1", "user-1").Return(ownedLead("lead-1", "user-1", "Bob"), nil)
			f.users.On("FindByID", mock.Anything, "user-1").Return(nil, entity.ErrNotFound)
			f.sent.On("ListByLead", mock.Anything, "lead-1", 0, 5).Return(nil, nil)
			f.provider.On("Generate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(ret...)

			_, err := f.uc.Execute(context.Background(), usecase.GenerateFollowUpsInput{LeadID: "lead-1", UserID: "user-1", Tone: "polite"})

			assert.ErrorIs(t, err, usecase.ErrProviderFailure)
			f.followUps.AssertNotCalled(t, "ReplaceForLead", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

// memFollowUpRepo keeps batches in memory with replace semantics.
type memFollowUpRepo struct {
	mu   sync.Mutex
	rows map[string][]*entity.FollowUpSuggestion
}

func (r *memFollowUpRepo) ListByLead(ctx context.Context, leadID string) ([]*entity.FollowUpSuggestion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rows[leadID], nil
}

func (r *memFollowUpRepo) ReplaceForLead(ctx context.Context, leadID string, batch []*entity.FollowUpSuggestion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[leadID] = batch
	return nil
}

// TestGenerateFollowUpsTemplateEndToEnd - Michael Chen, assertive, no context
func TestGenerateFollowUpsTemplateEndToEnd(t *testing.T) {
	now := time.Now()
	lead := entity.NewLead("user-1", "Michael Chen", "michael@startuphub.io")
	lead.Company = "StartupHub"

	leads := new(MockLeadRepository)
	leads.On("FindByIDAndOwner", mock.Anything, lead.ID, "user-1").Return(lead, nil)
	users := new(MockUserRepository)
	users.On("FindByID", mock.Anything, "user-1").Return(&entity.User{ID: "user-1", Email: "rep@followwise.io"}, nil)
	repo := &memFollowUpRepo{rows: map[string][]*entity.FollowUpSuggestion{}}

	provider := ai.NewTemplateProviderWithClock(func() time.Time { return now })
	uc := usecase.NewGenerateFollowUpsUseCase(leads, users, repo, nil, provider, nil)
	list := usecase.NewListFollowUpsUseCase(leads, repo, nil)

	batch, err := uc.Execute(context.Background(), usecase.GenerateFollowUpsInput{LeadID: lead.ID, UserID: "user-1", Tone: "assertive"})
	require.NoError(t, err)
	require.Len(t, batch, 3)

	deadline := now.AddDate(0, 0, 3).Format("Monday, January 02")
	for _, s := range batch {
		assert.Equal(t, entity.ToneAssertive, s.Tone)
		assert.Contains(t, s.Body, "Michael Chen")
		assert.Contains(t, s.Body, "following up with Michael Chen")
		assert.Contains(t, s.Body, deadline)
		assert.True(t, strings.HasSuffix(s.Body, "rep@followwise.io"))
	}

	// a second generation replaces the first batch
	_, err = uc.Execute(context.Background(), usecase.GenerateFollowUpsInput{LeadID: lead.ID, UserID: "user-1", Tone: "friendly"})
	require.NoError(t, err)

	stored, err := list.Execute(context.Background(), lead.ID, "user-1")
	require.NoError(t, err)
	require.Len(t, stored, 3)
	for i, s := range stored {
		assert.Equal(t, i, s.VariantIndex)
		assert.Equal(t, entity.ToneFriendly, s.Tone)
	}
}
