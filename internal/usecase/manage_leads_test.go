package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/followwise/followwise-api/internal/entity"
	"github.com/followwise/followwise-api/internal/usecase"
)

// TestListLeadsClampsPaging - limit defaults to 100 and is capped at 500
func TestListLeadsClampsPaging(t *testing.T) {
	cases := []struct {
		skip, limit         int
		wantSkip, wantLimit int
	}{
		{0, 0, 0, 100},
		{-5, 1000, 0, 500},
		{10, 20, 10, 20},
	}

	for _, tc := range cases {
		repo := new(MockLeadRepository)
		repo.On("List", mock.Anything, "user-1", entity.LeadFilter{
			Status: entity.LeadStatusWon,
			Search: "tech",
			Skip:   tc.wantSkip,
			Limit:  tc.wantLimit,
		}).Return(nil, nil)

		leads, err := usecase.NewManageLeadsUseCase(repo, nil).List(context.Background(), usecase.ListLeadsInput{
			UserID: "user-1", Status: "won", Search: "  tech ", Skip: tc.skip, Limit: tc.limit,
		})

		require.NoError(t, err)
		assert.NotNil(t, leads)
		repo.AssertExpectations(t)
	}
}

func TestListLeadsInvalidStatus(t *testing.T) {
	_, err := usecase.NewManageLeadsUseCase(new(MockLeadRepository), nil).List(context.Background(), usecase.ListLeadsInput{UserID: "user-1", Status: "archived"})

	var ve usecase.ValidationErrors
	assert.ErrorAs(t, err, &ve)
}

// TestCreateLead - defaults applied and owner set
func TestCreateLead(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Lead")).Return(nil)

	lead, err := usecase.NewManageLeadsUseCase(repo, nil).Create(context.Background(), "user-1", usecase.CreateLeadInput{
		ContactName:  " Sarah Johnson ",
		ContactEmail: "sarah.j@techcorp.com",
		Company:      "TechCorp Solutions",
		LeadScore:    75,
	})

	require.NoError(t, err)
	assert.Equal(t, "user-1", lead.UserID)
	assert.Equal(t, "Sarah Johnson", lead.ContactName)
	assert.Equal(t, entity.LeadSourceManual, lead.Source)
	assert.Equal(t, entity.LeadStatusNew, lead.Status)
	assert.True(t, lead.IsActive)
}

func TestCreateLeadValidation(t *testing.T) {
	repo := new(MockLeadRepository)

	_, err := usecase.NewManageLeadsUseCase(repo, nil).Create(context.Background(), "user-1", usecase.CreateLeadInput{
		ContactEmail: "not-an-email",
		LeadScore:    101,
	})

	var ve usecase.ValidationErrors
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve, 3)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// TestUpdateLeadPartial - only provided fields change
func TestUpdateLeadPartial(t *testing.T) {
	repo := new(MockLeadRepository)
	lead := ownedLead("lead-1", "user-1", "Bob")
	lead.Company = "Acme"

	repo.On("FindByIDAndOwner", mock.Anything, "lead-1", "user-1").Return(lead, nil)
	repo.On("Update", mock.Anything, lead).Return(nil)

	status := "won"
	inactive := false
	updated, err := usecase.NewManageLeadsUseCase(repo, nil).Update(context.Background(), "lead-1", "user-1", usecase.UpdateLeadInput{
		Status:   &status,
		IsActive: &inactive,
	})

	require.NoError(t, err)
	assert.Equal(t, entity.LeadStatusWon, updated.Status)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "Acme", updated.Company)
	assert.Equal(t, "Bob", updated.ContactName)
}

// TestDeleteLead - deletion drops cached suggestions
func TestDeleteLead(t *testing.T) {
	repo := new(MockLeadRepository)
	cache := new(MockCache)
	repo.On("Delete", mock.Anything, "lead-1", "user-1").Return(nil)
	cache.On("Invalidate", mock.Anything, "lead-1").Return(nil)

	err := usecase.NewManageLeadsUseCase(repo, cache).Delete(context.Background(), "lead-1", "user-1")

	require.NoError(t, err)
	cache.AssertExpectations(t)
}

func TestDeleteLeadNotFound(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("Delete", mock.Anything, "lead-1", "user-2").Return(entity.ErrNotFound)

	err := usecase.NewManageLeadsUseCase(repo, nil).Delete(context.Background(), "lead-1", "user-2")

	assert.ErrorIs(t, err, usecase.ErrLeadNotFound)
}

// TestScanInboxSkipsKnownEmails
func TestScanInboxSkipsKnownEmails(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("FindByEmailAndOwner", mock.Anything, "sarah.j@techcorp.com", "user-1").Return(ownedLead("x", "user-1", "Sarah Johnson"), nil)
	repo.On("FindByEmailAndOwner", mock.Anything, mock.Anything, "user-1").Return(nil, entity.ErrNotFound)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	out, err := usecase.NewManageLeadsUseCase(repo, nil).ScanInbox(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Equal(t, 2, out.LeadsCreated)
	assert.Equal(t, "Inbox scanned successfully. Found 2 new leads from emails.", out.Message)
	require.Len(t, out.Leads, 2)
	assert.Equal(t, "Michael Chen", out.Leads[0].ContactName)
	assert.Equal(t, 85, out.Leads[0].LeadScore)
	assert.Equal(t, entity.LeadSourceEmail, out.Leads[0].Source)
	assert.Equal(t, entity.LeadStatusInProgress, out.Leads[1].Status)
	repo.AssertNumberOfCalls(t, "Create", 2)
}

func TestScanInboxRepositoryFailure(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("FindByEmailAndOwner", mock.Anything, mock.Anything, "user-1").Return(nil, errors.New("db down"))

	_, err := usecase.NewManageLeadsUseCase(repo, nil).ScanInbox(context.Background(), "user-1")

	assert.ErrorIs(t, err, usecase.ErrPersistence)
}
