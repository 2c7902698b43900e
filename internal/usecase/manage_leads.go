package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/followwise/followwise-api/internal/entity"
)

const (
	defaultLeadLimit = 100
	maxLeadLimit     = 500
)

type ManageLeadsUseCase struct {
	Repo  entity.LeadRepositoryInterface
	Cache SuggestionCache
}

func NewManageLeadsUseCase(repo entity.LeadRepositoryInterface, cache SuggestionCache) *ManageLeadsUseCase {
	return &ManageLeadsUseCase{Repo: repo, Cache: cache}
}

func (uc *ManageLeadsUseCase) List(ctx context.Context, input ListLeadsInput) ([]*entity.Lead, error) {
	if input.Status != "" && !entity.LeadStatus(input.Status).Valid() {
		return nil, ValidationErrors{{"status", "must be one of new, in_progress, won, lost"}}
	}

	filter := entity.LeadFilter{
		Status: entity.LeadStatus(input.Status),
		Search: strings.TrimSpace(input.Search),
		Skip:   input.Skip,
		Limit:  input.Limit,
	}
	if filter.Skip < 0 {
		filter.Skip = 0
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultLeadLimit
	} else if filter.Limit > maxLeadLimit {
		filter.Limit = maxLeadLimit
	}

	leads, err := uc.Repo.List(ctx, input.UserID, filter)
	if err != nil {
		return nil, persistenceError(err)
	}
	if leads == nil {
		leads = []*entity.Lead{}
	}
	return leads, nil
}

func (uc *ManageLeadsUseCase) Create(ctx context.Context, userID string, input CreateLeadInput) (*entity.Lead, error) {
	if errs := ValidateCreateLeadInput(input); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	lead := entity.NewLead(userID, strings.TrimSpace(input.ContactName), strings.TrimSpace(input.ContactEmail))
	lead.Company = input.Company
	lead.Phone = input.Phone
	lead.LastEmailSnippet = input.LastEmailSnippet
	lead.LeadScore = input.LeadScore
	lead.NextFollowUpAt = input.NextFollowUpAt
	lead.Notes = input.Notes
	if input.Source != "" {
		lead.Source = entity.LeadSource(input.Source)
	}
	if input.Status != "" {
		lead.Status = entity.LeadStatus(input.Status)
	}

	if err := lead.Validate(); err != nil {
		return nil, ValidationErrors{{"lead", err.Error()}}
	}
	if err := uc.Repo.Create(ctx, lead); err != nil {
		return nil, persistenceError(err)
	}
	return lead, nil
}

func (uc *ManageLeadsUseCase) Get(ctx context.Context, id, userID string) (*entity.Lead, error) {
	return findOwnedLead(ctx, uc.Repo, id, userID)
}

func (uc *ManageLeadsUseCase) Update(ctx context.Context, id, userID string, input UpdateLeadInput) (*entity.Lead, error) {
	if errs := ValidateUpdateLeadInput(input); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	lead, err := findOwnedLead(ctx, uc.Repo, id, userID)
	if err != nil {
		return nil, err
	}

	applyLeadUpdate(lead, input)
	lead.UpdatedAt = time.Now()

	if err := uc.Repo.Update(ctx, lead); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, persistenceError(err)
	}
	return lead, nil
}

// Delete removes the lead for good. Suggestions and sent-email logs go with it.
func (uc *ManageLeadsUseCase) Delete(ctx context.Context, id, userID string) error {
	if err := uc.Repo.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return ErrLeadNotFound
		}
		return persistenceError(err)
	}

	if uc.Cache != nil {
		if err := uc.Cache.Invalidate(ctx, id); err != nil {
			log.Printf("[CACHE] failed to drop suggestions for deleted lead %s: %v", id, err)
		}
	}
	return nil
}

// ScanInbox imports leads found in the user's inbox. Leads whose email the
// user already tracks are skipped.
func (uc *ManageLeadsUseCase) ScanInbox(ctx context.Context, userID string) (*ScanInboxOutput, error) {
	created := []*entity.Lead{}

	for _, found := range inboxLeads() {
		_, err := uc.Repo.FindByEmailAndOwner(ctx, found.ContactEmail, userID)
		if err == nil {
			continue
		}
		if !errors.Is(err, entity.ErrNotFound) {
			return nil, persistenceError(err)
		}

		lead := entity.NewLead(userID, found.ContactName, found.ContactEmail)
		lead.Company = found.Company
		lead.Notes = found.Notes
		lead.Source = entity.LeadSourceEmail
		lead.Status = found.Status
		lead.LeadScore = found.LeadScore

		if err := uc.Repo.Create(ctx, lead); err != nil {
			return nil, persistenceError(err)
		}
		created = append(created, lead)
	}

	return &ScanInboxOutput{
		Message:      fmt.Sprintf("Inbox scanned successfully. Found %d new leads from emails.", len(created)),
		LeadsCreated: len(created),
		Leads:        created,
	}, nil
}

func applyLeadUpdate(lead *entity.Lead, input UpdateLeadInput) {
	if input.ContactName != nil {
		lead.ContactName = strings.TrimSpace(*input.ContactName)
	}
	if input.ContactEmail != nil {
		lead.ContactEmail = strings.TrimSpace(*input.ContactEmail)
	}
	if input.Company != nil {
		lead.Company = *input.Company
	}
	if input.Phone != nil {
		lead.Phone = *input.Phone
	}
	if input.Source != nil {
		lead.Source = entity.LeadSource(*input.Source)
	}
	if input.LastEmailSnippet != nil {
		lead.LastEmailSnippet = *input.LastEmailSnippet
	}
	if input.LeadScore != nil {
		lead.LeadScore = *input.LeadScore
	}
	if input.Status != nil {
		lead.Status = entity.LeadStatus(*input.Status)
	}
	if input.NextFollowUpAt != nil {
		lead.NextFollowUpAt = input.NextFollowUpAt
	}
	if input.Notes != nil {
		lead.Notes = *input.Notes
	}
	if input.IsActive != nil {
		lead.IsActive = *input.IsActive
	}
}

// inboxLeads is the fixed result of the simulated inbox scan.
func inboxLeads() []entity.Lead {
	return []entity.Lead{
		{
			ContactName:  "Sarah Johnson",
			ContactEmail: "sarah.j@techcorp.com",
			Company:      "TechCorp Solutions",
			Notes:        "Interested in AI sales automation tools. Found your website through LinkedIn.",
			Status:       entity.LeadStatusNew,
			LeadScore:    75,
		},
		{
			ContactName:  "Michael Chen",
			ContactEmail: "mchen@startuphub.io",
			Company:      "StartupHub",
			Notes:        "Request for demo of follow-up automation system. Budget: $5,000-10,000.",
			Status:       entity.LeadStatusNew,
			LeadScore:    85,
		},
		{
			ContactName:  "Emily Rodriguez",
			ContactEmail: "emily.r@globaltrade.com",
			Company:      "Global Trade Inc",
			Notes:        "Follow-up required after initial contact at trade show. Looking for enterprise solution.",
			Status:       entity.LeadStatusInProgress,
			LeadScore:    90,
		},
	}
}
