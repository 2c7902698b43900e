package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/followwise/followwise-api/internal/entity"
	"github.com/followwise/followwise-api/internal/infra/metrics"
)

// historyDepth bounds how many sent emails are handed to the provider as history.
const historyDepth = 5

type GenerateFollowUpsUseCase struct {
	LeadRepo      entity.LeadRepositoryInterface
	UserRepo      entity.UserRepositoryInterface
	FollowUpRepo  entity.FollowUpRepositoryInterface
	SentEmailRepo entity.SentEmailRepositoryInterface // optional, feeds history
	Provider      SuggestionProvider
	Cache         SuggestionCache // optional
}

func NewGenerateFollowUpsUseCase(
	leadRepo entity.LeadRepositoryInterface,
	userRepo entity.UserRepositoryInterface,
	followUpRepo entity.FollowUpRepositoryInterface,
	sentEmailRepo entity.SentEmailRepositoryInterface,
	provider SuggestionProvider,
	cache SuggestionCache,
) *GenerateFollowUpsUseCase {
	return &GenerateFollowUpsUseCase{
		LeadRepo:      leadRepo,
		UserRepo:      userRepo,
		FollowUpRepo:  followUpRepo,
		SentEmailRepo: sentEmailRepo,
		Provider:      provider,
		Cache:         cache,
	}
}

// Execute drafts a fresh batch for the lead and replaces whatever batch was
// stored before. Earlier suggestions are not kept.
func (uc *GenerateFollowUpsUseCase) Execute(ctx context.Context, input GenerateFollowUpsInput) ([]*entity.FollowUpSuggestion, error) {
	tone, err := entity.ParseTone(input.Tone)
	if err != nil {
		return nil, ValidationErrors(ValidateTone(input.Tone))
	}

	lead, err := findOwnedLead(ctx, uc.LeadRepo, input.LeadID, input.UserID)
	if err != nil {
		return nil, err
	}

	user, err := uc.UserRepo.FindByID(ctx, input.UserID)
	if err != nil && !errors.Is(err, entity.ErrNotFound) {
		return nil, persistenceError(fmt.Errorf("load acting user: %w", err))
	}

	info := &entity.LeadInfo{
		ContactName:      lead.ContactName,
		ContactEmail:     lead.ContactEmail,
		Company:          lead.Company,
		LastEmailSnippet: lead.LastEmailSnippet,
	}
	if user != nil {
		info.UserName = user.DisplayName()
	}

	contextText := input.Context
	if contextText == "" {
		contextText = buildLeadContext(lead)
	}

	variants, err := uc.Provider.Generate(ctx, contextText, tone, info, uc.loadHistory(ctx, lead.ID))
	if err != nil {
		return nil, providerError(err)
	}
	if len(variants) != entity.VariantCount {
		return nil, providerError(fmt.Errorf("expected %d variants, got %d", entity.VariantCount, len(variants)))
	}

	batch := make([]*entity.FollowUpSuggestion, 0, len(variants))
	for i, v := range variants {
		batch = append(batch, entity.NewFollowUpSuggestion(lead.ID, i, v.Subject, v.Body, tone))
	}

	if err := uc.FollowUpRepo.ReplaceForLead(ctx, lead.ID, batch); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			// deleted while the provider was drafting
			return nil, ErrLeadNotFound
		}
		return nil, persistenceError(err)
	}

	// The next list refills from the committed rows, so overlapping
	// regenerations cannot leave an older batch cached.
	if uc.Cache != nil {
		if err := uc.Cache.Invalidate(ctx, lead.ID); err != nil {
			log.Printf("[CACHE] failed to drop stale suggestions for lead %s: %v", lead.ID, err)
		}
	}

	metrics.RecordFollowUpsGenerated(string(tone))
	log.Printf("[FOLLOWUPS] generated %d %s variants for lead %s", len(batch), tone, lead.ID)
	return batch, nil
}

func (uc *GenerateFollowUpsUseCase) loadHistory(ctx context.Context, leadID string) []entity.Interaction {
	if uc.SentEmailRepo == nil {
		return nil
	}
	logs, err := uc.SentEmailRepo.ListByLead(ctx, leadID, 0, historyDepth)
	if err != nil {
		log.Printf("[FOLLOWUPS] history unavailable for lead %s: %v", leadID, err)
		return nil
	}
	history := make([]entity.Interaction, 0, len(logs))
	for _, l := range logs {
		history = append(history, entity.Interaction{Subject: l.Subject, Body: l.Body, SentAt: l.SentAt})
	}
	return history
}

// buildLeadContext is used when the caller supplies no context.
func buildLeadContext(lead *entity.Lead) string {
	if lead.LastEmailSnippet != "" {
		return lead.LastEmailSnippet
	}
	return "following up with " + lead.ContactName
}

func findOwnedLead(ctx context.Context, repo entity.LeadRepositoryInterface, leadID, userID string) (*entity.Lead, error) {
	lead, err := repo.FindByIDAndOwner(ctx, leadID, userID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, persistenceError(err)
	}
	return lead, nil
}
