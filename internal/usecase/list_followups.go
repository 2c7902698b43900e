package usecase

import (
	"context"
	"log"

	"github.com/followwise/followwise-api/internal/entity"
)

type ListFollowUpsUseCase struct {
	LeadRepo     entity.LeadRepositoryInterface
	FollowUpRepo entity.FollowUpRepositoryInterface
	Cache        SuggestionCache
}

func NewListFollowUpsUseCase(leadRepo entity.LeadRepositoryInterface, followUpRepo entity.FollowUpRepositoryInterface, cache SuggestionCache) *ListFollowUpsUseCase {
	return &ListFollowUpsUseCase{LeadRepo: leadRepo, FollowUpRepo: followUpRepo, Cache: cache}
}

// Execute returns the live batch in variant order, or an empty slice when
// nothing was generated yet.
func (uc *ListFollowUpsUseCase) Execute(ctx context.Context, leadID, userID string) ([]*entity.FollowUpSuggestion, error) {
	if _, err := findOwnedLead(ctx, uc.LeadRepo, leadID, userID); err != nil {
		return nil, err
	}

	fill := false
	var version int64
	if uc.Cache != nil {
		batch, ok, err := uc.Cache.Get(ctx, leadID)
		if err != nil {
			log.Printf("[CACHE] read failed for lead %s: %v", leadID, err)
		} else if ok {
			return batch, nil
		}

		if version, err = uc.Cache.Version(ctx, leadID); err != nil {
			log.Printf("[CACHE] version unavailable for lead %s: %v", leadID, err)
		} else {
			fill = true
		}
	}

	batch, err := uc.FollowUpRepo.ListByLead(ctx, leadID)
	if err != nil {
		return nil, persistenceError(err)
	}
	if batch == nil {
		batch = []*entity.FollowUpSuggestion{}
	}

	if fill && len(batch) > 0 {
		if err := uc.Cache.Set(ctx, leadID, version, batch); err != nil {
			log.Printf("[CACHE] write failed for lead %s: %v", leadID, err)
		}
	}

	return batch, nil
}
