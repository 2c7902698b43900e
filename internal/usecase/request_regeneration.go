package usecase

import (
	"context"
	"fmt"
	"log"

	"github.com/followwise/followwise-api/internal/entity"
)

const (
	OriginAPI       = "API"
	OriginScheduler = "SCHEDULER"
)

// RequestRegenerationUseCase queues a generation for the background worker
// instead of running it inline.
type RequestRegenerationUseCase struct {
	LeadRepo  entity.LeadRepositoryInterface
	Publisher RegenerationPublisher
}

func NewRequestRegenerationUseCase(leadRepo entity.LeadRepositoryInterface, publisher RegenerationPublisher) *RequestRegenerationUseCase {
	return &RequestRegenerationUseCase{LeadRepo: leadRepo, Publisher: publisher}
}

func (uc *RequestRegenerationUseCase) Execute(ctx context.Context, input GenerateFollowUpsInput) (*RegenerationJob, error) {
	tone, err := entity.ParseTone(input.Tone)
	if err != nil {
		return nil, ValidationErrors(ValidateTone(input.Tone))
	}
	if uc.Publisher == nil {
		return nil, ErrQueueUnavailable
	}

	lead, err := findOwnedLead(ctx, uc.LeadRepo, input.LeadID, input.UserID)
	if err != nil {
		return nil, err
	}

	job := RegenerationJob{
		LeadID:  lead.ID,
		UserID:  input.UserID,
		Tone:    string(tone),
		Context: input.Context,
		Origin:  OriginAPI,
	}
	if err := uc.Publisher.PublishRegeneration(ctx, job); err != nil {
		return nil, &TechnicalError{Code: CodeQueueUnavailable, Message: "failed to queue regeneration", Err: fmt.Errorf("publish: %w", err)}
	}

	log.Printf("[QUEUE] regeneration queued for lead %s (%s)", lead.ID, tone)
	return &job, nil
}
