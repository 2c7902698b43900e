package usecase

import (
	"context"
	"log"
	"strings"

	"github.com/followwise/followwise-api/internal/entity"
	"github.com/followwise/followwise-api/internal/infra/metrics"
)

type SendEmailUseCase struct {
	LeadRepo      entity.LeadRepositoryInterface
	SentEmailRepo entity.SentEmailRepositoryInterface
	Mailer        Mailer
}

func NewSendEmailUseCase(leadRepo entity.LeadRepositoryInterface, sentEmailRepo entity.SentEmailRepositoryInterface, mailer Mailer) *SendEmailUseCase {
	return &SendEmailUseCase{LeadRepo: leadRepo, SentEmailRepo: sentEmailRepo, Mailer: mailer}
}

// Execute delivers the email and records the attempt. A failed delivery is
// still logged (status "failed") and reported as ErrDeliveryFailed.
func (uc *SendEmailUseCase) Execute(ctx context.Context, input SendEmailInput) (*entity.SentEmailLog, error) {
	if errs := ValidateSendEmailInput(input); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	lead, err := findOwnedLead(ctx, uc.LeadRepo, input.LeadID, input.UserID)
	if err != nil {
		return nil, err
	}

	provider := entity.EmailProvider(input.Provider)
	if provider == "" {
		provider = entity.EmailProviderGmail
	}

	record := entity.NewSentEmailLog(input.UserID, lead.ID, strings.TrimSpace(input.ToEmail), input.Subject, input.Body, provider)

	sendErr := uc.Mailer.Send(ctx, record.ToEmail, record.Subject, record.Body)
	if sendErr != nil {
		log.Printf("[MAIL] delivery to %s failed: %v", record.ToEmail, sendErr)
		record.Status = entity.SentEmailStatusFailed
	}
	metrics.RecordEmailSent(string(provider), record.Status)

	if err := uc.SentEmailRepo.Create(ctx, record, sendErr == nil); err != nil {
		return nil, persistenceError(err)
	}

	if sendErr != nil {
		return record, deliveryError(sendErr)
	}
	return record, nil
}

type ListSentEmailsUseCase struct {
	LeadRepo      entity.LeadRepositoryInterface
	SentEmailRepo entity.SentEmailRepositoryInterface
}

func NewListSentEmailsUseCase(leadRepo entity.LeadRepositoryInterface, sentEmailRepo entity.SentEmailRepositoryInterface) *ListSentEmailsUseCase {
	return &ListSentEmailsUseCase{LeadRepo: leadRepo, SentEmailRepo: sentEmailRepo}
}

func (uc *ListSentEmailsUseCase) ForLead(ctx context.Context, leadID, userID string, skip, limit int) ([]*entity.SentEmailLog, error) {
	if _, err := findOwnedLead(ctx, uc.LeadRepo, leadID, userID); err != nil {
		return nil, err
	}
	skip, limit = clampPage(skip, limit)
	logs, err := uc.SentEmailRepo.ListByLead(ctx, leadID, skip, limit)
	if err != nil {
		return nil, persistenceError(err)
	}
	if logs == nil {
		logs = []*entity.SentEmailLog{}
	}
	return logs, nil
}

func (uc *ListSentEmailsUseCase) ForUser(ctx context.Context, userID string, skip, limit int) ([]*entity.SentEmailLog, error) {
	skip, limit = clampPage(skip, limit)
	logs, err := uc.SentEmailRepo.ListByUser(ctx, userID, skip, limit)
	if err != nil {
		return nil, persistenceError(err)
	}
	if logs == nil {
		logs = []*entity.SentEmailLog{}
	}
	return logs, nil
}

func clampPage(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultLeadLimit
	} else if limit > maxLeadLimit {
		limit = maxLeadLimit
	}
	return skip, limit
}
