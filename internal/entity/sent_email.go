package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type EmailProvider string

const (
	EmailProviderGmail    EmailProvider = "gmail"
	EmailProviderSendgrid EmailProvider = "sendgrid"
	EmailProviderSMTP     EmailProvider = "smtp"
	EmailProviderOther    EmailProvider = "other"
)

func (p EmailProvider) Valid() bool {
	switch p {
	case EmailProviderGmail, EmailProviderSendgrid, EmailProviderSMTP, EmailProviderOther:
		return true
	}
	return false
}

const (
	SentEmailStatusSent   = "sent"
	SentEmailStatusFailed = "failed"
)

// SentEmailLog is written once per outbound email and never updated.
type SentEmailLog struct {
	ID       string        `json:"id"`
	UserID   string        `json:"user_id"`
	LeadID   string        `json:"lead_id"`
	ToEmail  string        `json:"to_email"`
	Subject  string        `json:"subject"`
	Body     string        `json:"body"`
	Provider EmailProvider `json:"provider"`
	Status   string        `json:"status"`
	SentAt   time.Time     `json:"sent_at"`
}

func NewSentEmailLog(userID, leadID, to, subject, body string, provider EmailProvider) *SentEmailLog {
	return &SentEmailLog{
		ID:       uuid.New().String(),
		UserID:   userID,
		LeadID:   leadID,
		ToEmail:  to,
		Subject:  subject,
		Body:     body,
		Provider: provider,
		Status:   SentEmailStatusSent,
		SentAt:   time.Now(),
	}
}

type SentEmailRepositoryInterface interface {
	// Create stores the log and, when resetFollowUp is set, clears the lead's next_followup_at in the same transaction.
	Create(ctx context.Context, log *SentEmailLog, resetFollowUp bool) error
	ListByLead(ctx context.Context, leadID string, skip, limit int) ([]*SentEmailLog, error)
	ListByUser(ctx context.Context, userID string, skip, limit int) ([]*SentEmailLog, error)
}
