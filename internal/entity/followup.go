package entity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Tone controls which template pool a follow-up is drafted from.
type Tone string

const (
	TonePolite    Tone = "polite"
	ToneAssertive Tone = "assertive"
	ToneFriendly  Tone = "friendly"
)

// VariantCount is the number of drafts produced per generation call.
const VariantCount = 3

func (t Tone) Valid() bool {
	switch t {
	case TonePolite, ToneAssertive, ToneFriendly:
		return true
	}
	return false
}

// ParseTone accepts the wire value of a tone. An empty value selects polite.
func ParseTone(s string) (Tone, error) {
	t := Tone(strings.ToLower(strings.TrimSpace(s)))
	if t == "" {
		return TonePolite, nil
	}
	if !t.Valid() {
		return "", fmt.Errorf("unknown tone %q", s)
	}
	return t, nil
}

// LeadInfo is the lead metadata a provider may substitute into drafts.
type LeadInfo struct {
	ContactName      string
	ContactEmail     string
	Company          string
	LastEmailSnippet string
	UserName         string
}

// Interaction is a past message exchanged with the lead.
type Interaction struct {
	Subject string
	Body    string
	SentAt  time.Time
}

// FollowUpVariant is one provider draft before it is persisted.
type FollowUpVariant struct {
	VariantIndex int    `json:"variant_index"`
	Subject      string `json:"subject"`
	Body         string `json:"body"`
	Tone         Tone   `json:"tone"`
}

type FollowUpSuggestion struct {
	ID           string    `json:"id"`
	LeadID       string    `json:"lead_id"`
	VariantIndex int       `json:"variant_index"`
	Subject      string    `json:"subject"`
	Body         string    `json:"body"`
	Tone         Tone      `json:"tone"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewFollowUpSuggestion(leadID string, variantIndex int, subject, body string, tone Tone) *FollowUpSuggestion {
	return &FollowUpSuggestion{
		ID:           uuid.New().String(),
		LeadID:       leadID,
		VariantIndex: variantIndex,
		Subject:      subject,
		Body:         body,
		Tone:         tone,
		CreatedAt:    time.Now(),
	}
}

type FollowUpRepositoryInterface interface {
	// ListByLead returns the live batch ordered by variant_index.
	ListByLead(ctx context.Context, leadID string) ([]*FollowUpSuggestion, error)
	// ReplaceForLead deletes every suggestion of the lead and inserts batch in one transaction.
	ReplaceForLead(ctx context.Context, leadID string, batch []*FollowUpSuggestion) error
}
