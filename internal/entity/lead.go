package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

type LeadStatus string

const (
	LeadStatusNew        LeadStatus = "new"
	LeadStatusInProgress LeadStatus = "in_progress"
	LeadStatusWon        LeadStatus = "won"
	LeadStatusLost       LeadStatus = "lost"
)

func (s LeadStatus) Valid() bool {
	switch s {
	case LeadStatusNew, LeadStatusInProgress, LeadStatusWon, LeadStatusLost:
		return true
	}
	return false
}

type LeadSource string

const (
	LeadSourceEmail  LeadSource = "email"
	LeadSourceManual LeadSource = "manual"
	LeadSourceImport LeadSource = "import"
	LeadSourceOther  LeadSource = "other"
)

func (s LeadSource) Valid() bool {
	switch s {
	case LeadSourceEmail, LeadSourceManual, LeadSourceImport, LeadSourceOther:
		return true
	}
	return false
}

// Lead is a prospective contact owned by exactly one user.
type Lead struct {
	ID               string     `json:"id"`
	UserID           string     `json:"user_id"`
	ContactName      string     `json:"contact_name"`
	ContactEmail     string     `json:"contact_email"`
	Company          string     `json:"company,omitempty"`
	Phone            string     `json:"phone,omitempty"`
	Source           LeadSource `json:"source"`
	LastEmailSnippet string     `json:"last_email_snippet,omitempty"`
	LeadScore        int        `json:"lead_score"`
	Status           LeadStatus `json:"status"`
	NextFollowUpAt   *time.Time `json:"next_followup_at,omitempty"`
	Notes            string     `json:"notes,omitempty"`
	IsActive         bool       `json:"is_active"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func NewLead(userID, contactName, contactEmail string) *Lead {
	now := time.Now()
	return &Lead{
		ID:           uuid.New().String(),
		UserID:       userID,
		ContactName:  contactName,
		ContactEmail: contactEmail,
		Source:       LeadSourceManual,
		Status:       LeadStatusNew,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (l *Lead) Validate() error {
	if l.UserID == "" {
		return errors.New("user_id is required")
	}
	if l.ContactName == "" {
		return errors.New("contact_name is required")
	}
	if l.ContactEmail == "" {
		return errors.New("contact_email is required")
	}
	if l.LeadScore < 0 || l.LeadScore > 100 {
		return errors.New("lead_score must be between 0 and 100")
	}
	if !l.Status.Valid() {
		return errors.New("status is invalid")
	}
	if !l.Source.Valid() {
		return errors.New("source is invalid")
	}
	return nil
}

// LeadFilter narrows an owner-scoped lead listing.
type LeadFilter struct {
	Status LeadStatus
	Search string
	Skip   int
	Limit  int
}

type LeadRepositoryInterface interface {
	Create(ctx context.Context, lead *Lead) error
	// FindByIDAndOwner returns ErrNotFound when the lead is missing or owned by someone else.
	FindByIDAndOwner(ctx context.Context, id, userID string) (*Lead, error)
	FindByEmailAndOwner(ctx context.Context, email, userID string) (*Lead, error)
	List(ctx context.Context, userID string, filter LeadFilter) ([]*Lead, error)
	Update(ctx context.Context, lead *Lead) error
	Delete(ctx context.Context, id, userID string) error
	// ListDueForFollowUp returns active leads whose next_followup_at has passed and that have no suggestions.
	ListDueForFollowUp(ctx context.Context, now time.Time, limit int) ([]*Lead, error)
}
