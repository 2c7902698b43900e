package usecase

import (
	"time"

	"github.com/followwise/followwise-api/internal/entity"
)

type GenerateFollowUpsInput struct {
	LeadID  string
	UserID  string
	Context string
	Tone    string
}

type GenerateFollowUpsOutput struct {
	Suggestions []entity.FollowUpVariant `json:"suggestions"`
}

type RegenerationJob struct {
	LeadID  string `json:"lead_id"`
	UserID  string `json:"user_id"`
	Tone    string `json:"tone"`
	Context string `json:"context,omitempty"`
	Origin  string `json:"origin"`
}

type CreateLeadInput struct {
	ContactName      string     `json:"contact_name"`
	ContactEmail     string     `json:"contact_email"`
	Company          string     `json:"company"`
	Phone            string     `json:"phone"`
	Source           string     `json:"source"`
	LastEmailSnippet string     `json:"last_email_snippet"`
	LeadScore        int        `json:"lead_score"`
	Status           string     `json:"status"`
	NextFollowUpAt   *time.Time `json:"next_followup_at"`
	Notes            string     `json:"notes"`
}

// UpdateLeadInput holds a partial update; nil fields are left untouched.
type UpdateLeadInput struct {
	ContactName      *string    `json:"contact_name"`
	ContactEmail     *string    `json:"contact_email"`
	Company          *string    `json:"company"`
	Phone            *string    `json:"phone"`
	Source           *string    `json:"source"`
	LastEmailSnippet *string    `json:"last_email_snippet"`
	LeadScore        *int       `json:"lead_score"`
	Status           *string    `json:"status"`
	NextFollowUpAt   *time.Time `json:"next_followup_at"`
	Notes            *string    `json:"notes"`
	IsActive         *bool      `json:"is_active"`
}

type ListLeadsInput struct {
	UserID string
	Status string
	Search string
	Skip   int
	Limit  int
}

type ScanInboxOutput struct {
	Message      string         `json:"message"`
	LeadsCreated int            `json:"leads_created"`
	Leads        []*entity.Lead `json:"leads"`
}

type SendEmailInput struct {
	LeadID   string `json:"-"`
	UserID   string `json:"-"`
	ToEmail  string `json:"to_email"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
	Provider string `json:"provider"`
}

type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenOutput struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        *entity.User `json:"user,omitempty"`
}
