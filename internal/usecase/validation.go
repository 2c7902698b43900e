package usecase

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/followwise/followwise-api/internal/entity"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, e := range v {
		parts = append(parts, e.Error())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func ValidateCreateLeadInput(input CreateLeadInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.ContactName) == "" {
		errors = append(errors, ValidationError{"contact_name", "is required"})
	} else if len(input.ContactName) > 200 {
		errors = append(errors, ValidationError{"contact_name", "must not exceed 200 characters"})
	}

	errors = append(errors, validateEmail("contact_email", input.ContactEmail)...)

	if input.LeadScore < 0 || input.LeadScore > 100 {
		errors = append(errors, ValidationError{"lead_score", "must be between 0 and 100"})
	}
	if input.Status != "" && !entity.LeadStatus(input.Status).Valid() {
		errors = append(errors, ValidationError{"status", "must be one of new, in_progress, won, lost"})
	}
	if input.Source != "" && !entity.LeadSource(input.Source).Valid() {
		errors = append(errors, ValidationError{"source", "must be one of email, manual, import, other"})
	}

	return errors
}

func ValidateUpdateLeadInput(input UpdateLeadInput) []ValidationError {
	var errors []ValidationError

	if input.ContactName != nil && strings.TrimSpace(*input.ContactName) == "" {
		errors = append(errors, ValidationError{"contact_name", "must not be empty"})
	}
	if input.ContactEmail != nil {
		errors = append(errors, validateEmail("contact_email", *input.ContactEmail)...)
	}
	if input.LeadScore != nil && (*input.LeadScore < 0 || *input.LeadScore > 100) {
		errors = append(errors, ValidationError{"lead_score", "must be between 0 and 100"})
	}
	if input.Status != nil && !entity.LeadStatus(*input.Status).Valid() {
		errors = append(errors, ValidationError{"status", "must be one of new, in_progress, won, lost"})
	}
	if input.Source != nil && !entity.LeadSource(*input.Source).Valid() {
		errors = append(errors, ValidationError{"source", "must be one of email, manual, import, other"})
	}

	return errors
}

func ValidateTone(tone string) []ValidationError {
	if _, err := entity.ParseTone(tone); err != nil {
		return []ValidationError{{"tone", "must be one of polite, assertive, friendly"}}
	}
	return nil
}

func ValidateSendEmailInput(input SendEmailInput) []ValidationError {
	var errors []ValidationError

	errors = append(errors, validateEmail("to_email", input.ToEmail)...)
	if strings.TrimSpace(input.Subject) == "" {
		errors = append(errors, ValidationError{"subject", "is required"})
	}
	if strings.TrimSpace(input.Body) == "" {
		errors = append(errors, ValidationError{"body", "is required"})
	}
	if input.Provider != "" && !entity.EmailProvider(input.Provider).Valid() {
		errors = append(errors, ValidationError{"provider", "must be one of gmail, sendgrid, smtp, other"})
	}

	return errors
}

func ValidateRegisterInput(input RegisterInput) []ValidationError {
	var errors []ValidationError

	errors = append(errors, validateEmail("email", input.Email)...)
	if len(input.Password) < 8 {
		errors = append(errors, ValidationError{"password", "must have at least 8 characters"})
	} else if len(input.Password) > 72 {
		errors = append(errors, ValidationError{"password", "must not exceed 72 characters"})
	}

	return errors
}

func validateEmail(field, value string) []ValidationError {
	if strings.TrimSpace(value) == "" {
		return []ValidationError{{field, "is required"}}
	}
	if _, err := mail.ParseAddress(value); err != nil {
		return []ValidationError{{field, "is invalid"}}
	}
	return nil
}
