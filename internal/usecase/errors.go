package usecase

import "errors"

const (
	CodeNotFound           = "NOT_FOUND"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeConflict           = "CONFLICT"
	CodeQueueUnavailable   = "QUEUE_UNAVAILABLE"

	CodePersistence     = "PERSISTENCE_FAILURE"
	CodeProviderFailure = "PROVIDER_FAILURE"
	CodeDeliveryFailed  = "DELIVERY_FAILED"
)

// DomainError is caller-visible and returned before any side effect.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError wraps an infrastructure failure. Two TechnicalErrors match
// under errors.Is when their codes are equal.
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func (e *TechnicalError) Is(target error) bool {
	t, ok := target.(*TechnicalError)
	return ok && t.Code == e.Code
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

var (
	ErrLeadNotFound       = &DomainError{Code: CodeNotFound, Message: "Lead not found"}
	ErrInvalidCredentials = &DomainError{Code: CodeInvalidCredentials, Message: "Incorrect email or password"}
	ErrEmailAlreadyExists = &DomainError{Code: CodeConflict, Message: "Email already registered"}
	ErrQueueUnavailable   = &DomainError{Code: CodeQueueUnavailable, Message: "Background regeneration is not configured"}

	ErrPersistence     = &TechnicalError{Code: CodePersistence, Message: "persistence failure"}
	ErrProviderFailure = &TechnicalError{Code: CodeProviderFailure, Message: "follow-up provider failure"}
	ErrDeliveryFailed  = &TechnicalError{Code: CodeDeliveryFailed, Message: "email delivery failed"}
)

func persistenceError(err error) error {
	return &TechnicalError{Code: CodePersistence, Message: ErrPersistence.Message, Err: err}
}

func providerError(err error) error {
	return &TechnicalError{Code: CodeProviderFailure, Message: ErrProviderFailure.Message, Err: err}
}

func deliveryError(err error) error {
	return &TechnicalError{Code: CodeDeliveryFailed, Message: ErrDeliveryFailed.Message, Err: err}
}
