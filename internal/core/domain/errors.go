package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrUnauthenticated      = errors.New("user not authenticated")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrEmailInUse           = errors.New("email already in use")
	ErrPasswordMismatch     = errors.New("Passwords do not match")
	ErrPlanNotFound         = errors.New("Plan not found")
	ErrNoActiveSubscription = errors.New("No active subscription")
	ErrSubscriptionRequired = errors.New("You need an active subscription to book sessions")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrInvalidOTP           = errors.New("OTP does not match the code shown on the driver's device")
	ErrComingSoon           = errors.New("coming soon")
)

// ValidationError is returned before any remote call when a required field
// is missing or malformed.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ComingSoon wraps ErrComingSoon with the name of the placeholder feature.
func ComingSoon(feature string) error {
	return fmt.Errorf("%s feature %w!", feature, ErrComingSoon)
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
