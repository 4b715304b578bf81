package utils

import (
	"errors"
	"fmt"
)

var (
	ErrDatabaseError      = errors.New("database error")
	ErrRecordNotFound     = errors.New("record not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrAccountNotFound    = errors.New("account not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrJourneyNotFound    = errors.New("journey not found")
	ErrLessonNotFound     = errors.New("lesson not found")

	ErrSubscriptionNotFound = errors.New("subscription not found")

	// Verification error classes for the billing provider adapter.
	// Transient means the caller may retry (provider unreachable, 5xx);
	// permanent means the token is unresolvable and retrying is pointless.
	ErrVerificationTransient     = errors.New("subscription verification temporarily unavailable")
	ErrVerificationPermanent     = errors.New("subscription verification rejected")
	ErrMalformedProviderResponse = errors.New("malformed billing provider response")

	ErrGenerationFailed = errors.New("content generation failed")

	ErrLimitExceeded = errors.New("usage limit exceeded")
)

// LimitExceededError carries the machine-readable denial reason for the
// access gate: which feature ran out and at what limit.
type LimitExceededError struct {
	Feature string
	Limit   int
	Used    int
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("%s limit %d/%d reached", e.Feature, e.Used, e.Limit)
}

func (e *LimitExceededError) Unwrap() error {
	return ErrLimitExceeded
}
