package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors. Typed errors below match them through errors.Is,
// so handlers can switch on the kind and still read the details with errors.As.
var (
	ErrConfig            = errors.New("domain: invalid establishment configuration")
	ErrConflict          = errors.New("domain: slot is not available")
	ErrQuotaExceeded     = errors.New("domain: monthly appointment limit reached")
	ErrValidation        = errors.New("domain: validation failed")
	ErrInvalidTransition = errors.New("domain: invalid appointment status transition")
)

// ConflictReason explains why a slot could not be booked
type ConflictReason string

const (
	ConflictOccupied ConflictReason = "occupied"
	ConflictBlocked  ConflictReason = "blocked"
	ConflictPast     ConflictReason = "past"
)

// ConfigError is raised when stored establishment settings cannot be interpreted.
// It is meant for the establishment admin, not for the booking customer.
type ConfigError struct {
	EstablishmentID int64
	Field           string
	Message         string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: establishment=%d %s: %s", ErrConfig, e.EstablishmentID, e.Field, e.Message)
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// ConflictError is returned when the requested slot is no longer bookable
type ConflictError struct {
	Reason ConflictReason
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %s", ErrConflict, e.Reason)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// QuotaError is returned when the establishment plan limit is exhausted
type QuotaError struct {
	Limit int
	Used  int
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("%s: %d of %d used", ErrQuotaExceeded, e.Used, e.Limit)
}

func (e *QuotaError) Is(target error) bool {
	return target == ErrQuotaExceeded
}

// ValidationError describes invalid input for a single field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrValidation, e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError shortcut
func NewValidationError(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
