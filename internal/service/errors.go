package service

import (
	"errors"
)

var (
	// ErrStoreUnavailable is returned when no document store was configured or reachable at startup.
	ErrStoreUnavailable = errors.New("database not available: check DATABASE_URL or DB_* settings")
	// ErrUnknownCollection is returned for a collection without a registered schema.
	ErrUnknownCollection = errors.New("unknown collection")
	// ErrPayloadRequired is returned when Create is called without a record.
	ErrPayloadRequired = errors.New("payload is required")
)

// ValidationError reports malformed, missing or out-of-range input. It is raised before any store call.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	if e == nil || e.Err == nil {
		return "validation error"
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// StoreError reports a failure of the document store or object storage.
// Op names the failed operation; the message is the underlying error text.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	if e == nil || e.Err == nil {
		return "store error"
	}
	return e.Err.Error()
}

func (e *StoreError) Unwrap() error { return e.Err }

// IsValidation reports whether err is or wraps a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsStore reports whether err is or wraps a *StoreError.
func IsStore(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
