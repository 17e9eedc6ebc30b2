package apperrors

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ValidationError reports malformed or incomplete caller input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation error: %s", e.Reason)
	}
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, reason string, args ...any) *ValidationError {
	if len(args) > 0 {
		reason = fmt.Sprintf(reason, args...)
	}
	return &ValidationError{Field: field, Reason: reason}
}

// UnbalancedEntryError reports the signed discrepancy (debit minus credit).
type UnbalancedEntryError struct {
	EntryID     string
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
	Difference  decimal.Decimal
}

func (e *UnbalancedEntryError) Error() string {
	return fmt.Sprintf("entry %s is unbalanced: debits %s, credits %s, difference %s",
		e.EntryID, e.TotalDebit.StringFixed(2), e.TotalCredit.StringFixed(2), e.Difference.StringFixed(2))
}

func (e *UnbalancedEntryError) Is(target error) bool { return target == ErrInvariant }

// EmptyEntryError reports an entry whose debit and credit totals are both zero.
type EmptyEntryError struct {
	EntryID string
}

func (e *EmptyEntryError) Error() string {
	return fmt.Sprintf("entry %s has zero totals", e.EntryID)
}

func (e *EmptyEntryError) Is(target error) bool { return target == ErrInvariant }

// InvalidStateTransitionError reports a lifecycle move the state machine forbids.
type InvalidStateTransitionError struct {
	EntryID string
	From    string
	To      string
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("entry %s cannot move from %s to %s", e.EntryID, e.From, e.To)
}

func (e *InvalidStateTransitionError) Is(target error) bool { return target == ErrInvariant }

// AlreadyPostedError is returned by post on an entry that is no longer a draft.
type AlreadyPostedError struct {
	EntryID string
	Status  string
}

func (e *AlreadyPostedError) Error() string {
	return fmt.Sprintf("entry %s is already %s", e.EntryID, e.Status)
}

func (e *AlreadyPostedError) Is(target error) bool { return target == ErrInvariant }

// CannotVoidPostedEntryError is returned by void on a posted or reversed entry.
type CannotVoidPostedEntryError struct {
	EntryID string
	Status  string
}

func (e *CannotVoidPostedEntryError) Error() string {
	return fmt.Sprintf("entry %s is %s and must be reversed instead of voided", e.EntryID, e.Status)
}

func (e *CannotVoidPostedEntryError) Is(target error) bool { return target == ErrInvariant }

// PeriodClosedError reports a date that falls in a closed or locked fiscal period.
type PeriodClosedError struct {
	Date     time.Time
	PeriodID string
	Period   string
	Status   string
}

func (e *PeriodClosedError) Error() string {
	return fmt.Sprintf("fiscal period %s covering %s is %s", e.Period, e.Date.Format(time.DateOnly), e.Status)
}

func (e *PeriodClosedError) Is(target error) bool { return target == ErrBusinessRule }

// NoPeriodDefinedError reports a date no fiscal period covers.
type NoPeriodDefinedError struct {
	Date time.Time
}

func (e *NoPeriodDefinedError) Error() string {
	return fmt.Sprintf("no fiscal period defined for %s", e.Date.Format(time.DateOnly))
}

func (e *NoPeriodDefinedError) Is(target error) bool { return target == ErrBusinessRule }

// AlreadyReversedError reports a reversal attempt on an entry that already has one.
type AlreadyReversedError struct {
	EntryID    string
	ReversalID string
}

func (e *AlreadyReversedError) Error() string {
	return fmt.Sprintf("entry %s is already reversed by %s", e.EntryID, e.ReversalID)
}

func (e *AlreadyReversedError) Is(target error) bool { return target == ErrBusinessRule }

// EntryNotPostedError reports a reversal attempt on an entry that is not posted.
type EntryNotPostedError struct {
	EntryID string
	Status  string
}

func (e *EntryNotPostedError) Error() string {
	return fmt.Sprintf("entry %s is %s, only posted entries can be reversed", e.EntryID, e.Status)
}

func (e *EntryNotPostedError) Is(target error) bool { return target == ErrBusinessRule }

// TemplatePausedError is returned when a paused recurring template is run directly.
type TemplatePausedError struct {
	TemplateID string
}

func (e *TemplatePausedError) Error() string {
	return fmt.Sprintf("recurring template %s is paused", e.TemplateID)
}

func (e *TemplatePausedError) Is(target error) bool { return target == ErrBusinessRule }

// LockTimeoutError reports that a bounded lock wait expired.
type LockTimeoutError struct {
	Resource string
	Err      error
}

func (e *LockTimeoutError) Error() string {
	return fmt.Sprintf("timed out waiting for lock on %s", e.Resource)
}

func (e *LockTimeoutError) Is(target error) bool { return target == ErrConcurrency }

func (e *LockTimeoutError) Unwrap() error { return e.Err }

// SerializationError reports that the store kept aborting the transaction.
type SerializationError struct {
	Attempts int
	Err      error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("transaction aborted after %d attempts: %v", e.Attempts, e.Err)
}

func (e *SerializationError) Is(target error) bool { return target == ErrConcurrency }

func (e *SerializationError) Unwrap() error { return e.Err }

// InvariantViolationError marks detected partial state, a bug rather than a caller mistake.
type InvariantViolationError struct {
	EntryID string
	Detail  string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("fatal: entry %s: %s", e.EntryID, e.Detail)
}

func (e *InvariantViolationError) Is(target error) bool { return target == ErrFatal }

// IsFatal reports whether err signals detected partial state.
func IsFatal(err error) bool {
	return errors.Is(err, ErrFatal)
}
