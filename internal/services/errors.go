package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ArowuTest/toolsau-entries-backend/internal/repositories"
)

var (
	// ErrNotFound is returned when a referenced user, draw or referral does not exist.
	ErrNotFound = repositories.ErrNotFound
	// ErrDrawClosed is returned when entries are added to a draw that no longer accepts them.
	ErrDrawClosed = errors.New("draw is not accepting entries")
	// ErrInvalidDrawState is returned when a lifecycle transition is not allowed.
	ErrInvalidDrawState = errors.New("invalid draw state")
	// ErrAlreadyConverted is returned when a referral was already converted.
	ErrAlreadyConverted = errors.New("referral already converted")
	// ErrNoActiveDraw is returned when a grant needs the active major draw and none exists.
	ErrNoActiveDraw = errors.New("no active major draw")
)

// notFoundf wraps ErrNotFound with the missing entity.
func notFoundf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
}

// FieldIssue is one failing field in a request payload.
type FieldIssue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationError lists every failing field of a payload.
type ValidationError struct {
	Issues []FieldIssue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, i := range e.Issues {
		parts = append(parts, i.Path+": "+i.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// FeatureDisabledError is returned when a paused feature is used.
type FeatureDisabledError struct {
	Feature string
	Message string
}

func (e *FeatureDisabledError) Error() string {
	return e.Feature + " disabled: " + e.Message
}

// TransactionAbortedError wraps the error that rolled back a transaction.
type TransactionAbortedError struct {
	Err error
}

func (e *TransactionAbortedError) Error() string {
	return "transaction aborted: " + e.Err.Error()
}

func (e *TransactionAbortedError) Unwrap() error {
	return e.Err
}
