package domain

import (
	"errors"
	"fmt"
)

// NotFoundError represents a missing resource.
type NotFoundError struct {
	Resource string
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is enables errors.Is matching on NotFoundError.
func (e NotFoundError) Is(target error) bool {
	_, ok := target.(NotFoundError)
	if ok {
		return true
	}
	_, ok = target.(*NotFoundError)
	return ok
}

// ErrNotFound is the sentinel error for missing resources.
var ErrNotFound = NotFoundError{}

// ErrCancelled indicates a user-initiated abort. No document mutations were
// committed; any uploaded objects were queued for best-effort cleanup.
var ErrCancelled = errors.New("operation cancelled")

// ErrDenialNotesRequired indicates a denial with empty notes was rejected at
// the core boundary.
var ErrDenialNotesRequired = errors.New("denial notes required when denying a proof")

// ErrPasswordMismatch indicates gallery password verification failed.
var ErrPasswordMismatch = errors.New("gallery password mismatch")

// VersionConflictError indicates a proof's stored version no longer matches
// the snapshot a replacement was built from, meaning a concurrent replacement
// won. The whole batch is rolled back.
type VersionConflictError struct {
	ProofID  string
	Expected int
	Actual   int
}

func (e VersionConflictError) Error() string {
	return fmt.Sprintf("version conflict on proof %s: expected v%d, found v%d",
		e.ProofID, e.Expected, e.Actual)
}

// Is enables errors.Is matching on VersionConflictError.
func (e VersionConflictError) Is(target error) bool {
	_, ok := target.(VersionConflictError)
	if ok {
		return true
	}
	_, ok = target.(*VersionConflictError)
	return ok
}

// ReplacementError carries the proof whose upload failed and aborted a
// replacement batch. Replacements are all-or-nothing, unlike bulk uploads.
type ReplacementError struct {
	ProofID string
	Err     error
}

func (e ReplacementError) Error() string {
	return fmt.Sprintf("replacement failed for proof %s: %v", e.ProofID, e.Err)
}

func (e ReplacementError) Unwrap() error {
	return e.Err
}
