package errs

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError aggregates every field-level rule violation found in
// one entity. It is raised before any persistence call and is never
// partially applied.
type ValidationError struct {
	Entity     string
	Violations []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s validation failed: %s", e.Entity, strings.Join(e.Violations, "; "))
}

// NewValidation returns a ValidationError, or nil when no violations
// were collected.
func NewValidation(entity string, violations []string) error {
	if len(violations) == 0 {
		return nil
	}
	return &ValidationError{Entity: entity, Violations: violations}
}

// NotFoundError means the id was syntactically valid but no record exists.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func NotFound(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// InvalidIDError means the id string is not a well-formed ObjectID.
type InvalidIDError struct {
	Value string
}

func (e *InvalidIDError) Error() string {
	return fmt.Sprintf("invalid id %q", e.Value)
}

func InvalidID(value string) error {
	return &InvalidIDError{Value: value}
}

// PreconditionError means a business-rule guard rejected the operation:
// inactive client or plan, duplicate active contract, a contract in the
// wrong state for a transition, or dependent contracts blocking a delete.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return e.Reason
}

func Precondition(format string, args ...any) error {
	return &PreconditionError{Reason: fmt.Sprintf(format, args...)}
}

// ConflictError means a uniqueness rule was violated, detected either by
// the service-level check or surfaced from a unique index.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return e.Reason
}

func Conflict(format string, args ...any) error {
	return &ConflictError{Reason: fmt.Sprintf(format, args...)}
}

// --- errors.As helpers for callers that only need a yes/no answer ---

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsInvalidID(err error) bool {
	var target *InvalidIDError
	return errors.As(err, &target)
}

func IsPrecondition(err error) bool {
	var target *PreconditionError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}
