package domain

import (
	"errors"
	"fmt"
)

// ValidationError reports a malformed or missing required field, or an
// invalid enum value. Client-facing; the operation has no side effect.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

// ReferenceError reports a dangling foreign key on create or update.
type ReferenceError struct {
	Entity EntityType
	ID     string
	Field  string
}

func (e ReferenceError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s references unknown %s %s", e.Field, e.Entity, e.ID)
	}
	return fmt.Sprintf("unknown %s reference %s", e.Entity, e.ID)
}

// ConflictError reports a delete blocked by existing dependents. The
// operation is fully skipped.
type ConflictError struct {
	Entity EntityType
	ID     string
	Reason string
}

func (e ConflictError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Entity, e.ID, e.Reason)
}

// NotFoundError reports an unknown identifier passed to a keyed operation.
type NotFoundError struct {
	Entity EntityType
	ID     string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// PersistenceError reports a disk I/O failure during commit or a malformed
// snapshot on load/restore. Fatal to the triggering call; the in-memory
// graph is left exactly as it was before the attempted commit.
type PersistenceError struct {
	Op  string
	Err error
}

func (e PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s: %v", e.Op, e.Err)
}

func (e PersistenceError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is a NotFoundError anywhere in its chain.
func IsNotFound(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}

// IsConflict reports whether err is a ConflictError anywhere in its chain.
func IsConflict(err error) bool {
	var c ConflictError
	return errors.As(err, &c)
}

// IsReference reports whether err is a ReferenceError anywhere in its chain.
func IsReference(err error) bool {
	var r ReferenceError
	return errors.As(err, &r)
}

// IsValidation reports whether err is a ValidationError anywhere in its chain.
func IsValidation(err error) bool {
	var v ValidationError
	return errors.As(err, &v)
}
