package args

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrHelp is returned when -h or --help is seen. It is not a failure:
	// callers print usage and exit.
	ErrHelp = errors.New("args: help requested")
	// ErrUnknownOption matches UnknownOptionError.
	ErrUnknownOption = errors.New("args: unknown option")
	// ErrMissingValue matches MissingValueError.
	ErrMissingValue = errors.New("args: missing value")
	// ErrCoercion matches CoercionError.
	ErrCoercion = errors.New("args: invalid value")
	// ErrCapacity matches CapacityError.
	ErrCapacity = errors.New("args: capacity exceeded")
	// ErrNameCollision matches CollisionError.
	ErrNameCollision = errors.New("args: option name collision")
)

// UnknownOptionError reports a dash-prefixed token that names no option.
type UnknownOptionError struct {
	Token string
}

func (e *UnknownOptionError) Error() string {
	return fmt.Sprintf("unknown option %q", e.Token)
}

func (e *UnknownOptionError) Is(target error) bool {
	return target == ErrUnknownOption
}

// MissingValueError reports a value-taking option at the end of the input.
type MissingValueError struct {
	Field  string
	Option string
}

func (e *MissingValueError) Error() string {
	return fmt.Sprintf("option %s requires a value", e.Option)
}

func (e *MissingValueError) Is(target error) bool {
	return target == ErrMissingValue
}

// CoercionError reports text that could not be converted to the field's type.
type CoercionError struct {
	Field  string
	Text   string
	Reason string
	Err    error
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("invalid value %q for --%s: %s", e.Text, e.Field, e.Reason)
}

func (e *CoercionError) Unwrap() error {
	return e.Err
}

func (e *CoercionError) Is(target error) bool {
	return target == ErrCoercion
}

// CapacityError reports one occurrence too many for a Multi field.
type CapacityError struct {
	Field    string
	Capacity int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("option --%s accepts at most %d values", e.Field, e.Capacity)
}

func (e *CapacityError) Is(target error) bool {
	return target == ErrCapacity
}

// CollisionError reports two fields deriving the same option name. Name is
// the colliding form, e.g. "--port" or "-p".
type CollisionError struct {
	Name   string
	FieldA string
	FieldB string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("option %s declared by both %s and %s", e.Name, e.FieldA, e.FieldB)
}

func (e *CollisionError) Is(target error) bool {
	return target == ErrNameCollision
}

func quoteTags(tags []string) string {
	quoted := make([]string, len(tags))
	for i, tag := range tags {
		quoted[i] = fmt.Sprintf("%q", tag)
	}
	return strings.Join(quoted, ", ")
}
