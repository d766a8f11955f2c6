package services

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	// KindNotFound covers missing targets, failed actor resolution and failed
	// visibility checks. Visibility failures are reported as not-found on
	// purpose so callers cannot probe for hidden or blocked content.
	KindNotFound = ErrorKind(iota)
	KindInvalidArgument
	KindConflict
	KindForbidden
)

type PolicyError struct {
	Kind    ErrorKind
	Message string
}

func (e *PolicyError) Error() string {
	return e.Message
}

func NewNotFound(message string) *PolicyError {
	return &PolicyError{Kind: KindNotFound, Message: message}
}

func NewInvalidArgument(message string) *PolicyError {
	return &PolicyError{Kind: KindInvalidArgument, Message: message}
}

func NewConflict(message string) *PolicyError {
	return &PolicyError{Kind: KindConflict, Message: message}
}

func NewForbidden(message string) *PolicyError {
	return &PolicyError{Kind: KindForbidden, Message: message}
}

func IsKind(err error, kind ErrorKind) bool {
	var policyErr *PolicyError
	if errors.As(err, &policyErr) {
		return policyErr.Kind == kind
	}
	return false
}

func wrapDatabaseError(action string, err error) error {
	return fmt.Errorf("unable to %s: %v", action, err)
}
