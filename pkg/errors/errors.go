package errors

import (
	"fmt"
	"strings"
)

// ErrNotFound is returned when a resource does not exist
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrUnauthorized is returned when credentials are missing or wrong
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	return e.Message
}

// ErrValidation lists the request fields that are missing or malformed
type ErrValidation struct {
	Missing []string
	Invalid []string
}

func (e *ErrValidation) Error() string {
	parts := make([]string, 0, 2)
	if len(e.Missing) > 0 {
		parts = append(parts, "Missing required fields: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "Invalid fields: "+strings.Join(e.Invalid, ", "))
	}
	if len(parts) == 0 {
		return "validation failed"
	}
	return strings.Join(parts, "; ")
}

// ErrUpstream is returned when the CRM answers with a failure
type ErrUpstream struct {
	StatusCode int
	Status     string
	Body       map[string]interface{}
}

func (e *ErrUpstream) Error() string {
	return fmt.Sprintf("Failed to create lead: %s", e.Status)
}

// ErrInvalidStateTransition is returned when a wizard step change is not allowed
type ErrInvalidStateTransition struct {
	From interface{}
	To   interface{}
}

func (e *ErrInvalidStateTransition) Error() string {
	return fmt.Sprintf("invalid state transition from %v to %v", e.From, e.To)
}

// ErrInvalidSelection is returned when a wizard option is not offered
type ErrInvalidSelection struct {
	Field string
	Value string
}

func (e *ErrInvalidSelection) Error() string {
	return fmt.Sprintf("invalid %s selection: %q", e.Field, e.Value)
}
