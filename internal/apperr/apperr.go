// Package apperr defines the error taxonomy shared by the storage, service
// and HTTP layers.
//
// Every failure that reaches a caller is an *Error carrying a Kind. The
// storage layer produces NotFound, Conflict and ReferentialIntegrity errors
// from driver failures, services add Validation and BusinessRule errors, and
// the HTTP layer maps each Kind to a status code.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindConflict
	KindReferentialIntegrity
	KindBusinessRule
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "VALIDATION_ERROR"
	case KindNotFound:
		return "NOT_FOUND"
	case KindConflict:
		return "CONFLICT"
	case KindReferentialIntegrity:
		return "REFERENTIAL_INTEGRITY"
	case KindBusinessRule:
		return "BUSINESS_RULE"
	case KindInternal:
		return "INTERNAL"
	}
	return "UNKNOWN"
}

// Code is the machine-readable reason attached to a field error.
type Code string

const (
	CodeRequired                   Code = "REQUIRED"
	CodeInvalidFormat              Code = "INVALID_FORMAT"
	CodeInvalidField               Code = "INVALID_FIELD"
	CodeInvalidDate                Code = "INVALID_DATE"
	CodeDateInPast                 Code = "DATE_IN_PAST"
	CodeNotFound                   Code = "NOT_FOUND"
	CodeAlreadyExists              Code = "ALREADY_EXISTS"
	CodeStillReferenced            Code = "STILL_REFERENCED"
	CodeInvalidReference           Code = "INVALID_REFERENCE"
	CodeNoCopiesAvailable          Code = "NO_COPIES_AVAILABLE"
	CodeQuantityBelowActiveBorrows Code = "QUANTITY_BELOW_ACTIVE_BORROWS"
	CodeAlreadyReturned            Code = "ALREADY_RETURNED"
	CodeInvalidState               Code = "INVALID_STATE"
	CodeInvalidDateFilter          Code = "INVALID_DATE_FILTER"
	CodeMissingQuery               Code = "MISSING_QUERY"
	CodeInternal                   Code = "INTERNAL"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    Code   `json:"code,omitempty"`
}

type Error struct {
	Kind   Kind
	Fields []FieldError
	Err    error // underlying cause, never shown to clients
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	msg := e.Kind.String()
	if len(parts) > 0 {
		msg += ": " + strings.Join(parts, "; ")
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HasCode reports whether any field error carries the code.
func (e *Error) HasCode(code Code) bool {
	for _, f := range e.Fields {
		if f.Code == code {
			return true
		}
	}
	return false
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf returns the kind of err, KindInternal for foreign errors.
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return KindInternal
}

// IsCode reports whether err is an *Error carrying the code.
func IsCode(err error, code Code) bool {
	appErr, ok := As(err)
	return ok && appErr.HasCode(code)
}

func Validation(fields ...FieldError) *Error {
	return &Error{Kind: KindValidation, Fields: fields}
}

// NotFound reports a missing entity, e.g. NotFound("Book").
func NotFound(entity string) *Error {
	return &Error{Kind: KindNotFound, Fields: []FieldError{{
		Field:   strings.ToLower(entity),
		Message: entity + " not found",
		Code:    CodeNotFound,
	}}}
}

func Conflict(field string, cause error) *Error {
	return &Error{Kind: KindConflict, Err: cause, Fields: []FieldError{{
		Field:   field,
		Message: "This value already exists for field: " + field,
		Code:    CodeAlreadyExists,
	}}}
}

// StillReferenced blocks deletion of an entity other rows point at.
func StillReferenced(entity, field string, cause error) *Error {
	return &Error{Kind: KindReferentialIntegrity, Err: cause, Fields: []FieldError{{
		Field:   field,
		Message: fmt.Sprintf("Cannot delete %s. It is still referenced by other records (field: %s).", entity, field),
		Code:    CodeStillReferenced,
	}}}
}

// InvalidReference reports a write pointing at a row that does not exist.
func InvalidReference(field string, cause error) *Error {
	return &Error{Kind: KindReferentialIntegrity, Err: cause, Fields: []FieldError{{
		Field:   field,
		Message: fmt.Sprintf("Invalid reference: The related record for field '%s' does not exist.", field),
		Code:    CodeInvalidReference,
	}}}
}

func BusinessRule(code Code, field, message string) *Error {
	return &Error{Kind: KindBusinessRule, Fields: []FieldError{{Field: field, Message: message, Code: code}}}
}

// Internal wraps an unexpected failure. The message shown to clients is
// generic; cause is kept for logging.
func Internal(message string, cause error) *Error {
	return &Error{Kind: KindInternal, Err: cause, Fields: []FieldError{{
		Field:   "server",
		Message: message,
		Code:    CodeInternal,
	}}}
}
