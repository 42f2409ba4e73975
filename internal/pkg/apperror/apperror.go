package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies failures according to who can recover from them.
type Kind int

const (
	KindUnknown Kind = iota
	// KindRead: local byte access failed. Operation aborted, no state mutated.
	KindRead
	// KindAuth: token acquisition failed. Source-dependent operation aborted.
	KindAuth
	// KindCompletion: the fragment stream failed or rejected before completion.
	KindCompletion
	// KindPersistence: durable write failed. In-memory state stays authoritative.
	KindPersistence
	// KindValidation: rejected at the boundary, no partial mutation.
	KindValidation
	// KindNotFound: referenced entity does not exist.
	KindNotFound
)

type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the Kind from an error chain, KindUnknown if absent.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

func IsValidation(err error) bool { return KindOf(err) == KindValidation }
func IsNotFound(err error) bool   { return KindOf(err) == KindNotFound }
