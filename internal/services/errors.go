// internal/services/errors.go
package services

import (
	"errors"
	"fmt"

	"github.com/javajoker/vms-backend/internal/i18n"
)

type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindNotFound
	KindValidation
	KindConflict
	KindInvalidCredentials
	KindUnauthenticated
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindUnauthenticated:
		return "unauthenticated"
	default:
		return "internal"
	}
}

// AppError is a classified service failure. MessageKey is an i18n key and is
// rendered in the caller's language by the handler layer.
type AppError struct {
	Kind       ErrorKind
	MessageKey string
	Details    interface{}
	Err        error
}

func (e *AppError) Error() string {
	msg := i18n.T(i18n.DefaultLang, e.MessageKey)
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewNotFoundError(messageKey string) *AppError {
	return &AppError{Kind: KindNotFound, MessageKey: messageKey}
}

func NewValidationError(messageKey string, details interface{}) *AppError {
	return &AppError{Kind: KindValidation, MessageKey: messageKey, Details: details}
}

func NewConflictError(messageKey string, err error) *AppError {
	return &AppError{Kind: KindConflict, MessageKey: messageKey, Err: err}
}

func NewInvalidCredentialsError() *AppError {
	return &AppError{Kind: KindInvalidCredentials, MessageKey: i18n.KeyAuthInvalidCredentials}
}

func NewUnauthenticatedError(messageKey string, err error) *AppError {
	return &AppError{Kind: KindUnauthenticated, MessageKey: messageKey, Err: err}
}

var (
	ErrVendorNotFound        = NewNotFoundError(i18n.KeyVendorNotFound)
	ErrPurchaseOrderNotFound = NewNotFoundError(i18n.KeyPONotFound)
	ErrRatingNotAllowed      = NewValidationError(i18n.KeyPORatingNotAllowed, nil)
	ErrOrderNotIssued        = NewValidationError(i18n.KeyPONotIssued, nil)
)

// KindOf classifies err; anything that is not an *AppError is internal.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}
