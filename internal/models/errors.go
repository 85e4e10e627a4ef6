package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates an unregistered frequency, provider or exported object.
	ErrNotFound = errors.New("not found")

	// ErrConfiguration indicates an unknown or incompatible frequency/provider combination,
	// or a malformed registration.
	ErrConfiguration = errors.New("configuration error")

	// ErrValidation indicates submission data the donor has to correct.
	ErrValidation = errors.New("validation error")
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

type PaymentErrorCode string

const (
	// PaymentSystemError is an infrastructure fault that must alert.
	PaymentSystemError PaymentErrorCode = "SYSTEM_ERROR"
	// PaymentFailure is a gateway decline; shown to the donor only.
	PaymentFailure PaymentErrorCode = "PAYMENT_FAILURE"
)

// PaymentProcessingError is returned by providers when the gateway call failed
// irrecoverably. Status is a machine readable string for downstream routing.
type PaymentProcessingError struct {
	Code   PaymentErrorCode
	Status string
	Err    error
}

func (e *PaymentProcessingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("payment processing %s (%s): %v", e.Code, e.Status, e.Err)
	}

	return fmt.Sprintf("payment processing %s (%s)", e.Code, e.Status)
}

func (e *PaymentProcessingError) Unwrap() error {
	return e.Err
}

func NewSystemError(status string, err error) *PaymentProcessingError {
	return &PaymentProcessingError{Code: PaymentSystemError, Status: status, Err: err}
}

func NewPaymentFailure(status string, err error) *PaymentProcessingError {
	return &PaymentProcessingError{Code: PaymentFailure, Status: status, Err: err}
}
