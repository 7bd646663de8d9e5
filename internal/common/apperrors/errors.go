// Package apperrors provides the structured error taxonomy of the engine:
// validation errors fail fast and never partially mutate state, gateway
// errors are counted per action and never abort a batch, and data
// inconsistencies cause the offending record to be skipped.
package apperrors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode identifies a standardized internal error class.
type ErrorCode string

const (
	ErrCodeInvalidInput         ErrorCode = "INVALID_INPUT"
	ErrCodeCustomerNotFound     ErrorCode = "CUSTOMER_NOT_FOUND"
	ErrCodeLoanNotFound         ErrorCode = "LOAN_NOT_FOUND"
	ErrCodeTemplateInvalid      ErrorCode = "TEMPLATE_INVALID"
	ErrCodeGatewaySendFailed    ErrorCode = "GATEWAY_SEND_FAILED"
	ErrCodeDataInconsistency    ErrorCode = "DATA_INCONSISTENCY"
	ErrCodeQueryExecutionFailed ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeLedgerUnavailable    ErrorCode = "LEDGER_UNAVAILABLE"
)

// StandardError is a structured application error.
type StandardError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Retryable bool      `json:"retryable"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidInputError creates a non-retryable validation error.
func NewInvalidInputError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidInput,
		Message:   "Input validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCustomerNotFoundError creates a non-retryable lookup error.
func NewCustomerNotFoundError(customerID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCustomerNotFound,
		Message:   "Customer not found",
		Details:   fmt.Sprintf("customerId: %s", customerID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewLoanNotFoundError creates a non-retryable lookup error.
func NewLoanNotFoundError(loanID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeLoanNotFound,
		Message:   "Loan not found",
		Details:   fmt.Sprintf("loanId: %s", loanID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewTemplateInvalidError creates a non-retryable rule-template error.
func NewTemplateInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeTemplateInvalid,
		Message:   "Message template validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewGatewaySendFailedError creates a retryable messaging-gateway error.
// Retryable here means the next scheduled run may succeed; the current batch
// only counts the failure.
func NewGatewaySendFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeGatewaySendFailed,
		Message:   "Messaging gateway send failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDataInconsistencyError creates an error for records referencing missing
// loans or customers. The batch skips the record and continues.
func NewDataInconsistencyError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDataInconsistency,
		Message:   "Inconsistent record skipped",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryExecutionFailedError creates a retryable persistence error.
func NewQueryExecutionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Database query failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// IsValidation reports whether err is a fail-fast validation error.
func IsValidation(err error) bool {
	var se *StandardError
	if errors.As(err, &se) {
		return se.Code == ErrCodeInvalidInput || se.Code == ErrCodeTemplateInvalid
	}
	return false
}

// CodeOf extracts the error code, or empty when err is not a StandardError.
func CodeOf(err error) ErrorCode {
	var se *StandardError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}
