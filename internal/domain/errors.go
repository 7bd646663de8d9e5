package domain

import "errors"

// Sentinel errors shared across engines and repositories.
var (
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrLoanNotFound        = errors.New("loan not found")
	ErrInstallmentNotFound = errors.New("installment not found")
	ErrRuleNotFound        = errors.New("collection rule not found")
)
