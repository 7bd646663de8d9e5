// Package domain holds the core types of the microcredit financial and
// collection engine. Everything here is plain data: statuses that can be
// derived from dates (LATE installments, EXPIRED proposals) are computed at
// read time and never persisted.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer is a borrower. CreatedAt marks the start of the relationship and
// feeds the behavioral score.
type Customer struct {
	ID        string
	FirstName string
	LastName  string
	Phone     string
	Email     string
	CreatedAt time.Time
}

// LoanStatus is the lifecycle state of a loan.
type LoanStatus string

const (
	LoanStatusPending   LoanStatus = "PENDING"
	LoanStatusApproved  LoanStatus = "APPROVED"
	LoanStatusPaidOff   LoanStatus = "PAID_OFF"
	LoanStatusDefaulted LoanStatus = "DEFAULTED"
)

// Loan is an approved microcredit contract. Principal and StartDate are
// immutable after approval; RemainingAmount is reduced on each installment
// payment. CustomerID is an explicit foreign key.
type Loan struct {
	ID               string
	CustomerID       string
	Principal        decimal.Decimal
	InstallmentCount int
	StartDate        time.Time
	Status           LoanStatus
	RemainingAmount  decimal.Decimal
}

// InstallmentStatus is the state of a single installment. LATE is derived,
// never stored: an OPEN installment past its due date reads as LATE.
type InstallmentStatus string

const (
	InstallmentStatusOpen InstallmentStatus = "OPEN"
	InstallmentStatusPaid InstallmentStatus = "PAID"
	InstallmentStatusLate InstallmentStatus = "LATE"
)

// Installment is one slice of a loan's payment plan, created in a batch when
// the loan is approved.
type Installment struct {
	ID             string
	LoanID         string
	SequenceIndex  int
	DueDate        time.Time
	Amount         decimal.Decimal
	Status         InstallmentStatus
	PaidAt         *time.Time
	ProofReference string
}

// EffectiveStatus resolves the derived LATE state as of the given date.
func (i Installment) EffectiveStatus(asOf time.Time) InstallmentStatus {
	if i.Status == InstallmentStatusPaid {
		return InstallmentStatusPaid
	}
	if DaysBetween(i.DueDate, asOf) > 0 {
		return InstallmentStatusLate
	}
	return InstallmentStatusOpen
}

// LateInterestType selects how a late-interest component is applied.
type LateInterestType string

const (
	LateInterestPercent LateInterestType = "PERCENT"
	LateInterestFixed   LateInterestType = "FIXED"
)

// LateInterest is one penalty component of a rate profile.
type LateInterest struct {
	Value decimal.Decimal
	Type  LateInterestType
}

// RateProfile is the set of interest and fee parameters used for scheduling
// and accrual. It exists at two scopes: a global admin-editable singleton and
// at most one active per-customer override. Callers always receive an
// immutable snapshot; computations never read shared mutable state.
type RateProfile struct {
	MonthlyInterestRate decimal.Decimal
	LateFixedFee        decimal.Decimal
	LateInterestDaily   LateInterest
	LateInterestMonthly LateInterest
	LateInterestYearly  LateInterest
	// Active only matters for customer overrides. An inactive override is
	// ignored and the global profile applies.
	Active bool
}

// Channel is the delivery channel of a collection rule.
type Channel string

const (
	ChannelWhatsApp Channel = "WHATSAPP"
	ChannelEmail    Channel = "EMAIL"
	ChannelSMS      Channel = "SMS"
)

// CollectionRule is one step of the collection ladder ("régua de cobrança"):
// a signed day offset relative to an installment's due date, a channel and a
// message template. Admin-managed, read-only to the engine.
type CollectionRule struct {
	ID              string
	DaysOffset      int
	Channel         Channel
	MessageTemplate string
	Active          bool
}

// ActionStatus tracks a collection action through dispatch.
type ActionStatus string

const (
	ActionStatusPending ActionStatus = "PENDING"
	ActionStatusSent    ActionStatus = "SENT"
	ActionStatusFailed  ActionStatus = "FAILED"
)

// CollectionAction is an ephemeral dispatch instruction produced for one
// (installment, matching rule) pair on a given day.
type CollectionAction struct {
	ID              string
	CustomerID      string
	LoanID          string
	InstallmentID   string
	RuleID          string
	Channel         Channel
	Recipient       string
	DaysOffset      int
	RenderedMessage string
	Status          ActionStatus
	ScheduledFor    time.Time
}

// DaysBetween returns the whole calendar days from a to b, ignoring the time
// of day. Positive means b is after a.
func DaysBetween(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bd.Sub(ad).Hours() / 24)
}
