package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProposalStatus is the lifecycle state of a renegotiation proposal. Accepts
// and rejects are externally driven; EXPIRED is derived at read time.
type ProposalStatus string

const (
	ProposalStatusPending  ProposalStatus = "PENDING"
	ProposalStatusAccepted ProposalStatus = "ACCEPTED"
	ProposalStatusRejected ProposalStatus = "REJECTED"
	ProposalStatusExpired  ProposalStatus = "EXPIRED"
)

// ProposalTerms are the financial terms of a discounted payoff plan.
type ProposalTerms struct {
	DiscountPercent     decimal.Decimal
	Discount            decimal.Decimal
	NewAmount           decimal.Decimal
	NewInstallments     int
	NewInstallmentValue decimal.Decimal
}

// RenegotiationProposal is a simulated alternative payoff plan. Simulations
// are ephemeral; a proposal only reaches storage through an explicit save.
type RenegotiationProposal struct {
	ID              string
	CustomerID      string
	LoanID          string
	RemainingAmount decimal.Decimal
	DaysOverdue     int
	Proposal        ProposalTerms
	Status          ProposalStatus
	ExpiresAt       time.Time
	CreatedAt       time.Time
}

// EffectiveStatus resolves the derived EXPIRED state: a PENDING proposal past
// its expiry reads as EXPIRED.
func (p RenegotiationProposal) EffectiveStatus(now time.Time) ProposalStatus {
	if p.Status == ProposalStatusPending && now.After(p.ExpiresAt) {
		return ProposalStatusExpired
	}
	return p.Status
}
