// Package renegotiation simulates discounted payoff plans. Simulation is
// side-effect free; a proposal only reaches storage through the repository's
// explicit save, so operators can iterate on terms freely.
package renegotiation

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tubaraaoemprestimo/tubaraoemprestimo-sub000/internal/common/apperrors"
	"github.com/tubaraaoemprestimo/tubaraoemprestimo-sub000/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// SimulateRequest carries the parameters of a payoff simulation.
// RemainingAmount is the pre-discount debt, normally AccrualEngine's
// RemainingDebt output. Installments are the loan's current installments and
// only feed the days-overdue figure.
type SimulateRequest struct {
	CustomerID          string `validate:"required"`
	LoanID              string `validate:"required"`
	RemainingAmount     decimal.Decimal
	DiscountPercent     decimal.Decimal
	NewInstallmentCount int `validate:"required,gte=1"`
	NewMonthlyRate      decimal.Decimal
	Installments        []domain.Installment
	Now                 time.Time
}

// Calculator builds renegotiation proposals.
type Calculator struct {
	validate    *validator.Validate
	proposalTTL time.Duration
}

func NewCalculator(proposalTTL time.Duration) *Calculator {
	return &Calculator{
		validate:    validator.New(),
		proposalTTL: proposalTTL,
	}
}

// Simulate produces a discounted payoff proposal:
//
//	discount  = remaining * discountPercent/100
//	newAmount = remaining - discount
//	newTotal  = newAmount * (1 + newRate/100)   (same rule as the schedule builder)
//	newInstallmentValue = newTotal / newInstallmentCount
func (c *Calculator) Simulate(req SimulateRequest) (domain.RenegotiationProposal, error) {
	if err := c.validate.Struct(req); err != nil {
		return domain.RenegotiationProposal{}, apperrors.NewInvalidInputError(err.Error())
	}
	if !req.RemainingAmount.IsPositive() {
		return domain.RenegotiationProposal{}, apperrors.NewInvalidInputError("remaining amount must be greater than zero")
	}
	if req.DiscountPercent.IsNegative() || req.DiscountPercent.GreaterThan(hundred) {
		return domain.RenegotiationProposal{}, apperrors.NewInvalidInputError("discount percent must be between 0 and 100")
	}
	if req.NewMonthlyRate.IsNegative() {
		return domain.RenegotiationProposal{}, apperrors.NewInvalidInputError("new monthly rate must not be negative")
	}

	now := req.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	discount := req.RemainingAmount.Mul(req.DiscountPercent).Div(hundred).Round(2)
	newAmount := req.RemainingAmount.Sub(discount)
	newTotal := newAmount.Mul(decimal.NewFromInt(1).Add(req.NewMonthlyRate.Div(hundred))).Round(2)
	perInstallment := newTotal.Div(decimal.NewFromInt(int64(req.NewInstallmentCount))).Round(2)

	return domain.RenegotiationProposal{
		ID:              uuid.New().String(),
		CustomerID:      req.CustomerID,
		LoanID:          req.LoanID,
		RemainingAmount: req.RemainingAmount,
		DaysOverdue:     daysOverdue(req.Installments, now),
		Proposal: domain.ProposalTerms{
			DiscountPercent:     req.DiscountPercent,
			Discount:            discount,
			NewAmount:           newAmount,
			NewInstallments:     req.NewInstallmentCount,
			NewInstallmentValue: perInstallment,
		},
		Status:    domain.ProposalStatusPending,
		ExpiresAt: now.Add(c.proposalTTL),
		CreatedAt: now,
	}, nil
}

// daysOverdue is measured from the earliest installment that is OPEN and past
// due. Zero when nothing is overdue.
func daysOverdue(installments []domain.Installment, now time.Time) int {
	days := 0
	for _, inst := range installments {
		if inst.Status == domain.InstallmentStatusPaid {
			continue
		}
		if late := domain.DaysBetween(inst.DueDate, now); late > days {
			days = late
		}
	}
	return days
}
