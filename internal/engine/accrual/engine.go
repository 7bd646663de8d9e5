// Package accrual computes the amount owed on an installment as of a date,
// including the overdue penalty components of a rate profile.
//
// The four penalty components (fixed fee, daily, monthly, yearly late
// interest) are strictly additive over the original installment amount.
// Nothing compounds: each component is computed against the installment
// amount alone, which keeps the penalty associative and auditable.
package accrual

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tubaraaoemprestimo/tubaraoemprestimo-sub000/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// AmountDue returns the amount owed on an installment as of the given date.
// PAID installments owe nothing; installments at or before their due date owe
// exactly their amount; overdue installments owe amount plus penalty.
func AmountDue(inst domain.Installment, profile domain.RateProfile, asOf time.Time) decimal.Decimal {
	if inst.Status == domain.InstallmentStatusPaid {
		return decimal.Zero
	}
	daysLate := domain.DaysBetween(inst.DueDate, asOf)
	if daysLate <= 0 {
		return inst.Amount
	}
	return inst.Amount.Add(Penalty(inst.Amount, profile, daysLate))
}

// Penalty is the total overdue penalty for an installment amount after
// daysLate days. daysLate must be positive.
func Penalty(amount decimal.Decimal, profile domain.RateProfile, daysLate int) decimal.Decimal {
	penalty := profile.LateFixedFee
	penalty = penalty.Add(component(amount, profile.LateInterestDaily, daysLate))
	penalty = penalty.Add(component(amount, profile.LateInterestMonthly, daysLate/30))
	penalty = penalty.Add(component(amount, profile.LateInterestYearly, daysLate/365))
	return penalty
}

// component resolves one late-interest component. A FIXED component charges
// its value once per overdue installment; a PERCENT component charges
// amount*value/100 per elapsed period. Components with no elapsed period
// charge nothing.
func component(amount decimal.Decimal, li domain.LateInterest, periods int) decimal.Decimal {
	if periods <= 0 || li.Value.IsZero() {
		return decimal.Zero
	}
	if li.Type == domain.LateInterestFixed {
		return li.Value
	}
	return amount.Mul(li.Value).Div(hundred).Mul(decimal.NewFromInt(int64(periods)))
}

// RemainingDebt sums AmountDue over every non-PAID installment of a loan.
// This is the pre-discount figure a renegotiation starts from.
func RemainingDebt(installments []domain.Installment, profile domain.RateProfile, asOf time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, inst := range installments {
		if inst.Status == domain.InstallmentStatusPaid {
			continue
		}
		total = total.Add(AmountDue(inst, profile, asOf))
	}
	return total
}
