// Package schedule turns an approved loan into its deterministic installment
// plan.
package schedule

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tubaraaoemprestimo/tubaraoemprestimo-sub000/internal/common/apperrors"
	"github.com/tubaraaoemprestimo/tubaraoemprestimo-sub000/internal/domain"
)

// Installments are due every 30 calendar days after the start date. This is a
// fixed cadence, not calendar-month aware.
const cadenceDays = 30

var hundred = decimal.NewFromInt(100)

// BuildRequest carries the parameters of a schedule build.
type BuildRequest struct {
	LoanID           string          `validate:"required"`
	Principal        decimal.Decimal `validate:"-"`
	InstallmentCount int             `validate:"required,gte=1"`
	MonthlyRate      decimal.Decimal `validate:"-"`
	StartDate        time.Time       `validate:"required"`
}

// Builder produces installment plans.
type Builder struct {
	validate *validator.Validate
}

func NewBuilder() *Builder {
	return &Builder{validate: validator.New()}
}

// Build produces the ordered installment plan for a loan.
//
// totalAmount = principal * (1 + monthlyRate/100), rounded to cents.
// Every installment gets totalAmount/count rounded to cents, except the last,
// which absorbs the rounding remainder so the amounts sum to totalAmount
// exactly (remainder-to-last policy).
func (b *Builder) Build(req BuildRequest) ([]domain.Installment, error) {
	if err := b.validate.Struct(req); err != nil {
		return nil, apperrors.NewInvalidInputError(err.Error())
	}
	if !req.Principal.IsPositive() {
		return nil, apperrors.NewInvalidInputError("principal must be greater than zero")
	}
	if req.MonthlyRate.IsNegative() {
		return nil, apperrors.NewInvalidInputError("monthly rate must not be negative")
	}

	n := req.InstallmentCount
	total := TotalAmount(req.Principal, req.MonthlyRate)
	per := total.Div(decimal.NewFromInt(int64(n))).Round(2)
	last := total.Sub(per.Mul(decimal.NewFromInt(int64(n - 1))))

	installments := make([]domain.Installment, n)
	for k := 1; k <= n; k++ {
		amount := per
		if k == n {
			amount = last
		}
		installments[k-1] = domain.Installment{
			ID:            uuid.New().String(),
			LoanID:        req.LoanID,
			SequenceIndex: k,
			DueDate:       req.StartDate.AddDate(0, 0, cadenceDays*k),
			Amount:        amount,
			Status:        domain.InstallmentStatusOpen,
		}
	}

	return installments, nil
}

// TotalAmount is the financed total: principal plus the flat monthly-rate
// interest, rounded to cents.
func TotalAmount(principal, monthlyRate decimal.Decimal) decimal.Decimal {
	return principal.Mul(decimal.NewFromInt(1).Add(monthlyRate.Div(hundred))).Round(2)
}

// Describe summarizes a plan for logs and CLI output.
func Describe(installments []domain.Installment) string {
	if len(installments) == 0 {
		return "empty schedule"
	}
	total := decimal.Zero
	for _, inst := range installments {
		total = total.Add(inst.Amount)
	}
	return fmt.Sprintf("%d installments of ~%s, total %s, first due %s",
		len(installments),
		installments[0].Amount.StringFixed(2),
		total.StringFixed(2),
		installments[0].DueDate.Format("2006-01-02"),
	)
}
