// Package score derives a behavioral credit score from a customer's loan and
// installment history. The calculation is a pure function of the snapshot
// passed in plus the as-of date; there is no hidden state and no incremental
// patching.
package score

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tubaraaoemprestimo/tubaraoemprestimo-sub000/internal/common/config"
	"github.com/tubaraaoemprestimo/tubaraoemprestimo-sub000/internal/common/metrics"
	"github.com/tubaraaoemprestimo/tubaraoemprestimo-sub000/internal/domain"
)

const baseScore = 500

// Late-severity tiers, in days past due.
const (
	lateTier1Days = 7
	lateTier2Days = 30
)

// Weights are the tunable parameters of the score.
type Weights struct {
	OnTimePoints               int
	LateTier1Points            int // up to 7 days late
	LateTier2Points            int // up to 30 days late
	LateTier3Points            int // more than 30 days late
	RelationshipPointsPerMonth int
	RelationshipCapMonths      int
	DefaultPenalty             int
	BaseMultiplier             decimal.Decimal
	MinSuggestedLimit          decimal.Decimal
	MaxSuggestedLimit          decimal.Decimal
}

// DefaultWeights mirror the configuration defaults.
func DefaultWeights() Weights {
	return Weights{
		OnTimePoints:               15,
		LateTier1Points:            10,
		LateTier2Points:            25,
		LateTier3Points:            40,
		RelationshipPointsPerMonth: 2,
		RelationshipCapMonths:      60,
		DefaultPenalty:             150,
		BaseMultiplier:             decimal.NewFromInt(2),
		MinSuggestedLimit:          decimal.NewFromInt(100),
		MaxSuggestedLimit:          decimal.NewFromInt(20000),
	}
}

// WeightsFromConfig builds Weights from the score configuration section.
func WeightsFromConfig(cfg config.ScoreConfig) Weights {
	return Weights{
		OnTimePoints:               cfg.OnTimePoints,
		LateTier1Points:            cfg.LateTier1Points,
		LateTier2Points:            cfg.LateTier2Points,
		LateTier3Points:            cfg.LateTier3Points,
		RelationshipPointsPerMonth: cfg.RelationshipPointsPerMonth,
		RelationshipCapMonths:      cfg.RelationshipCapMonths,
		DefaultPenalty:             cfg.DefaultPenalty,
		BaseMultiplier:             decimal.NewFromFloat(cfg.BaseMultiplier),
		MinSuggestedLimit:          decimal.NewFromFloat(cfg.MinSuggestedLimit),
		MaxSuggestedLimit:          decimal.NewFromFloat(cfg.MaxSuggestedLimit),
	}
}

// Engine calculates client scores.
type Engine struct {
	weights Weights
}

func NewEngine(w Weights) *Engine {
	return &Engine{weights: w}
}

// Calculate aggregates the customer's history into a score in [0,1000], a
// risk level and a suggested credit limit. installmentsByLoan maps loan id to
// that loan's installments.
func (e *Engine) Calculate(customer domain.Customer, loans []domain.Loan, installmentsByLoan map[string][]domain.Installment, asOf time.Time) domain.ClientScore {
	w := e.weights
	score := baseScore
	factors := domain.ScoreFactors{}
	defaulted := false

	for _, loan := range loans {
		if loan.Status == domain.LoanStatusDefaulted {
			defaulted = true
		}
		for _, inst := range installmentsByLoan[loan.ID] {
			switch {
			case inst.Status == domain.InstallmentStatusPaid:
				factors.PaymentHistoryCount++
				daysLate := 0
				if inst.PaidAt != nil {
					daysLate = domain.DaysBetween(inst.DueDate, *inst.PaidAt)
				}
				if daysLate <= 0 {
					factors.OnTimePayments++
					score += w.OnTimePoints
				} else {
					factors.LatePayments++
					score -= latePenalty(w, daysLate)
				}
			case inst.EffectiveStatus(asOf) == domain.InstallmentStatusLate:
				factors.LatePayments++
				score -= latePenalty(w, domain.DaysBetween(inst.DueDate, asOf))
			}
		}
	}

	months := relationshipMonths(customer.CreatedAt, asOf)
	factors.RelationshipMonths = months
	if months > w.RelationshipCapMonths {
		months = w.RelationshipCapMonths
	}
	score += months * w.RelationshipPointsPerMonth

	if defaulted {
		score -= w.DefaultPenalty
	}

	if score < 0 {
		score = 0
	}
	if score > 1000 {
		score = 1000
	}

	metrics.ScoreCalculations.Inc()

	return domain.ClientScore{
		CustomerID:     customer.ID,
		Score:          score,
		Level:          domain.LevelForScore(score),
		Factors:        factors,
		SuggestedLimit: e.suggestedLimit(score, loans),
		CalculatedAt:   asOf,
	}
}

func latePenalty(w Weights, daysLate int) int {
	switch {
	case daysLate <= lateTier1Days:
		return w.LateTier1Points
	case daysLate <= lateTier2Days:
		return w.LateTier2Points
	default:
		return w.LateTier3Points
	}
}

// suggestedLimit = baseMultiplier * score/1000 * average historical loan
// amount, clamped to the configured bounds. With no history the floor applies.
func (e *Engine) suggestedLimit(score int, loans []domain.Loan) decimal.Decimal {
	w := e.weights
	if len(loans) == 0 {
		return w.MinSuggestedLimit
	}

	sum := decimal.Zero
	for _, loan := range loans {
		sum = sum.Add(loan.Principal)
	}
	avg := sum.Div(decimal.NewFromInt(int64(len(loans))))

	limit := w.BaseMultiplier.
		Mul(decimal.NewFromInt(int64(score))).
		Div(decimal.NewFromInt(1000)).
		Mul(avg).
		Round(2)

	if limit.LessThan(w.MinSuggestedLimit) {
		return w.MinSuggestedLimit
	}
	if limit.GreaterThan(w.MaxSuggestedLimit) {
		return w.MaxSuggestedLimit
	}
	return limit
}

func relationshipMonths(since, asOf time.Time) int {
	if since.IsZero() || asOf.Before(since) {
		return 0
	}
	months := (asOf.Year()-since.Year())*12 + int(asOf.Month()) - int(since.Month())
	if asOf.Day() < since.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}
