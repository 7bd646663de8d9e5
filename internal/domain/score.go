package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RiskLevel is the discrete band a score falls into.
type RiskLevel string

const (
	RiskExcellent RiskLevel = "EXCELLENT"
	RiskGood      RiskLevel = "GOOD"
	RiskRegular   RiskLevel = "REGULAR"
	RiskBad       RiskLevel = "BAD"
	RiskCritical  RiskLevel = "CRITICAL"
)

// ScoreFactors are the raw counts behind a score, kept for explainability.
type ScoreFactors struct {
	OnTimePayments      int
	LatePayments        int
	PaymentHistoryCount int
	RelationshipMonths  int
}

// ClientScore is a behavioral credit score in [0,1000]. It is always a pure
// function of (customer, loan history, as-of date) and is recomputed on
// demand, never incrementally patched.
type ClientScore struct {
	CustomerID     string
	Score          int
	Level          RiskLevel
	Factors        ScoreFactors
	SuggestedLimit decimal.Decimal
	CalculatedAt   time.Time
}

// LevelForScore maps a score to its band. The partition is fixed:
// >=800 EXCELLENT, >=650 GOOD, >=450 REGULAR, >=250 BAD, else CRITICAL.
func LevelForScore(score int) RiskLevel {
	switch {
	case score >= 800:
		return RiskExcellent
	case score >= 650:
		return RiskGood
	case score >= 450:
		return RiskRegular
	case score >= 250:
		return RiskBad
	default:
		return RiskCritical
	}
}
