package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tubaraaoemprestimo/tubaraoemprestimo-sub000/internal/common/apperrors"
	"github.com/tubaraaoemprestimo/tubaraoemprestimo-sub000/internal/domain"
	"github.com/tubaraaoemprestimo/tubaraoemprestimo-sub000/internal/engine/collection"
)

// Postgres implements Store on database/sql with the lib/pq driver.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) GetCustomers(ctx context.Context) ([]domain.Customer, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT id, first_name, last_name, phone, email, created_at FROM customers`)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError(err)
	}
	defer rows.Close()

	var customers []domain.Customer
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Phone, &c.Email, &c.CreatedAt); err != nil {
			return nil, apperrors.NewQueryExecutionFailedError(err)
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (p *Postgres) GetCustomer(ctx context.Context, customerID string) (domain.Customer, error) {
	var c domain.Customer
	err := p.db.QueryRowContext(ctx,
		`SELECT id, first_name, last_name, phone, email, created_at FROM customers WHERE id = $1`,
		customerID).Scan(&c.ID, &c.FirstName, &c.LastName, &c.Phone, &c.Email, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Customer{}, domain.ErrCustomerNotFound
	}
	if err != nil {
		return domain.Customer{}, apperrors.NewQueryExecutionFailedError(err)
	}
	return c, nil
}

func (p *Postgres) GetLoans(ctx context.Context) ([]domain.Loan, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT id, customer_id, principal, installment_count, start_date, status, remaining_amount FROM loans`)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError(err)
	}
	defer rows.Close()

	var loans []domain.Loan
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, loan)
	}
	return loans, rows.Err()
}

func (p *Postgres) GetLoan(ctx context.Context, loanID string) (domain.Loan, error) {
	row := p.db.QueryRowContext(ctx,
		`SELECT id, customer_id, principal, installment_count, start_date, status, remaining_amount FROM loans WHERE id = $1`,
		loanID)
	loan, err := scanLoan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Loan{}, domain.ErrLoanNotFound
	}
	return loan, err
}

func (p *Postgres) GetInstallments(ctx context.Context, loanID string) ([]domain.Installment, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT id, loan_id, sequence_index, due_date, amount, status, paid_at, proof_reference
		 FROM installments WHERE loan_id = $1 ORDER BY sequence_index`, loanID)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError(err)
	}
	defer rows.Close()
	return collectInstallments(rows)
}

func (p *Postgres) GetOpenInstallments(ctx context.Context) ([]domain.Installment, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT id, loan_id, sequence_index, due_date, amount, status, paid_at, proof_reference
		 FROM installments WHERE status <> 'PAID' ORDER BY due_date, sequence_index`)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError(err)
	}
	defer rows.Close()
	return collectInstallments(rows)
}

func (p *Postgres) GetCollectionRules(ctx context.Context) ([]domain.CollectionRule, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT id, days_offset, channel, message_template, active FROM collection_rules ORDER BY days_offset`)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError(err)
	}
	defer rows.Close()

	var rules []domain.CollectionRule
	for rows.Next() {
		var r domain.CollectionRule
		if err := rows.Scan(&r.ID, &r.DaysOffset, &r.Channel, &r.MessageTemplate, &r.Active); err != nil {
			return nil, apperrors.NewQueryExecutionFailedError(err)
		}
		rules = append(rules, r)
	}
	return rules, rows.Err()
}

func (p *Postgres) GetRateProfile(ctx context.Context, customerID string) (*domain.RateProfile, error) {
	return p.queryRateProfile(ctx,
		`SELECT monthly_interest_rate, late_fixed_fee,
		        late_daily_value, late_daily_type,
		        late_monthly_value, late_monthly_type,
		        late_yearly_value, late_yearly_type, active
		 FROM rate_profiles WHERE customer_id = $1`, customerID)
}

func (p *Postgres) GetGlobalRateProfile(ctx context.Context) (*domain.RateProfile, error) {
	return p.queryRateProfile(ctx,
		`SELECT monthly_interest_rate, late_fixed_fee,
		        late_daily_value, late_daily_type,
		        late_monthly_value, late_monthly_type,
		        late_yearly_value, late_yearly_type, active
		 FROM rate_profiles WHERE customer_id IS NULL`)
}

func (p *Postgres) queryRateProfile(ctx context.Context, query string, args ...interface{}) (*domain.RateProfile, error) {
	var (
		profile                          domain.RateProfile
		monthlyRate, fixedFee            string
		dailyVal, monthlyVal, yearlyVal  string
		dailyTyp, monthlyTyp, yearlyTyp  string
	)
	err := p.db.QueryRowContext(ctx, query, args...).Scan(
		&monthlyRate, &fixedFee,
		&dailyVal, &dailyTyp,
		&monthlyVal, &monthlyTyp,
		&yearlyVal, &yearlyTyp,
		&profile.Active,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError(err)
	}

	if profile.MonthlyInterestRate, err = decimal.NewFromString(monthlyRate); err != nil {
		return nil, apperrors.NewDataInconsistencyError("rate profile: bad monthly_interest_rate")
	}
	if profile.LateFixedFee, err = decimal.NewFromString(fixedFee); err != nil {
		return nil, apperrors.NewDataInconsistencyError("rate profile: bad late_fixed_fee")
	}
	profile.LateInterestDaily, err = parseLateInterest(dailyVal, dailyTyp)
	if err != nil {
		return nil, err
	}
	profile.LateInterestMonthly, err = parseLateInterest(monthlyVal, monthlyTyp)
	if err != nil {
		return nil, err
	}
	profile.LateInterestYearly, err = parseLateInterest(yearlyVal, yearlyTyp)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func parseLateInterest(value, typ string) (domain.LateInterest, error) {
	v, err := decimal.NewFromString(value)
	if err != nil {
		return domain.LateInterest{}, apperrors.NewDataInconsistencyError("rate profile: bad late interest value")
	}
	return domain.LateInterest{Value: v, Type: domain.LateInterestType(typ)}, nil
}

func (p *Postgres) RecordInstallmentPaid(ctx context.Context, installmentID string, paidAt time.Time) error {
	res, err := p.db.ExecContext(ctx,
		`UPDATE installments SET status = 'PAID', paid_at = $2 WHERE id = $1 AND status <> 'PAID'`,
		installmentID, paidAt)
	if err != nil {
		return apperrors.NewQueryExecutionFailedError(err)
	}
	// Zero affected rows means the installment was already paid (idempotent
	// no-op) or never existed; only the latter is an error.
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		var exists bool
		if err := p.db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM installments WHERE id = $1)`, installmentID).Scan(&exists); err != nil {
			return apperrors.NewQueryExecutionFailedError(err)
		}
		if !exists {
			return domain.ErrInstallmentNotFound
		}
	}
	return nil
}

func (p *Postgres) SaveRenegotiationProposal(ctx context.Context, proposal domain.RenegotiationProposal) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO renegotiation_proposals
		   (id, customer_id, loan_id, remaining_amount, days_overdue,
		    discount_percent, discount, new_amount, new_installments, new_installment_value,
		    status, expires_at, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		 ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status, expires_at = EXCLUDED.expires_at`,
		proposal.ID, proposal.CustomerID, proposal.LoanID,
		proposal.RemainingAmount.String(), proposal.DaysOverdue,
		proposal.Proposal.DiscountPercent.String(), proposal.Proposal.Discount.String(),
		proposal.Proposal.NewAmount.String(), proposal.Proposal.NewInstallments,
		proposal.Proposal.NewInstallmentValue.String(),
		string(proposal.Status), proposal.ExpiresAt, proposal.CreatedAt)
	if err != nil {
		return apperrors.NewQueryExecutionFailedError(err)
	}
	return nil
}

func (p *Postgres) SaveCollectionRule(ctx context.Context, rule domain.CollectionRule) error {
	if err := collection.ValidateTemplate(rule.MessageTemplate); err != nil {
		return err
	}
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO collection_rules (id, days_offset, channel, message_template, active)
		 VALUES ($1,$2,$3,$4,$5)
		 ON CONFLICT (id) DO UPDATE SET
		   days_offset = EXCLUDED.days_offset,
		   channel = EXCLUDED.channel,
		   message_template = EXCLUDED.message_template,
		   active = EXCLUDED.active`,
		rule.ID, rule.DaysOffset, string(rule.Channel), rule.MessageTemplate, rule.Active)
	if err != nil {
		return apperrors.NewQueryExecutionFailedError(err)
	}
	return nil
}

func (p *Postgres) SaveScore(ctx context.Context, score domain.ClientScore) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO client_scores
		   (customer_id, score, level, on_time_payments, late_payments,
		    payment_history_count, relationship_months, suggested_limit, calculated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		 ON CONFLICT (customer_id) DO UPDATE SET
		   score = EXCLUDED.score,
		   level = EXCLUDED.level,
		   on_time_payments = EXCLUDED.on_time_payments,
		   late_payments = EXCLUDED.late_payments,
		   payment_history_count = EXCLUDED.payment_history_count,
		   relationship_months = EXCLUDED.relationship_months,
		   suggested_limit = EXCLUDED.suggested_limit,
		   calculated_at = EXCLUDED.calculated_at`,
		score.CustomerID, score.Score, string(score.Level),
		score.Factors.OnTimePayments, score.Factors.LatePayments,
		score.Factors.PaymentHistoryCount, score.Factors.RelationshipMonths,
		score.SuggestedLimit.String(), score.CalculatedAt)
	if err != nil {
		return apperrors.NewQueryExecutionFailedError(err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLoan(row rowScanner) (domain.Loan, error) {
	var (
		loan                 domain.Loan
		principal, remaining string
	)
	err := row.Scan(&loan.ID, &loan.CustomerID, &principal, &loan.InstallmentCount,
		&loan.StartDate, &loan.Status, &remaining)
	if err != nil {
		return domain.Loan{}, err
	}
	if loan.Principal, err = decimal.NewFromString(principal); err != nil {
		return domain.Loan{}, apperrors.NewDataInconsistencyError("loan: bad principal")
	}
	if loan.RemainingAmount, err = decimal.NewFromString(remaining); err != nil {
		return domain.Loan{}, apperrors.NewDataInconsistencyError("loan: bad remaining_amount")
	}
	return loan, nil
}

func collectInstallments(rows *sql.Rows) ([]domain.Installment, error) {
	var installments []domain.Installment
	for rows.Next() {
		var (
			inst   domain.Installment
			amount string
			paidAt sql.NullTime
			proof  sql.NullString
		)
		if err := rows.Scan(&inst.ID, &inst.LoanID, &inst.SequenceIndex, &inst.DueDate,
			&amount, &inst.Status, &paidAt, &proof); err != nil {
			return nil, apperrors.NewQueryExecutionFailedError(err)
		}
		var err error
		if inst.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, apperrors.NewDataInconsistencyError("installment: bad amount")
		}
		if paidAt.Valid {
			t := paidAt.Time
			inst.PaidAt = &t
		}
		inst.ProofReference = proof.String
		installments = append(installments, inst)
	}
	return installments, rows.Err()
}
