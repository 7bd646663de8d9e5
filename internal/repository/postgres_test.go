package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tubaraaoemprestimo/tubaraoemprestimo-sub000/internal/common/apperrors"
	"github.com/tubaraaoemprestimo/tubaraoemprestimo-sub000/internal/domain"
)

func TestGetCustomer(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	created := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT id, first_name, last_name, phone, email, created_at FROM customers WHERE id = \$1`).
		WithArgs("cust-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "last_name", "phone", "email", "created_at"}).
			AddRow("cust-1", "Maria", "Silva", "+5511999990000", "maria@example.com", created))

	store := NewPostgres(db)
	customer, err := store.GetCustomer(context.Background(), "cust-1")

	require.NoError(t, err)
	assert.Equal(t, "Maria", customer.FirstName)
	assert.Equal(t, created, customer.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCustomer_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, first_name, last_name, phone, email, created_at FROM customers WHERE id = \$1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "last_name", "phone", "email", "created_at"}))

	store := NewPostgres(db)
	_, err = store.GetCustomer(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)
}

func TestGetLoan_ScansDecimalColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	start := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT id, customer_id, principal, installment_count, start_date, status, remaining_amount FROM loans WHERE id = \$1`).
		WithArgs("loan-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "customer_id", "principal", "installment_count", "start_date", "status", "remaining_amount"}).
			AddRow("loan-1", "cust-1", "1000.00", 4, start, "APPROVED", "575.00"))

	store := NewPostgres(db)
	loan, err := store.GetLoan(context.Background(), "loan-1")

	require.NoError(t, err)
	assert.True(t, loan.Principal.Equal(decimal.RequireFromString("1000.00")))
	assert.True(t, loan.RemainingAmount.Equal(decimal.RequireFromString("575.00")))
	assert.Equal(t, domain.LoanStatusApproved, loan.Status)
}

func TestGetLoan_BadDecimalIsDataInconsistency(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	start := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT id, customer_id, principal, installment_count, start_date, status, remaining_amount FROM loans WHERE id = \$1`).
		WithArgs("loan-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "customer_id", "principal", "installment_count", "start_date", "status", "remaining_amount"}).
			AddRow("loan-1", "cust-1", "not-a-number", 4, start, "APPROVED", "575.00"))

	store := NewPostgres(db)
	_, err = store.GetLoan(context.Background(), "loan-1")

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeDataInconsistency, apperrors.CodeOf(err))
}

func TestGetOpenInstallments(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	due := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	paid := time.Date(2025, 8, 2, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT id, loan_id, sequence_index, due_date, amount, status, paid_at, proof_reference`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "loan_id", "sequence_index", "due_date", "amount", "status", "paid_at", "proof_reference"}).
			AddRow("inst-1", "loan-1", 1, due, "287.50", "OPEN", nil, nil).
			AddRow("inst-2", "loan-1", 2, due.AddDate(0, 0, 30), "287.50", "OPEN", paid, "proof-x"))

	store := NewPostgres(db)
	installments, err := store.GetOpenInstallments(context.Background())

	require.NoError(t, err)
	require.Len(t, installments, 2)
	assert.Nil(t, installments[0].PaidAt)
	assert.Empty(t, installments[0].ProofReference)
	require.NotNil(t, installments[1].PaidAt)
	assert.Equal(t, paid, *installments[1].PaidAt)
	assert.Equal(t, "proof-x", installments[1].ProofReference)
}

func TestGetRateProfile_NoOverrideReturnsNil(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM rate_profiles WHERE customer_id = \$1`).
		WithArgs("cust-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"monthly_interest_rate", "late_fixed_fee",
			"late_daily_value", "late_daily_type",
			"late_monthly_value", "late_monthly_type",
			"late_yearly_value", "late_yearly_type", "active",
		}))

	store := NewPostgres(db)
	profile, err := store.GetRateProfile(context.Background(), "cust-1")

	require.NoError(t, err)
	assert.Nil(t, profile)
}

func TestGetGlobalRateProfile(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM rate_profiles WHERE customer_id IS NULL`).
		WillReturnRows(sqlmock.NewRows([]string{
			"monthly_interest_rate", "late_fixed_fee",
			"late_daily_value", "late_daily_type",
			"late_monthly_value", "late_monthly_type",
			"late_yearly_value", "late_yearly_type", "active",
		}).AddRow("15.00", "10.00", "0.5", "PERCENT", "0", "PERCENT", "0", "PERCENT", true))

	store := NewPostgres(db)
	profile, err := store.GetGlobalRateProfile(context.Background())

	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.True(t, profile.MonthlyInterestRate.Equal(decimal.RequireFromString("15.00")))
	assert.True(t, profile.LateFixedFee.Equal(decimal.RequireFromString("10.00")))
	assert.Equal(t, domain.LateInterestPercent, profile.LateInterestDaily.Type)
}

func TestRecordInstallmentPaid(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	paidAt := time.Date(2025, 8, 3, 14, 0, 0, 0, time.UTC)
	mock.ExpectExec(`UPDATE installments SET status = 'PAID', paid_at = \$2 WHERE id = \$1 AND status <> 'PAID'`).
		WithArgs("inst-1", paidAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	store := NewPostgres(db)
	err = store.RecordInstallmentPaid(context.Background(), "inst-1", paidAt)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordInstallmentPaid_AlreadyPaidIsIdempotent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	paidAt := time.Date(2025, 8, 3, 14, 0, 0, 0, time.UTC)
	mock.ExpectExec(`UPDATE installments`).
		WithArgs("inst-1", paidAt).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("inst-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	store := NewPostgres(db)
	err = store.RecordInstallmentPaid(context.Background(), "inst-1", paidAt)

	assert.NoError(t, err)
}

func TestRecordInstallmentPaid_UnknownInstallment(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	paidAt := time.Date(2025, 8, 3, 14, 0, 0, 0, time.UTC)
	mock.ExpectExec(`UPDATE installments`).
		WithArgs("ghost", paidAt).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	store := NewPostgres(db)
	err = store.RecordInstallmentPaid(context.Background(), "ghost", paidAt)

	assert.ErrorIs(t, err, domain.ErrInstallmentNotFound)
}

func TestSaveCollectionRule_RejectsUnknownPlaceholder(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPostgres(db)
	err = store.SaveCollectionRule(context.Background(), domain.CollectionRule{
		ID:              "rule-1",
		DaysOffset:      3,
		Channel:         domain.ChannelWhatsApp,
		MessageTemplate: "Olá {{nome}}, saldo {{restante}}",
		Active:          true,
	})

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeTemplateInvalid, apperrors.CodeOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveCollectionRule_Upserts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO collection_rules`).
		WithArgs("rule-1", -3, "WHATSAPP", "Olá {{nome}}, vence em {{vencimento}}", true).
		WillReturnResult(sqlmock.NewResult(0, 1))

	store := NewPostgres(db)
	err = store.SaveCollectionRule(context.Background(), domain.CollectionRule{
		ID:              "rule-1",
		DaysOffset:      -3,
		Channel:         domain.ChannelWhatsApp,
		MessageTemplate: "Olá {{nome}}, vence em {{vencimento}}",
		Active:          true,
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveScore(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	calcAt := time.Date(2025, 8, 30, 9, 0, 0, 0, time.UTC)
	mock.ExpectExec(`INSERT INTO client_scores`).
		WithArgs("cust-1", 715, "GOOD", 12, 2, 14, 18, "1430.00", calcAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	store := NewPostgres(db)
	err = store.SaveScore(context.Background(), domain.ClientScore{
		CustomerID: "cust-1",
		Score:      715,
		Level:      domain.RiskGood,
		Factors: domain.ScoreFactors{
			OnTimePayments:      12,
			LatePayments:        2,
			PaymentHistoryCount: 14,
			RelationshipMonths:  18,
		},
		SuggestedLimit: decimal.RequireFromString("1430.00"),
		CalculatedAt:   calcAt,
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
