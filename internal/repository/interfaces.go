// Package repository is the persistence boundary of the engine. Reads return
// immutable snapshots; writes are idempotent upserts keyed by natural id.
package repository

import (
	"context"
	"time"

	"github.com/tubaraaoemprestimo/tubaraoemprestimo-sub000/internal/domain"
)

// Store is the full persistence surface the engine consumes. Engines take the
// narrowest slice they need; Store is what the Postgres implementation and
// the CLI wire together.
type Store interface {
	// GetCustomers retrieves all customers.
	GetCustomers(ctx context.Context) ([]domain.Customer, error)

	// GetCustomer retrieves one customer by id.
	GetCustomer(ctx context.Context, customerID string) (domain.Customer, error)

	// GetLoans retrieves all loans.
	GetLoans(ctx context.Context) ([]domain.Loan, error)

	// GetLoan retrieves one loan by id.
	GetLoan(ctx context.Context, loanID string) (domain.Loan, error)

	// GetInstallments retrieves the installments of one loan, ordered by
	// sequence index.
	GetInstallments(ctx context.Context, loanID string) ([]domain.Installment, error)

	// GetOpenInstallments retrieves every installment not yet paid, across
	// loans. This is the collection ladder's working set.
	GetOpenInstallments(ctx context.Context) ([]domain.Installment, error)

	// GetCollectionRules retrieves the configured ladder rules.
	GetCollectionRules(ctx context.Context) ([]domain.CollectionRule, error)

	// GetRateProfile retrieves a customer's rate override, or nil when the
	// customer has none.
	GetRateProfile(ctx context.Context, customerID string) (*domain.RateProfile, error)

	// GetGlobalRateProfile retrieves the global rate profile, or nil when it
	// was never configured.
	GetGlobalRateProfile(ctx context.Context) (*domain.RateProfile, error)

	// RecordInstallmentPaid marks an installment PAID. Idempotent: a second
	// call with the same id is a no-op.
	RecordInstallmentPaid(ctx context.Context, installmentID string, paidAt time.Time) error

	// SaveRenegotiationProposal upserts a proposal by id.
	SaveRenegotiationProposal(ctx context.Context, proposal domain.RenegotiationProposal) error

	// SaveCollectionRule validates the rule's template and upserts it by id.
	SaveCollectionRule(ctx context.Context, rule domain.CollectionRule) error

	// SaveScore upserts a customer's score by customer id.
	SaveScore(ctx context.Context, score domain.ClientScore) error
}
