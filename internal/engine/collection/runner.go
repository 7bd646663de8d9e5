package collection

import (
	"context"
	"time"

	"github.com/tubaraaoemprestimo/tubaraoemprestimo-sub000/internal/common/logger"
	"github.com/tubaraaoemprestimo/tubaraoemprestimo-sub000/internal/common/metrics"
	"github.com/tubaraaoemprestimo/tubaraoemprestimo-sub000/internal/domain"
	"github.com/tubaraaoemprestimo/tubaraoemprestimo-sub000/internal/messaging"
)

// SnapshotSource is the read side of the store the runner needs. All methods
// return immutable snapshots.
type SnapshotSource interface {
	GetCustomers(ctx context.Context) ([]domain.Customer, error)
	GetLoans(ctx context.Context) ([]domain.Loan, error)
	GetOpenInstallments(ctx context.Context) ([]domain.Installment, error)
	GetCollectionRules(ctx context.Context) ([]domain.CollectionRule, error)
}

// Runner executes one daily collection pass: load the snapshot, match the
// ladder, dispatch the batch and report the summary. Intended to run once per
// day from cron; same-day re-runs are harmless because of the dispatch
// ledger.
type Runner struct {
	store      SnapshotSource
	matcher    *Matcher
	dispatcher *Dispatcher
	notifier   messaging.Notifier
	log        logger.Logger
}

func NewRunner(store SnapshotSource, matcher *Matcher, dispatcher *Dispatcher, notifier messaging.Notifier, log logger.Logger) *Runner {
	return &Runner{
		store:      store,
		matcher:    matcher,
		dispatcher: dispatcher,
		notifier:   notifier,
		log:        log,
	}
}

// Run executes one pass for the given date. With dryRun the matched actions
// are only logged: no message leaves the system and the ledger is untouched.
func (r *Runner) Run(ctx context.Context, today time.Time, dryRun bool) (Summary, []domain.CollectionAction, error) {
	start := time.Now()
	defer func() {
		metrics.CollectionBatchDuration.Observe(time.Since(start).Seconds())
	}()

	installments, err := r.store.GetOpenInstallments(ctx)
	if err != nil {
		return Summary{}, nil, err
	}
	rules, err := r.store.GetCollectionRules(ctx)
	if err != nil {
		return Summary{}, nil, err
	}
	loans, err := r.store.GetLoans(ctx)
	if err != nil {
		return Summary{}, nil, err
	}
	customers, err := r.store.GetCustomers(ctx)
	if err != nil {
		return Summary{}, nil, err
	}

	loansByID := make(map[string]domain.Loan, len(loans))
	for _, loan := range loans {
		loansByID[loan.ID] = loan
	}
	customersByID := make(map[string]domain.Customer, len(customers))
	for _, customer := range customers {
		customersByID[customer.ID] = customer
	}

	actions := r.matcher.Match(MatchInput{
		Today:         today,
		Installments:  installments,
		Rules:         rules,
		LoansByID:     loansByID,
		CustomersByID: customersByID,
	})

	r.log.Info("collection ladder matched", map[string]interface{}{
		"date":    today.Format("2006-01-02"),
		"actions": len(actions),
		"dryRun":  dryRun,
	})

	if dryRun {
		return Summary{Emitted: len(actions)}, actions, nil
	}

	summary := r.dispatcher.Dispatch(ctx, actions)

	r.log.Info("collection batch finished", map[string]interface{}{
		"date":    today.Format("2006-01-02"),
		"summary": summary.String(),
	})
	if r.notifier != nil {
		r.notifier.Notify(ctx, "collection", "Régua de cobrança", summary.String())
	}

	return summary, actions, nil
}
