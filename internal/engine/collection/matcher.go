// Package collection drives the day-offset collection ladder: it matches open
// installments against the configured rules for "today", renders the message
// templates and dispatches the resulting batch sequentially through the
// messaging gateways.
package collection

import (
	"time"

	"github.com/google/uuid"

	"github.com/tubaraaoemprestimo/tubaraoemprestimo-sub000/internal/common/logger"
	"github.com/tubaraaoemprestimo/tubaraoemprestimo-sub000/internal/common/metrics"
	"github.com/tubaraaoemprestimo/tubaraoemprestimo-sub000/internal/domain"
)

// MatchInput is the immutable snapshot a matching pass works on.
type MatchInput struct {
	Today         time.Time
	Installments  []domain.Installment
	Rules         []domain.CollectionRule
	LoansByID     map[string]domain.Loan
	CustomersByID map[string]domain.Customer
}

// Matcher produces the day's collection actions. Matching is pure: running it
// twice over the same snapshot and date yields the same actions (modulo the
// generated action ids).
type Matcher struct {
	log logger.Logger
}

func NewMatcher(log logger.Logger) *Matcher {
	return &Matcher{log: log}
}

// Match emits one PENDING action per (open installment, active rule) pair
// whose day offset equals the distance from due date to today. The offset is
// positive for overdue installments and negative for upcoming ones, matching
// the sign convention of CollectionRule.DaysOffset.
//
// Installments referencing a missing loan or customer are skipped and logged;
// the rest of the batch proceeds.
func (m *Matcher) Match(in MatchInput) []domain.CollectionAction {
	var actions []domain.CollectionAction
	seen := make(map[string]struct{})

	for _, inst := range in.Installments {
		if inst.Status == domain.InstallmentStatusPaid {
			continue
		}

		loan, ok := in.LoansByID[inst.LoanID]
		if !ok {
			m.log.Warn("installment references missing loan, skipping", map[string]interface{}{
				"installmentId": inst.ID,
				"loanId":        inst.LoanID,
			})
			continue
		}
		customer, ok := in.CustomersByID[loan.CustomerID]
		if !ok {
			m.log.Warn("loan references missing customer, skipping", map[string]interface{}{
				"loanId":     loan.ID,
				"customerId": loan.CustomerID,
			})
			continue
		}

		diff := domain.DaysBetween(inst.DueDate, in.Today)
		daysLate := diff
		if daysLate < 0 {
			daysLate = 0
		}

		for _, rule := range in.Rules {
			if !rule.Active || rule.DaysOffset != diff {
				continue
			}
			key := inst.ID + ":" + rule.ID
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			recipient := recipientFor(rule.Channel, customer)
			if recipient == "" {
				m.log.Warn("customer has no contact for channel, skipping", map[string]interface{}{
					"customerId": customer.ID,
					"channel":    rule.Channel,
				})
				continue
			}

			actions = append(actions, domain.CollectionAction{
				ID:            uuid.New().String(),
				CustomerID:    customer.ID,
				LoanID:        loan.ID,
				InstallmentID: inst.ID,
				RuleID:        rule.ID,
				Channel:       rule.Channel,
				Recipient:     recipient,
				DaysOffset:    rule.DaysOffset,
				RenderedMessage: RenderTemplate(rule.MessageTemplate, TemplateData{
					FirstName: customer.FirstName,
					Amount:    inst.Amount,
					DueDate:   inst.DueDate,
					DaysLate:  daysLate,
				}),
				Status:       domain.ActionStatusPending,
				ScheduledFor: in.Today,
			})
		}
	}

	metrics.CollectionActionsEmitted.Add(float64(len(actions)))
	return actions
}

func recipientFor(channel domain.Channel, customer domain.Customer) string {
	if channel == domain.ChannelEmail {
		return customer.Email
	}
	return customer.Phone
}
