package collection

import (
	"context"
	"fmt"
	"time"

	"github.com/tubaraaoemprestimo/tubaraoemprestimo-sub000/internal/common/logger"
	"github.com/tubaraaoemprestimo/tubaraoemprestimo-sub000/internal/common/metrics"
	"github.com/tubaraaoemprestimo/tubaraoemprestimo-sub000/internal/domain"
	"github.com/tubaraaoemprestimo/tubaraoemprestimo-sub000/internal/messaging"
)

// Summary aggregates one dispatch batch. Failures are counted, never raised:
// one customer's failure must not abort the remaining batch, and the retry is
// simply the next scheduled run.
type Summary struct {
	Emitted    int
	Sent       int
	Failed     int
	Duplicates int
	Skipped    int
}

func (s Summary) String() string {
	return fmt.Sprintf("emitted=%d sent=%d failed=%d duplicates=%d skipped=%d",
		s.Emitted, s.Sent, s.Failed, s.Duplicates, s.Skipped)
}

// Dispatcher sends a batch of actions strictly sequentially with a fixed
// delay between sends. The delay is a deliberate throughput throttle against
// the messaging provider's anti-spam heuristics; do not parallelize this
// loop.
type Dispatcher struct {
	gateways map[domain.Channel]messaging.Gateway
	ledger   Ledger
	log      logger.Logger
	delay    time.Duration
	sleep    func(time.Duration)
}

func NewDispatcher(gateways map[domain.Channel]messaging.Gateway, ledger Ledger, delay time.Duration, log logger.Logger) *Dispatcher {
	return &Dispatcher{
		gateways: gateways,
		ledger:   ledger,
		log:      log,
		delay:    delay,
		sleep:    time.Sleep,
	}
}

// Dispatch processes the actions in order, mutating each action's status to
// SENT or FAILED. The ledger is consulted before each send and written after
// a successful one; an interrupted run therefore leaves the batch safely
// "partially sent".
func (d *Dispatcher) Dispatch(ctx context.Context, actions []domain.CollectionAction) Summary {
	summary := Summary{Emitted: len(actions)}

	for i := range actions {
		action := &actions[i]

		if i > 0 && d.delay > 0 {
			d.sleep(d.delay)
		}

		sent, err := d.ledger.AlreadySent(ctx, action.InstallmentID, action.RuleID, action.ScheduledFor)
		if err != nil {
			// A ledger outage must not silence the whole ladder; the send
			// proceeds and the worst case is one duplicate message.
			d.log.Warn("dispatch ledger lookup failed, proceeding with send", map[string]interface{}{
				"installmentId": action.InstallmentID,
				"ruleId":        action.RuleID,
				"error":         err.Error(),
			})
		} else if sent {
			summary.Duplicates++
			metrics.CollectionDuplicatesSkipped.Inc()
			continue
		}

		gateway, ok := d.gateways[action.Channel]
		if !ok {
			action.Status = domain.ActionStatusFailed
			summary.Skipped++
			d.log.Warn("no gateway configured for channel", map[string]interface{}{
				"channel":  action.Channel,
				"actionId": action.ID,
			})
			continue
		}

		if err := gateway.Send(ctx, action.Recipient, action.RenderedMessage); err != nil {
			action.Status = domain.ActionStatusFailed
			summary.Failed++
			metrics.CollectionActionsFailed.WithLabelValues(string(action.Channel)).Inc()
			d.log.Error("dispatch failed", map[string]interface{}{
				"actionId":      action.ID,
				"installmentId": action.InstallmentID,
				"channel":       action.Channel,
				"error":         err.Error(),
			})
			continue
		}

		action.Status = domain.ActionStatusSent
		summary.Sent++
		metrics.CollectionActionsSent.WithLabelValues(string(action.Channel)).Inc()

		if err := d.ledger.MarkSent(ctx, action.InstallmentID, action.RuleID, action.ScheduledFor); err != nil {
			d.log.Warn("dispatch ledger write failed", map[string]interface{}{
				"installmentId": action.InstallmentID,
				"ruleId":        action.RuleID,
				"error":         err.Error(),
			})
		}
	}

	return summary
}
