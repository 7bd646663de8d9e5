package collection

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tubaraaoemprestimo/tubaraoemprestimo-sub000/internal/common/logger"
	"github.com/tubaraaoemprestimo/tubaraoemprestimo-sub000/internal/domain"
	"github.com/tubaraaoemprestimo/tubaraoemprestimo-sub000/internal/messaging"
)

type fakeGateway struct {
	sent   []string
	failOn map[string]error
}

func (g *fakeGateway) Send(_ context.Context, recipient, text string) error {
	if err, ok := g.failOn[recipient]; ok {
		return err
	}
	g.sent = append(g.sent, recipient+": "+text)
	return nil
}

type failingLedger struct{ err error }

func (l failingLedger) AlreadySent(context.Context, string, string, time.Time) (bool, error) {
	return false, l.err
}
func (l failingLedger) MarkSent(context.Context, string, string, time.Time) error {
	return l.err
}

func newTestLedger(t *testing.T) (*RedisLedger, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisLedger(client, 48*time.Hour), mr
}

func action(id, installmentID string, channel domain.Channel, recipient string) domain.CollectionAction {
	return domain.CollectionAction{
		ID:              id,
		CustomerID:      "cust-1",
		LoanID:          "loan-1",
		InstallmentID:   installmentID,
		RuleID:          "rule-1",
		Channel:         channel,
		Recipient:       recipient,
		RenderedMessage: "Olá Maria",
		Status:          domain.ActionStatusPending,
		ScheduledFor:    time.Date(2025, 8, 30, 0, 0, 0, 0, time.UTC),
	}
}

func newTestDispatcher(gateways map[domain.Channel]messaging.Gateway, ledger Ledger, t *testing.T) *Dispatcher {
	d := NewDispatcher(gateways, ledger, 0, logger.NewTestLogger(t))
	return d
}

func TestDispatch_SendsAndRecordsLedger(t *testing.T) {
	ledger, _ := newTestLedger(t)
	gateway := &fakeGateway{}
	d := newTestDispatcher(map[domain.Channel]messaging.Gateway{domain.ChannelWhatsApp: gateway}, ledger, t)

	actions := []domain.CollectionAction{
		action("a1", "inst-1", domain.ChannelWhatsApp, "+551199999"),
		action("a2", "inst-2", domain.ChannelWhatsApp, "+551188888"),
	}
	summary := d.Dispatch(context.Background(), actions)

	assert.Equal(t, Summary{Emitted: 2, Sent: 2}, summary)
	assert.Len(t, gateway.sent, 2)
	assert.Equal(t, domain.ActionStatusSent, actions[0].Status)
	assert.Equal(t, domain.ActionStatusSent, actions[1].Status)

	sent, err := ledger.AlreadySent(context.Background(), "inst-1", "rule-1", actions[0].ScheduledFor)
	require.NoError(t, err)
	assert.True(t, sent)
}

func TestDispatch_SecondRunSkipsDuplicates(t *testing.T) {
	ledger, _ := newTestLedger(t)
	gateway := &fakeGateway{}
	d := newTestDispatcher(map[domain.Channel]messaging.Gateway{domain.ChannelWhatsApp: gateway}, ledger, t)
	ctx := context.Background()

	first := []domain.CollectionAction{action("a1", "inst-1", domain.ChannelWhatsApp, "+551199999")}
	d.Dispatch(ctx, first)

	second := []domain.CollectionAction{action("a2", "inst-1", domain.ChannelWhatsApp, "+551199999")}
	summary := d.Dispatch(ctx, second)

	assert.Equal(t, Summary{Emitted: 1, Duplicates: 1}, summary)
	assert.Len(t, gateway.sent, 1)
}

func TestDispatch_FailureIsCountedNotRaised(t *testing.T) {
	ledger, _ := newTestLedger(t)
	gateway := &fakeGateway{failOn: map[string]error{"+55broken": errors.New("throttled")}}
	d := newTestDispatcher(map[domain.Channel]messaging.Gateway{domain.ChannelSMS: gateway}, ledger, t)

	actions := []domain.CollectionAction{
		action("a1", "inst-1", domain.ChannelSMS, "+55broken"),
		action("a2", "inst-2", domain.ChannelSMS, "+55ok"),
	}
	summary := d.Dispatch(context.Background(), actions)

	assert.Equal(t, Summary{Emitted: 2, Sent: 1, Failed: 1}, summary)
	assert.Equal(t, domain.ActionStatusFailed, actions[0].Status)
	assert.Equal(t, domain.ActionStatusSent, actions[1].Status)

	// A failed send leaves no ledger entry, so the next run retries it.
	sent, err := ledger.AlreadySent(context.Background(), "inst-1", "rule-1", actions[0].ScheduledFor)
	require.NoError(t, err)
	assert.False(t, sent)
}

func TestDispatch_MissingGatewayIsSkipped(t *testing.T) {
	ledger, _ := newTestLedger(t)
	d := newTestDispatcher(map[domain.Channel]messaging.Gateway{}, ledger, t)

	actions := []domain.CollectionAction{action("a1", "inst-1", domain.ChannelEmail, "maria@example.com")}
	summary := d.Dispatch(context.Background(), actions)

	assert.Equal(t, Summary{Emitted: 1, Skipped: 1}, summary)
	assert.Equal(t, domain.ActionStatusFailed, actions[0].Status)
}

func TestDispatch_LedgerOutageStillSends(t *testing.T) {
	gateway := &fakeGateway{}
	d := newTestDispatcher(map[domain.Channel]messaging.Gateway{domain.ChannelWhatsApp: gateway},
		failingLedger{err: errors.New("connection refused")}, t)

	actions := []domain.CollectionAction{action("a1", "inst-1", domain.ChannelWhatsApp, "+551199999")}
	summary := d.Dispatch(context.Background(), actions)

	assert.Equal(t, Summary{Emitted: 1, Sent: 1}, summary)
	assert.Len(t, gateway.sent, 1)
}

func TestDispatch_SequentialWithDelayBetweenSends(t *testing.T) {
	ledger, _ := newTestLedger(t)
	gateway := &fakeGateway{}
	d := NewDispatcher(map[domain.Channel]messaging.Gateway{domain.ChannelWhatsApp: gateway},
		ledger, 2*time.Second, logger.NewTestLogger(t))

	var slept []time.Duration
	d.sleep = func(delay time.Duration) { slept = append(slept, delay) }

	actions := []domain.CollectionAction{
		action("a1", "inst-1", domain.ChannelWhatsApp, "+551"),
		action("a2", "inst-2", domain.ChannelWhatsApp, "+552"),
		action("a3", "inst-3", domain.ChannelWhatsApp, "+553"),
	}
	d.Dispatch(context.Background(), actions)

	// No pause before the first send, one fixed pause before each later one.
	assert.Equal(t, []time.Duration{2 * time.Second, 2 * time.Second}, slept)
}

func TestLedgerKey_EncodesCalendarDay(t *testing.T) {
	ledger, mr := newTestLedger(t)
	ctx := context.Background()
	day := time.Date(2025, 8, 30, 0, 0, 0, 0, time.UTC)

	require.NoError(t, ledger.MarkSent(ctx, "inst-1", "rule-1", day))
	assert.True(t, mr.Exists("collection:dispatch:2025-08-30:inst-1:rule-1"))

	// Same pair on the next day is a fresh send.
	sent, err := ledger.AlreadySent(ctx, "inst-1", "rule-1", day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.False(t, sent)
}

func TestLedgerEntriesExpire(t *testing.T) {
	ledger, mr := newTestLedger(t)
	ctx := context.Background()
	day := time.Date(2025, 8, 30, 0, 0, 0, 0, time.UTC)

	require.NoError(t, ledger.MarkSent(ctx, "inst-1", "rule-1", day))
	mr.FastForward(49 * time.Hour)

	sent, err := ledger.AlreadySent(ctx, "inst-1", "rule-1", day)
	require.NoError(t, err)
	assert.False(t, sent)
}
