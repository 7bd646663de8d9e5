package collection

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Ledger is the dispatch idempotency record keyed by (installment, rule,
// calendar day). It is consulted before a send and written after a successful
// one, which upholds the at-most-one-message-per-pair-per-day invariant even
// when the batch runs twice on the same day.
type Ledger interface {
	AlreadySent(ctx context.Context, installmentID, ruleID string, day time.Time) (bool, error)
	MarkSent(ctx context.Context, installmentID, ruleID string, day time.Time) error
}

// RedisLedger stores dispatch records as expiring Redis keys. The TTL only
// needs to outlive the calendar day the key encodes; entries clean themselves
// up afterwards.
type RedisLedger struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisLedger(client *redis.Client, ttl time.Duration) *RedisLedger {
	return &RedisLedger{client: client, ttl: ttl}
}

func ledgerKey(installmentID, ruleID string, day time.Time) string {
	return fmt.Sprintf("collection:dispatch:%s:%s:%s", day.Format("2006-01-02"), installmentID, ruleID)
}

func (l *RedisLedger) AlreadySent(ctx context.Context, installmentID, ruleID string, day time.Time) (bool, error) {
	n, err := l.client.Exists(ctx, ledgerKey(installmentID, ruleID, day)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (l *RedisLedger) MarkSent(ctx context.Context, installmentID, ruleID string, day time.Time) error {
	return l.client.Set(ctx, ledgerKey(installmentID, ruleID, day), "1", l.ttl).Err()
}
