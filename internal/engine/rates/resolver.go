// Package rates resolves the effective rate profile for a customer: the
// active per-customer override when one exists, otherwise the global profile.
package rates

import (
	"context"

	"github.com/tubaraaoemprestimo/tubaraoemprestimo-sub000/internal/common/logger"
	"github.com/tubaraaoemprestimo/tubaraoemprestimo-sub000/internal/domain"
)

// ProfileReader is the subset of the store the resolver needs.
type ProfileReader interface {
	GetRateProfile(ctx context.Context, customerID string) (*domain.RateProfile, error)
	GetGlobalRateProfile(ctx context.Context) (*domain.RateProfile, error)
}

// Resolve picks the effective profile. An absent or inactive override falls
// back to the global profile; an unset global profile falls back to a
// zero-valued one, so resolution never fails.
func Resolve(override, global *domain.RateProfile) domain.RateProfile {
	if override != nil && override.Active {
		return *override
	}
	if global != nil {
		return *global
	}
	return domain.RateProfile{}
}

// Resolver reads profiles from the store and resolves them. The returned
// profile is a snapshot: later admin edits never leak into a computation
// already in flight.
type Resolver struct {
	store ProfileReader
	log   logger.Logger
}

func NewResolver(store ProfileReader, log logger.Logger) *Resolver {
	return &Resolver{store: store, log: log}
}

// ForCustomer returns the effective profile snapshot for a customer. Store
// read failures degrade to the next scope rather than failing the caller.
func (r *Resolver) ForCustomer(ctx context.Context, customerID string) domain.RateProfile {
	override, err := r.store.GetRateProfile(ctx, customerID)
	if err != nil {
		r.log.Warn("rate override lookup failed, falling back to global", map[string]interface{}{
			"customerId": customerID,
			"error":      err.Error(),
		})
		override = nil
	}

	global, err := r.store.GetGlobalRateProfile(ctx)
	if err != nil {
		r.log.Warn("global rate profile lookup failed, using zeroed defaults", map[string]interface{}{
			"error": err.Error(),
		})
		global = nil
	}

	return Resolve(override, global)
}
