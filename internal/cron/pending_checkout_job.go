package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

const (
	pendingCheckoutJobName    = "pending-checkout-expiry"
	defaultPendingCheckoutTTL = 72 * time.Hour
)

type checkoutExpirer interface {
	ExpirePendingCheckouts(ctx context.Context, cutoff time.Time) (int, error)
}

// PendingCheckoutJobParams configure the abandoned checkout sweep.
type PendingCheckoutJobParams struct {
	Logger  *logger.Logger
	Expirer checkoutExpirer
	TTL     time.Duration
}

// NewPendingCheckoutJob builds the job that removes online checkouts whose
// payment never completed within the TTL.
func NewPendingCheckoutJob(params PendingCheckoutJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Expirer == nil {
		return nil, fmt.Errorf("checkout expirer required")
	}
	ttl := params.TTL
	if ttl <= 0 {
		ttl = defaultPendingCheckoutTTL
	}
	return &pendingCheckoutJob{
		logg:    params.Logger,
		expirer: params.Expirer,
		ttl:     ttl,
		now:     time.Now,
	}, nil
}

type pendingCheckoutJob struct {
	logg    *logger.Logger
	expirer checkoutExpirer
	ttl     time.Duration
	now     func() time.Time
}

func (j *pendingCheckoutJob) Name() string { return pendingCheckoutJobName }

func (j *pendingCheckoutJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.ttl)
	count, err := j.expirer.ExpirePendingCheckouts(ctx, cutoff)
	if count > 0 {
		j.logg.Info(j.logg.WithFields(ctx, map[string]any{
			"count":  count,
			"cutoff": cutoff.Format(time.RFC3339),
		}), "expired pending checkouts")
	}
	if err != nil {
		return fmt.Errorf("expire pending checkouts: %w", err)
	}
	return nil
}
