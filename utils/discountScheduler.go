package utils

import (
	"context"
	"time"

	"lingo/logger"

	"github.com/robfig/cron/v3"
)

// DiscountExpirer deactivates discounts whose window has ended.
type DiscountExpirer interface {
	ExpireDiscounts(ctx context.Context, at time.Time) (int64, error)
}

const discountJobTimeout = time.Minute

// InitializeDiscountScheduler starts a cron job that runs ExpireDiscounts on spec. The
// caller stops the returned scheduler on shutdown.
func InitializeDiscountScheduler(spec string, discounts DiscountExpirer) (*cron.Cron, error) {
	log := logger.Log.With("scheduler", "discounts")

	c := cron.New()
	if _, err := c.AddFunc(spec, func() { expireDiscounts(discounts, log) }); err != nil {
		return nil, err
	}
	c.Start()

	log.Info("discount scheduler started", "spec", spec)
	return c, nil
}

func expireDiscounts(discounts DiscountExpirer, log *logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), discountJobTimeout)
	defer cancel()

	n, err := discounts.ExpireDiscounts(ctx, time.Now())
	if err != nil {
		log.Error("expire discounts", "error", err)
		return
	}
	if n > 0 {
		log.Info("discounts expired", "count", n)
	}
}
