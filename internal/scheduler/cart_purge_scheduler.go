package scheduler

import (
	"time"

	"github.com/ikkim/storefront-backend/internal/app/service"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// CartPurgeScheduler deletes anonymous carts that have sat untouched
// past the retention window.
type CartPurgeScheduler struct {
	cron        *cron.Cron
	cartService service.CartService
	schedule    string
	retention   time.Duration
}

func NewCartPurgeScheduler(cartService service.CartService, schedule string, retention time.Duration) *CartPurgeScheduler {
	return &CartPurgeScheduler{
		cron:        cron.New(),
		cartService: cartService,
		schedule:    schedule,
		retention:   retention,
	}
}

// Start registers the purge job and starts the cron runner.
func (s *CartPurgeScheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		logger.Info("Starting scheduled cart purge", map[string]interface{}{
			"retention": s.retention.String(),
		})

		purged, err := s.cartService.PurgeAbandoned(s.retention)
		if err != nil {
			logger.Error("Failed to purge abandoned carts", err)
			return
		}

		logger.Info("Cart purge completed", map[string]interface{}{
			"purged_carts": purged,
		})
	})

	if err != nil {
		logger.Error("Failed to register cart purge job", err)
		return err
	}

	s.cron.Start()
	logger.Info("Cart purge scheduler started", map[string]interface{}{
		"schedule": s.schedule,
	})

	return nil
}

// Stop stops the scheduler.
func (s *CartPurgeScheduler) Stop() {
	logger.Info("Stopping cart purge scheduler...", nil)
	s.cron.Stop()
	logger.Info("Cart purge scheduler stopped", nil)
}
