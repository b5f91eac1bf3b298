package jobs

import (
	"log"
	"time"

	"ambassador-program/internal/services"
)

// PayoutJob periodically aggregates confirmed commissions into
// scheduled payouts. Aggregation is keyed by calendar month; re-runs
// inside the same month only pick up referrals not yet attached to a
// payout.
type PayoutJob struct {
	service *services.PayoutService
	stop    chan struct{}
}

func NewPayoutJob(service *services.PayoutService) *PayoutJob {
	return &PayoutJob{
		service: service,
		stop:    make(chan struct{}),
	}
}

// Start begins the periodic aggregation loop.
func (j *PayoutJob) Start(interval time.Duration) {
	go func() {
		// Run immediately on start
		j.run()

		// Then run periodically
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				j.run()
			case <-j.stop:
				return
			}
		}
	}()
}

// Stop terminates the loop.
func (j *PayoutJob) Stop() {
	close(j.stop)
}

func (j *PayoutJob) run() {
	periodStart, periodEnd := services.PreviousMonth(time.Now())
	if _, err := j.service.AggregatePeriod(periodStart, periodEnd); err != nil {
		log.Printf("Payout aggregation error: %v", err)
	}
}
