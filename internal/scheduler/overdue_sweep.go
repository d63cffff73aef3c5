package scheduler

import (
	"context"
	"fmt"
	"log"

	"anoa.com/librarydesk/internal/service"
	"github.com/robfig/cron/v3"
)

// OverdueSweepScheduler runs the overdue sweep on a cron schedule. The sweep
// remains available through the admin endpoint whether or not a schedule is
// configured.
type OverdueSweepScheduler struct {
	lending  service.LendingService
	schedule string
	cron     *cron.Cron
}

func NewOverdueSweepScheduler(lending service.LendingService, schedule string) *OverdueSweepScheduler {
	return &OverdueSweepScheduler{
		lending:  lending,
		schedule: schedule,
		cron:     cron.New(),
	}
}

// Start schedules the sweep; with an empty schedule it does nothing.
func (s *OverdueSweepScheduler) Start() error {
	if s.schedule == "" {
		log.Printf("Overdue sweep scheduler: disabled")
		return nil
	}

	_, err := s.cron.AddFunc(s.schedule, func() {
		if err := s.lending.SweepOverdue(context.Background()); err != nil {
			log.Printf("Overdue sweep failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid overdue sweep schedule %q: %w", s.schedule, err)
	}

	s.cron.Start()
	log.Printf("Overdue sweep scheduler: running on %q", s.schedule)
	return nil
}

func (s *OverdueSweepScheduler) Stop() {
	s.cron.Stop()
}
