package jobs

import (
	"context"
	"time"

	"github.com/bank-suite/cards-service/internal/logger"
	"github.com/robfig/cron/v3"
)

// cardExpirer is the slice of the card store the sweeper needs.
type cardExpirer interface {
	MarkExpired(ctx context.Context, now time.Time) (int64, error)
}

// ExpirySweeper periodically marks cards whose expiry month has passed
// as EXPIRED. Expiry is also enforced at read time by status checks;
// the sweep keeps the stored status in line with the calendar.
type ExpirySweeper struct {
	cards    cardExpirer
	schedule string
	cron     *cron.Cron
}

func NewExpirySweeper(cards cardExpirer, schedule string) *ExpirySweeper {
	return &ExpirySweeper{
		cards:    cards,
		schedule: schedule,
		cron:     cron.New(),
	}
}

// Start registers the sweep job and launches the scheduler. It also
// runs one sweep immediately so a long-stopped service catches up
// without waiting for the next tick.
func (s *ExpirySweeper) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.schedule, func() { s.sweep(ctx) }); err != nil {
		return err
	}
	s.cron.Start()
	logger.Info("expiry sweeper started", logger.Fields{"schedule": s.schedule})

	go s.sweep(ctx)
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (s *ExpirySweeper) Stop() {
	<-s.cron.Stop().Done()
	logger.Info("expiry sweeper stopped", nil)
}

func (s *ExpirySweeper) sweep(ctx context.Context) {
	marked, err := s.cards.MarkExpired(ctx, time.Now())
	if err != nil {
		logger.Error("expiry sweep failed", err, nil)
		return
	}
	if marked > 0 {
		logger.Info("expiry sweep marked cards", logger.Fields{"count": marked})
	}
}
