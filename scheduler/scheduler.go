package scheduler

import (
	"context"
	"time"

	"archoops/service"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// sweepTimeout bounds one settlement sweep run
const sweepTimeout = 5 * time.Minute

// Scheduler drives the periodic settlement sweep and the stale-game report
type Scheduler struct {
	cron       *cron.Cron
	completion service.CompletionService
}

// New creates a scheduler with the sweep and stale-report jobs registered
func New(completion service.CompletionService, sweepSpec, staleReportSpec string) (*Scheduler, error) {
	s := &Scheduler{
		cron:       cron.New(),
		completion: completion,
	}

	if _, err := s.cron.AddFunc(sweepSpec, s.runSweep); err != nil {
		return nil, err
	}
	if _, err := s.cron.AddFunc(staleReportSpec, s.reportStale); err != nil {
		return nil, err
	}

	return s, nil
}

// Start begins running scheduled jobs
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Info("Settlement scheduler started")
}

// Stop stops the scheduler and waits for running jobs to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Settlement scheduler stopped")
}

// runSweep settles all completed games with unsettled predictions. The sweep
// is idempotent, so overlapping or repeated runs converge.
func (s *Scheduler) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	processed, err := s.completion.ProcessCompletedGames(ctx)
	if err != nil {
		log.WithError(err).Error("Settlement sweep failed")
		return
	}

	if processed > 0 {
		log.WithField("games", processed).Info("Settlement sweep finished")
	}
}

// reportStale logs games the upstream feed never reported complete so an
// operator can finish them manually
func (s *Scheduler) reportStale() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	games, err := s.completion.FindStaleGames(ctx)
	if err != nil {
		log.WithError(err).Error("Stale game report failed")
		return
	}

	for _, game := range games {
		log.WithFields(log.Fields{
			"gameId":   game.ID,
			"status":   game.Status,
			"startsAt": game.StartsAt,
		}).Warn("Game needs attention: still in progress past grace window")
	}
}
