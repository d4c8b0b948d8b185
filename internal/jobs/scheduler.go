package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"relaychat/api/internal/repository"
)

// Scheduler runs the periodic maintenance this service owns: guest accounts
// are throwaway identities and would otherwise accumulate forever.
type Scheduler struct {
	cron      *cron.Cron
	users     *repository.UserRepository
	retention time.Duration
	log       zerolog.Logger
}

func NewScheduler(users *repository.UserRepository, retention time.Duration, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(cron.WithSeconds()),
		users:     users,
		retention: retention,
		log:       log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 30 3 * * *", s.purgeStaleGuests); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop waits for any running job to finish, up to a small grace period.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		s.log.Warn().Msg("scheduler stop timed out")
	}
}

func (s *Scheduler) purgeStaleGuests() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := time.Now().Add(-s.retention)
	removed, err := s.users.DeleteStaleGuests(ctx, cutoff)
	if err != nil {
		s.log.Error().Err(err).Msg("stale guest purge failed")
		return
	}
	if removed > 0 {
		s.log.Info().Int64("removed", removed).Time("cutoff", cutoff).Msg("purged stale guest accounts")
	}
}
