// Package scheduler runs periodic maintenance jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"snowpool/internal/export"
	"snowpool/internal/service"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// jobTimeout bounds a single job run.
const jobTimeout = time.Minute

// Job is a named unit of periodic work.
type Job struct {
	Name     string
	Schedule string
	Run      func(ctx context.Context) error
}

// Scheduler manages cron job scheduling.
type Scheduler struct {
	cron   *cron.Cron
	logger zerolog.Logger
}

func New(logger *zerolog.Logger) *Scheduler {
	base := zerolog.Nop()
	if logger != nil {
		base = logger.With().Str("component", "scheduler").Logger()
	}

	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		logger: base,
	}
}

// Register adds the job under its schedule. Standard five-field specs and descriptors such as
// "@every 1m" are accepted.
func (s *Scheduler) Register(job Job) error {
	if _, err := s.cron.AddFunc(job.Schedule, func() { s.run(job) }); err != nil {
		return fmt.Errorf("register job %s: %w", job.Name, err)
	}
	s.logger.Info().Str("job", job.Name).Str("schedule", job.Schedule).Msg("job registered")
	return nil
}

func (s *Scheduler) run(job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := time.Now()
	if err := job.Run(ctx); err != nil {
		s.logger.Error().Err(err).Str("job", job.Name).Msg("job failed")
		return
	}
	s.logger.Debug().Str("job", job.Name).Dur("duration", time.Since(start)).Msg("job finished")
}

func (s *Scheduler) Start() {
	s.logger.Info().Int("jobs", len(s.cron.Entries())).Msg("starting cron scheduler")
	s.cron.Start()
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info().Msg("cron scheduler stopped")
}

func (s *Scheduler) Jobs() int {
	return len(s.cron.Entries())
}

// DemandRefreshJob republishes the per-area demand gauges.
func DemandRefreshJob(schedule string, market *service.Marketplace) Job {
	return Job{
		Name:     "demand_refresh",
		Schedule: schedule,
		Run: func(ctx context.Context) error {
			_, err := market.RefreshDemand(ctx)
			return err
		},
	}
}

// ExportSnapshotJob writes a bookings workbook into dir on every run.
func ExportSnapshotJob(schedule, dir string, src export.Source, logger *zerolog.Logger) Job {
	return Job{
		Name:     "export_snapshot",
		Schedule: schedule,
		Run: func(ctx context.Context) error {
			path, err := export.SaveSnapshot(ctx, src, dir, time.Now().UTC())
			if err != nil {
				return err
			}
			if logger != nil {
				logger.Info().Str("file_path", path).Msg("export snapshot written")
			}
			return nil
		},
	}
}

// Pruner drops expired state.
type Pruner interface {
	Prune() int
}

// PruneJob periodically evicts expired rate limit windows.
func PruneJob(schedule string, p Pruner) Job {
	return Job{
		Name:     "rate_limit_prune",
		Schedule: schedule,
		Run: func(ctx context.Context) error {
			p.Prune()
			return nil
		},
	}
}
