package scheduler

import (
	"context"
	"fmt"
	"time"

	"coop-lending/internal/domain/adminlog"
	"coop-lending/internal/usecase/lifecycle"
	memberUC "coop-lending/internal/usecase/member"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

type LoanSweeper interface {
	ApplyFines(ctx context.Context, actorID string) (*lifecycle.FineRunResult, error)
	SweepDefaults(ctx context.Context, actorID string) (*lifecycle.DefaultRunResult, error)
}

type DormancyMarker interface {
	MarkDormant(ctx context.Context, actorID string) (*memberUC.DormancyResult, error)
}

// Scheduler runs the daily loan maintenance jobs.
type Scheduler struct {
	cronEngine   *cron.Cron
	loans        LoanSweeper
	members      DormancyMarker
	logger       logrus.FieldLogger
	fineSpec     string
	dormancySpec string
	jobTimeout   time.Duration
}

func New(loans LoanSweeper, members DormancyMarker, logger logrus.FieldLogger,
	fineSpec string, // e.g. "0 6 * * *" (06:00 daily)
	dormancySpec string, // e.g. "30 6 * * *"
) *Scheduler {
	return &Scheduler{
		cronEngine: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithLogger(cron.PrintfLogger(logger)),
			cron.WithChain(jobWrappers(logger)...),
		),
		loans:        loans,
		members:      members,
		logger:       logger,
		fineSpec:     fineSpec,
		dormancySpec: dormancySpec,
		jobTimeout:   5 * time.Minute,
	}
}

// jobWrappers recovers panicking jobs and skips overlapping runs, reporting
// through logrus instead of cron's stdlib logger.
func jobWrappers(logger logrus.FieldLogger) []cron.JobWrapper {
	l := cron.PrintfLogger(logger)
	return []cron.JobWrapper{cron.Recover(l), cron.SkipIfStillRunning(l)}
}

func (s *Scheduler) Start() error {
	s.logger.Info("starting loan scheduler")

	if _, err := s.cronEngine.AddFunc(s.fineSpec, func() { s.RunFines(context.Background()) }); err != nil {
		return fmt.Errorf("add fines job: %w", err)
	}
	if _, err := s.cronEngine.AddFunc(s.dormancySpec, func() { s.RunDormancy(context.Background()) }); err != nil {
		return fmt.Errorf("add dormancy job: %w", err)
	}

	s.cronEngine.Start()
	s.logger.WithFields(logrus.Fields{"fines": s.fineSpec, "dormancy": s.dormancySpec}).Info("loan scheduler started")
	return nil
}

// RunFines charges overdue installments, then defaults loans past maturity.
func (s *Scheduler) RunFines(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.jobTimeout)
	defer cancel()

	fines, err := s.loans.ApplyFines(ctx, adminlog.SystemActor)
	if err != nil {
		s.logger.WithError(err).Error("fines job failed")
	} else {
		s.logger.WithFields(logrus.Fields{"fined": fines.Fined, "total": fines.TotalFined.String()}).Info("fines job done")
	}

	defaults, err := s.loans.SweepDefaults(ctx, adminlog.SystemActor)
	if err != nil {
		s.logger.WithError(err).Error("default sweep failed")
		return
	}
	s.logger.WithField("defaulted", defaults.Defaulted).Info("default sweep done")
}

func (s *Scheduler) RunDormancy(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.jobTimeout)
	defer cancel()

	res, err := s.members.MarkDormant(ctx, adminlog.SystemActor)
	if err != nil {
		s.logger.WithError(err).Error("dormancy job failed")
		return
	}
	s.logger.WithField("marked", res.Marked).Info("dormancy job done")
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping loan scheduler")
	<-s.cronEngine.Stop().Done()
	s.logger.Info("loan scheduler stopped")
}
