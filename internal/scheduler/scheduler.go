package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/collection-desk/internal/config"
	"github.com/mamadbah2/collection-desk/internal/domain/models"
)

// DailyReporter produces the end-of-day shipment snapshot.
type DailyReporter interface {
	RunDaily(ctx context.Context) (models.DailyShipmentReport, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	reporter DailyReporter
	spec     string
	timeout  time.Duration
	logger   *zap.Logger
}

// NewScheduler creates a scheduler running cron expressions in the configured timezone.
func NewScheduler(cfg config.ReportingConfig, reporter DailyReporter, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", cfg.Timezone, err)
	}

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		reporter: reporter,
		spec:     cfg.CronSchedule,
		timeout:  2 * time.Minute,
		logger:   logger,
	}, nil
}

// Start registers the daily report job and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler", zap.String("daily_report", s.spec))

	if _, err := s.cron.AddFunc(s.spec, s.runDailyReport); err != nil {
		return fmt.Errorf("schedule daily report %q: %w", s.spec, err)
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runDailyReport() {
	s.logger.Info("generating daily shipment report")
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	report, err := s.reporter.RunDaily(ctx)
	if err != nil {
		s.logger.Error("failed to generate daily shipment report", zap.Error(err))
		return
	}
	s.logger.Info("daily shipment report completed",
		zap.String("date", report.Date),
		zap.Int("grand_total", report.GrandTotal))
}
