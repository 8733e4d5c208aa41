package reporting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mamadbah2/collection-desk/internal/domain/models"
	"github.com/mamadbah2/collection-desk/internal/repository"
	"github.com/mamadbah2/collection-desk/internal/repository/sheets"
	"github.com/mamadbah2/collection-desk/internal/service/delivery"
	"github.com/mamadbah2/collection-desk/pkg/clients/notify"
)

// GroupSource yields today's delivery note groups.
type GroupSource interface {
	Today() string
	TodayGroups(ctx context.Context) ([]delivery.GroupSummary, error)
}

// Service snapshots the day's delivery note totals.
type Service struct {
	groups   GroupSource
	reports  repository.ReportStore
	ledger   sheets.Ledger
	notifier notify.Client
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires a new reporting service instance. ledger and notifier are optional.
func NewService(groups GroupSource, reports repository.ReportStore, ledger sheets.Ledger, notifier notify.Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		groups:   groups,
		reports:  reports,
		ledger:   ledger,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// BuildDailyReport aggregates today's groups without persisting anything.
func (s *Service) BuildDailyReport(ctx context.Context) (models.DailyShipmentReport, error) {
	groups, err := s.groups.TodayGroups(ctx)
	if err != nil {
		return models.DailyShipmentReport{}, fmt.Errorf("load delivery groups: %w", err)
	}

	report := models.DailyShipmentReport{
		Date:      s.groups.Today(),
		Lines:     make([]models.DailyShipmentLine, 0, len(groups)),
		CreatedAt: s.now().UTC(),
	}
	for _, g := range groups {
		report.Lines = append(report.Lines, models.DailyShipmentLine{
			Market:        g.Market,
			ProductType:   g.ProductType,
			RecordCount:   len(g.Records),
			TotalQuantity: g.TotalQuantity(),
			FeeTotal:      g.Fees.GrandTotal,
		})
		report.GrandTotal += g.Fees.GrandTotal
	}
	return report, nil
}

// RunDaily builds, stores and publishes today's report. Only build and store
// failures are returned; ledger and notification failures are logged.
func (s *Service) RunDaily(ctx context.Context) (models.DailyShipmentReport, error) {
	report, err := s.BuildDailyReport(ctx)
	if err != nil {
		return report, err
	}

	if err := s.reports.SaveDailyReport(ctx, report); err != nil {
		return report, fmt.Errorf("save daily report: %w", err)
	}
	s.logger.Info("daily shipment report saved",
		zap.String("date", report.Date),
		zap.Int("groups", len(report.Lines)),
		zap.Int("grand_total", report.GrandTotal))

	if s.ledger != nil {
		if err := s.ledger.AppendShipments(ctx, report); err != nil {
			s.logger.Error("failed to mirror report to sheet ledger", zap.Error(err))
		}
	}

	if s.notifier != nil {
		if err := s.notifier.SendText(ctx, FormatSummary(report)); err != nil {
			s.logger.Error("failed to send daily summary", zap.Error(err))
		}
	}

	return report, nil
}

// Report returns the stored snapshot for date, or for today when date is empty.
func (s *Service) Report(ctx context.Context, date string) (*models.DailyShipmentReport, error) {
	if date == "" {
		date = s.groups.Today()
	}
	report, err := s.reports.LatestDailyReport(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("load daily report %s: %w", date, err)
	}
	return report, nil
}

// FormatSummary renders a report as a short Korean text message.
func FormatSummary(report models.DailyShipmentReport) string {
	p := message.NewPrinter(language.Korean)

	if len(report.Lines) == 0 {
		return fmt.Sprintf("[%s] 오늘 완료된 송품장이 없습니다.", report.Date)
	}

	var b strings.Builder
	b.WriteString(p.Sprintf("[%s] 송품장 %d건\n", report.Date, len(report.Lines)))
	for _, line := range report.Lines {
		b.WriteString(p.Sprintf("- %s / %s: %d건, %d개, 운임 %d원\n",
			line.Market, line.ProductType, line.RecordCount, line.TotalQuantity, line.FeeTotal))
	}
	b.WriteString(p.Sprintf("총 운임료: %d원", report.GrandTotal))
	return b.String()
}
