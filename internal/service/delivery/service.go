package delivery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/collection-desk/internal/document"
	"github.com/mamadbah2/collection-desk/internal/domain/models"
	"github.com/mamadbah2/collection-desk/internal/fonts"
	"github.com/mamadbah2/collection-desk/internal/repository"
)

// ErrNothingToExport is returned when no completed record of today matches the request.
var ErrNothingToExport = errors.New("no completed collections to export today")

// FaceResolver picks the font for an export batch.
type FaceResolver interface {
	Resolve(ctx context.Context) *fonts.Face
}

// GroupKey selects one delivery note.
type GroupKey struct {
	Market      string `json:"market"`
	ProductType string `json:"product_type"`
}

// GroupSummary is a group together with its fees and anything the operator should know.
type GroupSummary struct {
	models.DeliveryNoteGroup
	Fees     models.FeeSummary `json:"fees"`
	Omitted  int               `json:"omitted"`
	Warnings []string          `json:"warnings,omitempty"`
}

// Task converts the summary into an export task.
func (g GroupSummary) Task() Task {
	return Task{Group: g.DeliveryNoteGroup, Fees: g.Fees}
}

// Service produces today's delivery notes from the records store.
type Service struct {
	records   repository.RecordStore
	fees      *FeeCalculator
	exporter  *Exporter
	fonts     FaceResolver
	fileLabel string
	loc       *time.Location
	logger    *zap.Logger
	now       func() time.Time
}

// NewService wires the delivery note service.
func NewService(records repository.RecordStore, fees *FeeCalculator, exporter *Exporter, resolver FaceResolver, fileLabel string, loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	if fileLabel == "" {
		fileLabel = DefaultFileLabel
	}
	return &Service{
		records:   records,
		fees:      fees,
		exporter:  exporter,
		fonts:     resolver,
		fileLabel: fileLabel,
		loc:       loc,
		logger:    logger,
		now:       time.Now,
	}
}

// Today is the cooperative-local calendar day.
func (s *Service) Today() string {
	return models.Today(s.now(), s.loc)
}

// ArchiveName is the download name of a multi-note archive for today.
func (s *Service) ArchiveName() string {
	return fmt.Sprintf("%s_%s.zip", s.fileLabel, s.Today())
}

// TodayGroups returns today's delivery note groups with their fee summaries.
func (s *Service) TodayGroups(ctx context.Context) ([]GroupSummary, error) {
	groups, err := s.todayNotes(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]GroupSummary, 0, len(groups))
	for _, g := range groups {
		summaries = append(summaries, s.summarize(g))
	}
	return summaries, nil
}

func (s *Service) todayNotes(ctx context.Context) ([]models.DeliveryNoteGroup, error) {
	today := s.Today()
	records, err := s.records.ListRecords(ctx, models.RecordFilter{
		ReceptionDate: today,
		Status:        models.StatusCompleted,
	})
	if err != nil {
		return nil, fmt.Errorf("list today's completed records: %w", err)
	}
	return GroupCompleted(records, today, s.fileLabel), nil
}

func (s *Service) summarize(g models.DeliveryNoteGroup) GroupSummary {
	summary := GroupSummary{DeliveryNoteGroup: g, Fees: s.fees.Calculate(g.Records)}

	for _, line := range summary.Fees.Lines {
		if line.Unpriced {
			summary.Warnings = append(summary.Warnings, fmt.Sprintf("%s: 운임 단가가 없어 0원으로 계산되었습니다", line.Label))
		}
	}
	if n := len(g.Records); n > document.Capacity {
		summary.Omitted = n - document.Capacity
		summary.Warnings = append(summary.Warnings,
			fmt.Sprintf("%d건 중 %d건만 송품장에 표시됩니다", n, document.Capacity))
	}
	return summary
}

// Select returns the groups named by keys, in the order given. An empty key list selects all.
func (s *Service) Select(ctx context.Context, keys []GroupKey) ([]GroupSummary, error) {
	if len(keys) == 0 {
		all, err := s.TodayGroups(ctx)
		if err != nil {
			return nil, err
		}
		if len(all) == 0 {
			return nil, ErrNothingToExport
		}
		return all, nil
	}

	groups, err := s.todayNotes(ctx)
	if err != nil {
		return nil, err
	}

	selected := make([]GroupSummary, 0, len(keys))
	for _, k := range keys {
		g, ok := FindGroup(groups, k.Market, k.ProductType)
		if !ok {
			s.logger.Info("requested group has no completed records today",
				zap.String("market", k.Market), zap.String("product_type", k.ProductType))
			continue
		}
		selected = append(selected, s.summarize(g))
	}
	if len(selected) == 0 {
		return nil, ErrNothingToExport
	}
	return selected, nil
}

// RenderOne renders the single note for key.
func (s *Service) RenderOne(ctx context.Context, key GroupKey) (Document, error) {
	groups, err := s.Select(ctx, []GroupKey{key})
	if err != nil {
		return Document{}, err
	}

	face := s.fonts.Resolve(ctx)
	doc, err := s.exporter.RenderTask(groups[0].Task(), face)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %s: %w", ErrExportFailed, groups[0].FileName, err)
	}
	return doc, nil
}

// Export renders every selected group into sink. The font is resolved once for the batch.
func (s *Service) Export(ctx context.Context, keys []GroupKey, sink Sink) (int, error) {
	groups, err := s.Select(ctx, keys)
	if err != nil {
		return 0, err
	}

	face := s.fonts.Resolve(ctx)
	queue := &Queue{}
	for _, g := range groups {
		queue.Push(g.Task())
	}

	count, err := s.exporter.Run(ctx, queue, face, sink)
	if err != nil {
		return count, err
	}

	s.logger.Info("delivery notes exported",
		zap.Int("count", count),
		zap.String("font_origin", string(face.Origin)))
	return count, nil
}
