package reporting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/collection-desk/internal/domain/models"
	"github.com/mamadbah2/collection-desk/internal/repository"
	"github.com/mamadbah2/collection-desk/internal/service/delivery"
)

type stubGroups struct {
	groups []delivery.GroupSummary
	err    error
}

func (s stubGroups) Today() string { return "2026-10-19" }

func (s stubGroups) TodayGroups(context.Context) ([]delivery.GroupSummary, error) {
	return s.groups, s.err
}

type recordingStore struct {
	saved []models.DailyShipmentReport
	err   error
}

func (r *recordingStore) SaveDailyReport(_ context.Context, report models.DailyShipmentReport) error {
	if r.err != nil {
		return r.err
	}
	r.saved = append(r.saved, report)
	return nil
}

func (r *recordingStore) LatestDailyReport(_ context.Context, date string) (*models.DailyShipmentReport, error) {
	for i := len(r.saved) - 1; i >= 0; i-- {
		if r.saved[i].Date == date {
			report := r.saved[i]
			return &report, nil
		}
	}
	return nil, repository.ErrNotFound
}

type recordingLedger struct {
	calls int
	err   error
}

func (l *recordingLedger) AppendShipments(context.Context, models.DailyShipmentReport) error {
	l.calls++
	return l.err
}

type recordingNotifier struct {
	texts []string
}

func (n *recordingNotifier) SendText(_ context.Context, text string) error {
	n.texts = append(n.texts, text)
	return nil
}

func sampleGroups() []delivery.GroupSummary {
	return []delivery.GroupSummary{
		{
			DeliveryNoteGroup: models.DeliveryNoteGroup{
				Market: "부산청과", ProductType: "사과",
				Records: []models.CollectionRecord{{Quantity: 3}, {Quantity: 2}},
			},
			Fees: models.FeeSummary{GrandTotal: 5000},
		},
		{
			DeliveryNoteGroup: models.DeliveryNoteGroup{
				Market: "항도청과", ProductType: "깻잎",
				Records: []models.CollectionRecord{{Quantity: 40}},
			},
			Fees: models.FeeSummary{GrandTotal: 24000},
		},
	}
}

func TestRunDaily(t *testing.T) {
	store := &recordingStore{}
	ledger := &recordingLedger{err: errors.New("quota")}
	notifier := &recordingNotifier{}

	svc := NewService(stubGroups{groups: sampleGroups()}, store, ledger, notifier, nil)
	svc.now = func() time.Time { return time.Date(2026, 10, 19, 11, 0, 0, 0, time.UTC) }

	report, err := svc.RunDaily(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "2026-10-19", report.Date)
	assert.Equal(t, 29000, report.GrandTotal)
	require.Len(t, report.Lines, 2)
	assert.Equal(t, models.DailyShipmentLine{Market: "부산청과", ProductType: "사과", RecordCount: 2, TotalQuantity: 5, FeeTotal: 5000}, report.Lines[0])

	require.Len(t, store.saved, 1)
	assert.Equal(t, 1, ledger.calls)
	require.Len(t, notifier.texts, 1)
	assert.Contains(t, notifier.texts[0], "총 운임료: 29,000원")
}

func TestReportLooksUpStoredSnapshot(t *testing.T) {
	store := &recordingStore{}
	svc := NewService(stubGroups{groups: sampleGroups()}, store, nil, nil, nil)
	ctx := context.Background()

	_, err := svc.Report(ctx, "")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = svc.RunDaily(ctx)
	require.NoError(t, err)

	report, err := svc.Report(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 29000, report.GrandTotal)

	_, err = svc.Report(ctx, "2026-10-18")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRunDailyStoreFailure(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := NewService(stubGroups{groups: sampleGroups()}, &recordingStore{err: errors.New("db down")}, nil, notifier, nil)

	_, err := svc.RunDaily(context.Background())
	assert.ErrorContains(t, err, "db down")
	assert.Empty(t, notifier.texts)
}

func TestBuildDailyReportSourceFailure(t *testing.T) {
	svc := NewService(stubGroups{err: errors.New("boom")}, &recordingStore{}, nil, nil, nil)
	_, err := svc.BuildDailyReport(context.Background())
	assert.Error(t, err)
}

func TestFormatSummary(t *testing.T) {
	assert.Equal(t, "[2026-10-19] 오늘 완료된 송품장이 없습니다.", FormatSummary(models.DailyShipmentReport{Date: "2026-10-19"}))

	text := FormatSummary(models.DailyShipmentReport{
		Date:       "2026-10-19",
		Lines:      []models.DailyShipmentLine{{Market: "부산청과", ProductType: "사과", RecordCount: 2, TotalQuantity: 1200, FeeTotal: 1200000}},
		GrandTotal: 1200000,
	})
	assert.Contains(t, text, "- 부산청과 / 사과: 2건, 1,200개, 운임 1,200,000원")
	assert.Contains(t, text, "총 운임료: 1,200,000원")
}
