package delivery

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/collection-desk/internal/domain/models"
	"github.com/mamadbah2/collection-desk/internal/fonts"
	"github.com/mamadbah2/collection-desk/internal/repository"
)

type memoryStore struct {
	records []models.CollectionRecord
	err     error
}

func (m *memoryStore) CreateRecord(context.Context, *models.CollectionRecord) error { return nil }
func (m *memoryStore) GetRecord(context.Context, string) (*models.CollectionRecord, error) {
	return nil, repository.ErrNotFound
}
func (m *memoryStore) UpdateRecord(context.Context, *models.CollectionRecord) error { return nil }
func (m *memoryStore) DeleteRecord(context.Context, string) error                   { return nil }

func (m *memoryStore) ListRecords(_ context.Context, f models.RecordFilter) ([]models.CollectionRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []models.CollectionRecord
	for _, r := range m.records {
		if f.ReceptionDate != "" && r.ReceptionDate != f.ReceptionDate {
			continue
		}
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

type countingResolver struct{ calls int }

func (r *countingResolver) Resolve(context.Context) *fonts.Face {
	r.calls++
	return fonts.Builtin()
}

func newTestService(store *memoryStore, resolver FaceResolver) *Service {
	svc := NewService(store, NewFeeCalculator(nil, nil), testExporter(nil), resolver, "", time.UTC, nil)
	svc.now = func() time.Time { return time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC) }
	return svc
}

func sampleStore() *memoryStore {
	return &memoryStore{records: []models.CollectionRecord{
		{ID: "1", ProducerName: "김", Market: "부산청과", ProductType: models.ProductApple, BoxWeight: strptr("10kg"), Quantity: 3, Status: models.StatusCompleted, ReceptionDate: today},
		{ID: "2", ProducerName: "이", Market: "항도청과", ProductType: models.ProductPerillaLeaf, Variety: variety(models.VarietyPremium), Quantity: 40, Status: models.StatusCompleted, ReceptionDate: today},
		{ID: "3", ProducerName: "박", Market: "부산청과", ProductType: models.ProductApple, BoxWeight: strptr("10kg"), Quantity: 2, Status: models.StatusCompleted, ReceptionDate: today},
		{ID: "4", ProducerName: "최", Market: "부산청과", ProductType: models.ProductApple, Quantity: 9, Status: models.StatusPending, ReceptionDate: today},
	}}
}

func TestTodayGroups(t *testing.T) {
	groups, err := newTestService(sampleStore(), &countingResolver{}).TodayGroups(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 2)

	assert.Equal(t, "부산청과", groups[0].Market)
	assert.Equal(t, 5000, groups[0].Fees.GrandTotal)
	assert.Equal(t, 5, groups[0].TotalQuantity())
	assert.Equal(t, 24000, groups[1].Fees.GrandTotal)
	assert.Empty(t, groups[0].Warnings)
}

func TestTodayGroupsWarnings(t *testing.T) {
	store := &memoryStore{}
	for i := 0; i < 22; i++ {
		store.records = append(store.records, models.CollectionRecord{
			ID: fmt.Sprint(i), Market: "부산청과", ProductType: models.ProductApple, BoxWeight: strptr("3kg"),
			Quantity: 1, Status: models.StatusCompleted, ReceptionDate: today,
		})
	}

	groups, err := newTestService(store, &countingResolver{}).TodayGroups(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, 2, groups[0].Omitted)
	assert.Len(t, groups[0].Warnings, 2)
}

func TestTodayGroupsStoreError(t *testing.T) {
	_, err := newTestService(&memoryStore{err: errors.New("boom")}, &countingResolver{}).TodayGroups(context.Background())
	assert.Error(t, err)
}

func TestSelect(t *testing.T) {
	svc := newTestService(sampleStore(), &countingResolver{})
	ctx := context.Background()

	all, err := svc.Select(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	picked, err := svc.Select(ctx, []GroupKey{{Market: "항도청과", ProductType: "깻잎"}, {Market: "없음", ProductType: "사과"}})
	require.NoError(t, err)
	require.Len(t, picked, 1)
	assert.Equal(t, "항도청과", picked[0].Market)

	_, err = svc.Select(ctx, []GroupKey{{Market: "동부청과", ProductType: "사과"}})
	assert.ErrorIs(t, err, ErrNothingToExport)

	_, err = newTestService(&memoryStore{}, &countingResolver{}).Select(ctx, nil)
	assert.ErrorIs(t, err, ErrNothingToExport)
}

func TestArchiveNameUsesConfiguredLabel(t *testing.T) {
	svc := NewService(&memoryStore{}, NewFeeCalculator(nil, nil), testExporter(nil), &countingResolver{}, "출하서류", time.UTC, nil)
	svc.now = func() time.Time { return time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC) }
	assert.Equal(t, "출하서류_2026-10-19.zip", svc.ArchiveName())
	assert.Equal(t, "송품장_2026-10-19.zip", newTestService(&memoryStore{}, &countingResolver{}).ArchiveName())
}

func TestExportResolvesFontOnce(t *testing.T) {
	resolver := &countingResolver{}
	sink := &MemorySink{}

	n, err := newTestService(sampleStore(), resolver).Export(context.Background(), nil, sink)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, resolver.calls)
	assert.Equal(t, "송품장_부산청과_사과_2026-10-19.pdf", sink.Documents[0].FileName)
	assert.Equal(t, "송품장_항도청과_깻잎_2026-10-19.pdf", sink.Documents[1].FileName)
}

func TestRenderOne(t *testing.T) {
	svc := newTestService(sampleStore(), &countingResolver{})

	doc, err := svc.RenderOne(context.Background(), GroupKey{Market: "부산청과", ProductType: "사과"})
	require.NoError(t, err)
	assert.Equal(t, "송품장_부산청과_사과_2026-10-19.pdf", doc.FileName)
	assert.True(t, bytes.HasPrefix(doc.Data, []byte("%PDF-")))

	_, err = svc.RenderOne(context.Background(), GroupKey{Market: "부산청과", ProductType: "감"})
	assert.ErrorIs(t, err, ErrNothingToExport)
}

func TestBuildLedger(t *testing.T) {
	groups, err := newTestService(sampleStore(), &countingResolver{}).TodayGroups(context.Background())
	require.NoError(t, err)

	data, err := BuildLedger(today, groups)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	summary, err := f.GetRows(summarySheet)
	require.NoError(t, err)
	require.Len(t, summary, 5)
	assert.Equal(t, []string{"부산청과", "사과", "2", "5", "5000"}, summary[2])
	assert.Equal(t, "29000", summary[4][4])

	detail, err := f.GetRows(detailSheet)
	require.NoError(t, err)
	assert.Len(t, detail, 4)
}
