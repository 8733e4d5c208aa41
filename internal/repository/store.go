package repository

import (
	"context"
	"errors"

	"github.com/mamadbah2/collection-desk/internal/domain/models"
)

// ErrNotFound is returned when a record id does not exist.
var ErrNotFound = errors.New("record not found")

// RecordStore persists collection records. ListRecords returns records in creation order.
type RecordStore interface {
	CreateRecord(ctx context.Context, record *models.CollectionRecord) error
	GetRecord(ctx context.Context, id string) (*models.CollectionRecord, error)
	UpdateRecord(ctx context.Context, record *models.CollectionRecord) error
	DeleteRecord(ctx context.Context, id string) error
	ListRecords(ctx context.Context, filter models.RecordFilter) ([]models.CollectionRecord, error)
}

// ReportStore persists daily shipment snapshots.
type ReportStore interface {
	SaveDailyReport(ctx context.Context, report models.DailyShipmentReport) error
	LatestDailyReport(ctx context.Context, date string) (*models.DailyShipmentReport, error)
}

// Store is the full persistence surface of the service.
type Store interface {
	RecordStore
	ReportStore
	Close(ctx context.Context) error
}
