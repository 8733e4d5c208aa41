package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mamadbah2/collection-desk/internal/domain/models"
	"github.com/mamadbah2/collection-desk/internal/repository"
)

// GormStore implements repository.Store on a SQL database through GORM.
type GormStore struct {
	db     *gorm.DB
	logger *zap.Logger
}

// Open connects to driver (sqlite or postgres) and migrates the schema.
func Open(driver, dsn string, logger *zap.Logger) (*GormStore, error) {
	var dialector gorm.Dialector
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres", "postgresql":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}
	return New(db, logger)
}

// New wraps an existing connection and migrates the schema.
func New(db *gorm.DB, logger *zap.Logger) (*GormStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := db.AutoMigrate(&models.CollectionRecord{}, &models.DailyShipmentReport{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return &GormStore{db: db, logger: logger}, nil
}

func (s *GormStore) CreateRecord(ctx context.Context, record *models.CollectionRecord) error {
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("insert collection record: %w", err)
	}
	return nil
}

func (s *GormStore) GetRecord(ctx context.Context, id string) (*models.CollectionRecord, error) {
	var record models.CollectionRecord
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load collection record %s: %w", id, err)
	}
	return &record, nil
}

func (s *GormStore) UpdateRecord(ctx context.Context, record *models.CollectionRecord) error {
	result := s.db.WithContext(ctx).Model(&models.CollectionRecord{}).
		Where("id = ?", record.ID).
		Select("*").Omit("id", "created_at", "user_id").
		Updates(record)
	if result.Error != nil {
		return fmt.Errorf("update collection record %s: %w", record.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (s *GormStore) DeleteRecord(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.CollectionRecord{})
	if result.Error != nil {
		return fmt.Errorf("delete collection record %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (s *GormStore) ListRecords(ctx context.Context, filter models.RecordFilter) ([]models.CollectionRecord, error) {
	query := s.db.WithContext(ctx).Model(&models.CollectionRecord{})
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.ReceptionDate != "" {
		query = query.Where("reception_date = ?", filter.ReceptionDate)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Market != "" {
		query = query.Where("market = ?", filter.Market)
	}
	if filter.ProductType != "" {
		query = query.Where("product_type = ?", filter.ProductType)
	}

	records := make([]models.CollectionRecord, 0)
	if err := query.Order("created_at ASC").Order("id ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list collection records: %w", err)
	}
	return records, nil
}

// SaveDailyReport stores a snapshot, replacing any earlier one for the same date.
func (s *GormStore) SaveDailyReport(ctx context.Context, report models.DailyShipmentReport) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("date = ?", report.Date).Delete(&models.DailyShipmentReport{}).Error; err != nil {
			return fmt.Errorf("clear daily report %s: %w", report.Date, err)
		}
		report.ID = 0
		if err := tx.Create(&report).Error; err != nil {
			return fmt.Errorf("insert daily report %s: %w", report.Date, err)
		}
		return nil
	})
}

// LatestDailyReport returns the snapshot stored for date.
func (s *GormStore) LatestDailyReport(ctx context.Context, date string) (*models.DailyShipmentReport, error) {
	var report models.DailyShipmentReport
	err := s.db.WithContext(ctx).Where("date = ?", date).Order("id DESC").First(&report).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load daily report %s: %w", date, err)
	}
	return &report, nil
}

// Close releases the underlying connection pool.
func (s *GormStore) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

var _ repository.Store = (*GormStore)(nil)
