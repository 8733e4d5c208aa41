package collections

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/collection-desk/internal/domain/models"
	"github.com/mamadbah2/collection-desk/internal/repository"
)

// ErrInvalidRecord indicates the submitted record breaks a record invariant.
var ErrInvalidRecord = errors.New("invalid collection record")

// ErrNotFound is re-exported for handlers.
var ErrNotFound = repository.ErrNotFound

// RecordInput carries registration or edit fields. Nil fields are left unchanged on edit.
type RecordInput struct {
	ProducerName  *string             `json:"producer_name"`
	ReceptionDate *string             `json:"reception_date"`
	ProductType   *models.ProductType `json:"product_type"`
	Variety       *models.Variety     `json:"product_variety"`
	Quantity      *int                `json:"quantity"`
	BoxWeight     *string             `json:"box_weight"`
	Market        *string             `json:"market"`
	Region        *string             `json:"region"`
	Status        *models.Status      `json:"status"`
}

// Service manages the lifecycle of collection records.
type Service struct {
	store  repository.RecordStore
	loc    *time.Location
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

// NewService constructs the collections service. Dates default to today in loc.
func NewService(store repository.RecordStore, loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		store:  store,
		loc:    loc,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Register validates in, applies defaults and stores a new record owned by userID.
func (s *Service) Register(ctx context.Context, userID string, in RecordInput) (*models.CollectionRecord, error) {
	now := s.now()
	record := &models.CollectionRecord{
		ID:            s.newID(),
		ReceptionDate: models.Today(now, s.loc),
		Status:        models.StatusPending,
		UserID:        userID,
		CreatedAt:     now.UTC(),
		UpdatedAt:     now.UTC(),
	}
	if in.Quantity == nil {
		return nil, fmt.Errorf("%w: quantity is required", ErrInvalidRecord)
	}

	apply(record, in)
	if err := normalize(record); err != nil {
		return nil, err
	}

	if err := s.store.CreateRecord(ctx, record); err != nil {
		return nil, fmt.Errorf("create record: %w", err)
	}

	s.logger.Info("collection registered",
		zap.String("id", record.ID),
		zap.String("product_type", string(record.ProductType)),
		zap.String("market", record.Market),
		zap.Int("quantity", record.Quantity))
	return record, nil
}

// Get returns a record by id.
func (s *Service) Get(ctx context.Context, id string) (*models.CollectionRecord, error) {
	return s.store.GetRecord(ctx, id)
}

// List returns records matching filter in creation order.
func (s *Service) List(ctx context.Context, filter models.RecordFilter) ([]models.CollectionRecord, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidRecord, filter.Status)
	}
	records, err := s.store.ListRecords(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return records, nil
}

// Update applies the non-nil fields of in to record id.
func (s *Service) Update(ctx context.Context, id string, in RecordInput) (*models.CollectionRecord, error) {
	record, err := s.store.GetRecord(ctx, id)
	if err != nil {
		return nil, err
	}

	productChanged := in.ProductType != nil && *in.ProductType != record.ProductType
	if productChanged && in.Variety == nil {
		record.Variety = nil
	}
	if productChanged && in.BoxWeight == nil {
		record.BoxWeight = nil
	}

	apply(record, in)
	if err := normalize(record); err != nil {
		return nil, err
	}
	record.UpdatedAt = s.now().UTC()

	if err := s.store.UpdateRecord(ctx, record); err != nil {
		return nil, fmt.Errorf("update record %s: %w", id, err)
	}
	return record, nil
}

// SetStatus moves record id to status.
func (s *Service) SetStatus(ctx context.Context, id string, status models.Status) (*models.CollectionRecord, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidRecord, status)
	}
	return s.Update(ctx, id, RecordInput{Status: &status})
}

// ToggleStatus flips record id between pending and completed.
func (s *Service) ToggleStatus(ctx context.Context, id string) (*models.CollectionRecord, error) {
	record, err := s.store.GetRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	next := record.Status.Toggled()

	s.logger.Debug("toggling collection status", zap.String("id", id), zap.String("from", string(record.Status)), zap.String("to", string(next)))
	return s.Update(ctx, id, RecordInput{Status: &next})
}

// Delete removes record id.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteRecord(ctx, id); err != nil {
		return err
	}
	s.logger.Info("collection deleted", zap.String("id", id))
	return nil
}

func apply(r *models.CollectionRecord, in RecordInput) {
	if in.ProducerName != nil {
		r.ProducerName = *in.ProducerName
	}
	if in.ReceptionDate != nil {
		r.ReceptionDate = *in.ReceptionDate
	}
	if in.ProductType != nil {
		r.ProductType = *in.ProductType
	}
	if in.Variety != nil {
		v := *in.Variety
		r.Variety = &v
	}
	if in.Quantity != nil {
		r.Quantity = *in.Quantity
	}
	if in.BoxWeight != nil {
		w := *in.BoxWeight
		r.BoxWeight = &w
	}
	if in.Market != nil {
		r.Market = *in.Market
	}
	if in.Region != nil {
		r.Region = *in.Region
	}
	if in.Status != nil {
		r.Status = *in.Status
	}
}

// normalize enforces the record invariants and fills in box weight defaults.
func normalize(r *models.CollectionRecord) error {
	r.ProducerName = strings.TrimSpace(r.ProducerName)
	r.Market = strings.TrimSpace(r.Market)
	r.Region = strings.TrimSpace(r.Region)

	if r.ProducerName == "" {
		return fmt.Errorf("%w: producer name is required", ErrInvalidRecord)
	}
	if _, err := time.Parse(models.DateLayout, r.ReceptionDate); err != nil {
		return fmt.Errorf("%w: reception date %q is not YYYY-MM-DD", ErrInvalidRecord, r.ReceptionDate)
	}
	if !r.ProductType.Valid() {
		return fmt.Errorf("%w: unknown product type %q", ErrInvalidRecord, r.ProductType)
	}
	if r.Quantity < 0 {
		return fmt.Errorf("%w: quantity must not be negative", ErrInvalidRecord)
	}
	if !models.IsKnownMarket(r.Market) {
		return fmt.Errorf("%w: unknown market %q", ErrInvalidRecord, r.Market)
	}
	if !r.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidRecord, r.Status)
	}

	if r.Variety != nil && *r.Variety == "" {
		r.Variety = nil
	}
	if r.BoxWeight != nil {
		w := strings.TrimSpace(*r.BoxWeight)
		if w == "" {
			r.BoxWeight = nil
		} else {
			r.BoxWeight = &w
		}
	}

	allowed := models.VarietiesFor(r.ProductType)
	switch {
	case len(allowed) == 0 && r.Variety != nil:
		return fmt.Errorf("%w: %s takes no variety", ErrInvalidRecord, r.ProductType)
	case len(allowed) > 0 && r.Variety == nil:
		return fmt.Errorf("%w: %s requires a variety", ErrInvalidRecord, r.ProductType)
	case r.Variety != nil && !containsVariety(allowed, *r.Variety):
		return fmt.Errorf("%w: %s is not a %s variety", ErrInvalidRecord, *r.Variety, r.ProductType)
	}

	if r.IsPremiumPerilla() {
		r.BoxWeight = nil
		return nil
	}
	if r.BoxWeight == nil {
		w := defaultBoxWeight(r.ProductType, r.VarietyValue())
		r.BoxWeight = &w
	}
	return nil
}

func defaultBoxWeight(p models.ProductType, v models.Variety) string {
	if v == models.VarietyYaksi || (p == models.ProductPerillaLeaf && v == models.VarietyLoose) {
		return models.BoxWeight5kg
	}
	return models.BoxWeight10kg
}

func containsVariety(list []models.Variety, v models.Variety) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
