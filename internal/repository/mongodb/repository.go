package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/mamadbah2/collection-desk/internal/domain/models"
	"github.com/mamadbah2/collection-desk/internal/repository"
)

const (
	recordsCollection = "collection_records"
	reportsCollection = "daily_shipment_reports"
)

// MongoDBRepository implements repository.Store for MongoDB.
type MongoDBRepository struct {
	client *mongo.Client
	db     *mongo.Database
	logger *zap.Logger
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string, logger *zap.Logger) (*MongoDBRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	repo := &MongoDBRepository{client: client, db: client.Database(dbName), logger: logger}
	if err := repo.ensureIndexes(ctx); err != nil {
		logger.Warn("failed to create mongodb indexes", zap.Error(err))
	}
	return repo, nil
}

func (r *MongoDBRepository) ensureIndexes(ctx context.Context) error {
	_, err := r.db.Collection(recordsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "reception_date", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("records indexes: %w", err)
	}
	_, err = r.db.Collection(reportsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "date", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("reports index: %w", err)
	}
	return nil
}

func (r *MongoDBRepository) CreateRecord(ctx context.Context, record *models.CollectionRecord) error {
	if _, err := r.db.Collection(recordsCollection).InsertOne(ctx, record); err != nil {
		return fmt.Errorf("failed to insert collection record: %w", err)
	}
	return nil
}

func (r *MongoDBRepository) GetRecord(ctx context.Context, id string) (*models.CollectionRecord, error) {
	var record models.CollectionRecord
	err := r.db.Collection(recordsCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load collection record %s: %w", id, err)
	}
	return &record, nil
}

func (r *MongoDBRepository) UpdateRecord(ctx context.Context, record *models.CollectionRecord) error {
	res, err := r.db.Collection(recordsCollection).ReplaceOne(ctx, bson.M{"_id": record.ID}, record)
	if err != nil {
		return fmt.Errorf("failed to update collection record %s: %w", record.ID, err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *MongoDBRepository) DeleteRecord(ctx context.Context, id string) error {
	res, err := r.db.Collection(recordsCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete collection record %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *MongoDBRepository) ListRecords(ctx context.Context, filter models.RecordFilter) ([]models.CollectionRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.db.Collection(recordsCollection).Find(ctx, recordQuery(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query collection records: %w", err)
	}

	records := make([]models.CollectionRecord, 0)
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode collection records: %w", err)
	}
	return records, nil
}

// SaveDailyReport upserts the snapshot for report.Date.
func (r *MongoDBRepository) SaveDailyReport(ctx context.Context, report models.DailyShipmentReport) error {
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}
	opts := options.Replace().SetUpsert(true)
	_, err := r.db.Collection(reportsCollection).ReplaceOne(ctx, bson.M{"date": report.Date}, report, opts)
	if err != nil {
		return fmt.Errorf("failed to upsert daily report: %w", err)
	}
	return nil
}

// LatestDailyReport returns the snapshot stored for date.
func (r *MongoDBRepository) LatestDailyReport(ctx context.Context, date string) (*models.DailyShipmentReport, error) {
	var report models.DailyShipmentReport
	err := r.db.Collection(reportsCollection).FindOne(ctx, bson.M{"date": date}).Decode(&report)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load daily report %s: %w", date, err)
	}
	return &report, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func recordQuery(filter models.RecordFilter) bson.M {
	query := bson.M{}
	if filter.UserID != "" {
		query["user_id"] = filter.UserID
	}
	if filter.ReceptionDate != "" {
		query["reception_date"] = filter.ReceptionDate
	}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}
	if filter.Market != "" {
		query["market"] = filter.Market
	}
	if filter.ProductType != "" {
		query["product_type"] = string(filter.ProductType)
	}
	return query
}

var _ repository.Store = (*MongoDBRepository)(nil)
