package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	rentalserrors "renthub/internal/rentals/errors"
	"renthub/pkg/config"
	"renthub/pkg/model"
)

const CollectionName = "Rental_history"

type RentalRepository interface {
	Create(ctx context.Context, record *model.RentalRecord) error
	FindByID(ctx context.Context, id string) (*model.RentalRecord, error)
	FindByUser(ctx context.Context, userID string) ([]*model.RentalRecord, error)
	FindByVehicle(ctx context.Context, vehicleID string) ([]*model.RentalRecord, error)
	UpdateStatus(ctx context.Context, id string, status string) error
}

type mongoRentalRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoRentalRepository(cfg *config.Config) RentalRepository {
	db := cfg.Client.Mongo.Client.Database(cfg.MongoDatabaseName)
	return &mongoRentalRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoRentalRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoRentalRepository) Create(ctx context.Context, record *model.RentalRecord) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	record.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	result, err := r.collection.InsertOne(ctx, record)
	if err != nil {
		return fmt.Errorf("failed to create rental record: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		record.ID = oid.Hex()
	}
	return nil
}

func (r *mongoRentalRepository) FindByID(ctx context.Context, id string) (*model.RentalRecord, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", rentalserrors.ErrInvalidID, id)
	}

	var record model.RentalRecord
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, rentalserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find rental record: %w", err)
	}

	return &record, nil
}

func (r *mongoRentalRepository) FindByUser(ctx context.Context, userID string) ([]*model.RentalRecord, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	return r.findMany(ctx, bson.M{"user_id": userID})
}

func (r *mongoRentalRepository) FindByVehicle(ctx context.Context, vehicleID string) ([]*model.RentalRecord, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	return r.findMany(ctx, bson.M{"vehicle_id": vehicleID})
}

func (r *mongoRentalRepository) findMany(ctx context.Context, filter bson.M) ([]*model.RentalRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "rental_start", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find rental records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*model.RentalRecord
	if err = cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode rental records: %w", err)
	}

	return records, nil
}

func (r *mongoRentalRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", rentalserrors.ErrInvalidID, id)
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return fmt.Errorf("failed to update rental record status: %w", err)
	}
	if result.MatchedCount == 0 {
		return rentalserrors.ErrNotFound
	}

	return nil
}
