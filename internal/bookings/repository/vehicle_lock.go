package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"renthub/pkg/config"
	"renthub/pkg/model"
)

const LockCollectionName = "Vehicle_locks"

// VehicleLockRepository provides operations for per-vehicle advisory
// locks held across the availability check and booking write.
type VehicleLockRepository interface {
	Create(ctx context.Context, lock *model.VehicleLock) (*model.VehicleLock, error)
	Delete(ctx context.Context, lockID string) error
}

type mongoVehicleLockRepository struct {
	collection *mongo.Collection
}

func NewVehicleLockRepository(cfg *config.Config) VehicleLockRepository {
	db := cfg.Client.Mongo.Client.Database(cfg.MongoDatabaseName)
	return &mongoVehicleLockRepository{
		collection: db.Collection(LockCollectionName),
	}
}

// Create returns a duplicate key error when the lock is already held.
func (r *mongoVehicleLockRepository) Create(ctx context.Context, lock *model.VehicleLock) (*model.VehicleLock, error) {
	lock.CreatedAt = time.Now()

	if _, err := r.collection.InsertOne(ctx, lock); err != nil {
		return nil, err
	}

	return lock, nil
}

func (r *mongoVehicleLockRepository) Delete(ctx context.Context, lockID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID})
	return err
}
