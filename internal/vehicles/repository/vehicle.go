package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	vehicleserrors "renthub/internal/vehicles/errors"
	"renthub/pkg/config"
	"renthub/pkg/model"
)

const CollectionName = "Vehicles"

type VehicleRepository interface {
	Create(ctx context.Context, vehicle *model.Vehicle) error
	FindByID(ctx context.Context, id string) (*model.Vehicle, error)
	Find(ctx context.Context, filter *model.VehicleFilter, limit int, offset int64) ([]*model.Vehicle, error)
	CountByFilter(ctx context.Context, filter *model.VehicleFilter) (int64, error)
	Update(ctx context.Context, id string, updates bson.M) error
	SetAvailability(ctx context.Context, id string, available bool) error
	Delete(ctx context.Context, id string) error
}

type mongoVehicleRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoVehicleRepository(cfg *config.Config) VehicleRepository {
	db := cfg.Client.Mongo.Client.Database(cfg.MongoDatabaseName)
	return &mongoVehicleRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoVehicleRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoVehicleRepository) Create(ctx context.Context, vehicle *model.Vehicle) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	vehicle.CreatedAt = now
	vehicle.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, vehicle)
	if err != nil {
		return fmt.Errorf("failed to create vehicle: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		vehicle.ID = oid.Hex()
	}
	return nil
}

func (r *mongoVehicleRepository) FindByID(ctx context.Context, id string) (*model.Vehicle, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", vehicleserrors.ErrInvalidID, id)
	}

	var vehicle model.Vehicle
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&vehicle)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, vehicleserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find vehicle: %w", err)
	}

	return &vehicle, nil
}

func (r *mongoVehicleRepository) Find(ctx context.Context, filter *model.VehicleFilter, limit int, offset int64) ([]*model.Vehicle, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "price_per_day", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, buildFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find vehicles: %w", err)
	}
	defer cursor.Close(ctx)

	var vehicles []*model.Vehicle
	if err = cursor.All(ctx, &vehicles); err != nil {
		return nil, fmt.Errorf("failed to decode vehicles: %w", err)
	}

	return vehicles, nil
}

func (r *mongoVehicleRepository) CountByFilter(ctx context.Context, filter *model.VehicleFilter) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, buildFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count vehicles: %w", err)
	}
	return count, nil
}

// buildFilter translates the listing filter to a Mongo query. Model
// and location match case-insensitively; price bounds are inclusive.
func buildFilter(filter *model.VehicleFilter) bson.M {
	query := bson.M{}
	if filter == nil {
		return query
	}

	if filter.Model != "" {
		query["model"] = bson.M{"$regex": primitive.Regex{Pattern: "^" + escapeRegex(filter.Model) + "$", Options: "i"}}
	}
	if filter.Location != "" {
		query["location"] = bson.M{"$regex": primitive.Regex{Pattern: escapeRegex(filter.Location), Options: "i"}}
	}

	price := bson.M{}
	if filter.MinPrice != nil {
		price["$gte"] = *filter.MinPrice
	}
	if filter.MaxPrice != nil {
		price["$lte"] = *filter.MaxPrice
	}
	if len(price) > 0 {
		query["price_per_day"] = price
	}

	return query
}

func escapeRegex(s string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`, `.`, `\.`, `+`, `\+`, `*`, `\*`, `?`, `\?`,
		`(`, `\(`, `)`, `\)`, `[`, `\[`, `]`, `\]`, `{`, `\{`, `}`, `\}`,
		`^`, `\^`, `$`, `\$`, `|`, `\|`,
	)
	return replacer.Replace(s)
}

func (r *mongoVehicleRepository) Update(ctx context.Context, id string, updates bson.M) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", vehicleserrors.ErrInvalidID, id)
	}

	updates["updated_at"] = time.Now().UTC().Truncate(time.Millisecond)

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": updates})
	if err != nil {
		return fmt.Errorf("failed to update vehicle: %w", err)
	}
	if result.MatchedCount == 0 {
		return vehicleserrors.ErrNotFound
	}

	return nil
}

func (r *mongoVehicleRepository) SetAvailability(ctx context.Context, id string, available bool) error {
	return r.Update(ctx, id, bson.M{"availability": available})
}

func (r *mongoVehicleRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", vehicleserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete vehicle: %w", err)
	}
	if result.DeletedCount == 0 {
		return vehicleserrors.ErrNotFound
	}

	return nil
}
