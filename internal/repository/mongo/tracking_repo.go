package mongo

import (
	"context"
	"errors"
	"time"

	"rfortes/gym-studio/internal/domain"
	"rfortes/gym-studio/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const trackingCollectionName = "physical_tracking"

// mongoTrackingRepository implements repository.PhysicalTrackingRepository.
type mongoTrackingRepository struct {
	collection *mongo.Collection
}

// NewMongoTrackingRepository creates a tracking repository backed by MongoDB.
func NewMongoTrackingRepository(db *mongo.Database) repository.PhysicalTrackingRepository {
	return &mongoTrackingRepository{
		collection: db.Collection(trackingCollectionName),
	}
}

// Create inserts a new tracking record.
func (r *mongoTrackingRepository) Create(ctx context.Context, record *domain.PhysicalTracking) (primitive.ObjectID, error) {
	record.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, record)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves a tracking record by ObjectID.
func (r *mongoTrackingRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.PhysicalTracking, error) {
	var record domain.PhysicalTracking
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// GetByClientID retrieves a client's tracking history, newest first.
func (r *mongoTrackingRepository) GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.PhysicalTracking, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"clientId": clientID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []domain.PhysicalTracking
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// Update modifies an existing tracking record.
func (r *mongoTrackingRepository) Update(ctx context.Context, record *domain.PhysicalTracking) error {
	if record.ID == primitive.NilObjectID {
		return errors.New("tracking record ID is required for update")
	}

	update := bson.M{
		"$set": bson.M{
			"date":         record.Date,
			"weight":       record.Weight,
			"bodyFat":      record.BodyFat,
			"muscleMass":   record.MuscleMass,
			"measurements": record.Measurements,
			"notes":        record.Notes,
			"updatedAt":    time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": record.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// AddPhoto appends a progress photo entry to a tracking record.
func (r *mongoTrackingRepository) AddPhoto(ctx context.Context, id primitive.ObjectID, photo domain.ProgressPhoto) error {
	update := bson.M{
		"$push": bson.M{"photos": photo},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a tracking record.
func (r *mongoTrackingRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureTrackingIndexes creates the indexes for the physical_tracking collection.
func EnsureTrackingIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "clientId", Value: 1}, {Key: "date", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "contractId", Value: 1}},
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
