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

const clientCollectionName = "clients"

// mongoClientRepository implements repository.ClientRepository using MongoDB.
type mongoClientRepository struct {
	collection *mongo.Collection
}

// NewMongoClientRepository creates a client repository backed by MongoDB.
func NewMongoClientRepository(db *mongo.Database) repository.ClientRepository {
	return &mongoClientRepository{
		collection: db.Collection(clientCollectionName),
	}
}

// Create inserts a new client. The unique indexes on email and phone are
// the real uniqueness guarantee; a duplicate-key error here is mapped to
// ErrDuplicateKey for the service layer to translate.
func (r *mongoClientRepository) Create(ctx context.Context, client *domain.Client) (primitive.ObjectID, error) {
	client.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	client.CreatedAt = now
	client.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, client)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves a client by ObjectID.
func (r *mongoClientRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Client, error) {
	var client domain.Client
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&client)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &client, nil
}

// GetByEmail retrieves a client by email address.
func (r *mongoClientRepository) GetByEmail(ctx context.Context, email string) (*domain.Client, error) {
	var client domain.Client
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&client)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &client, nil
}

// GetByPhone retrieves a client by phone number.
func (r *mongoClientRepository) GetByPhone(ctx context.Context, phone string) (*domain.Client, error) {
	var client domain.Client
	err := r.collection.FindOne(ctx, bson.M{"phone": phone}).Decode(&client)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &client, nil
}

// List retrieves clients matching the options, newest first.
func (r *mongoClientRepository) List(ctx context.Context, opts repository.ClientListOptions) ([]domain.Client, error) {
	filter := bson.M{}
	if opts.Status != "" {
		filter["status"] = opts.Status
	}
	if opts.Search != "" {
		pattern := primitive.Regex{Pattern: opts.Search, Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"firstName": pattern},
			bson.M{"lastName": pattern},
			bson.M{"email": pattern},
		}
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if opts.Limit > 0 {
		findOptions.SetLimit(opts.Limit)
	}
	if opts.Skip > 0 {
		findOptions.SetSkip(opts.Skip)
	}

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var clients []domain.Client
	if err = cursor.All(ctx, &clients); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return clients, nil
}

// Update modifies an existing client's editable fields.
func (r *mongoClientRepository) Update(ctx context.Context, client *domain.Client) error {
	if client.ID == primitive.NilObjectID {
		return errors.New("client ID is required for update")
	}

	update := bson.M{
		"$set": bson.M{
			"firstName":         client.FirstName,
			"lastName":          client.LastName,
			"email":             client.Email,
			"phone":             client.Phone,
			"birthDate":         client.BirthDate,
			"gender":            client.Gender,
			"emergencyContact":  client.EmergencyContact,
			"medicalConditions": client.MedicalConditions,
			"goals":             client.Goals,
			"status":            client.Status,
			"updatedAt":         time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": client.ID}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicateKey
		}
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// UpdateStatus flips only the status field.
func (r *mongoClientRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.ClientStatus) error {
	update := bson.M{
		"$set": bson.M{
			"status":    status,
			"updatedAt": time.Now().UTC(),
		},
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

// Delete removes a client record. The service layer is responsible for
// the contract guards and runs this inside a transaction.
func (r *mongoClientRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// GetWithContracts joins the client with all contracts referencing it.
func (r *mongoClientRepository) GetWithContracts(ctx context.Context, id primitive.ObjectID) (*domain.ClientWithContracts, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": id}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         contractCollectionName,
			"localField":   "_id",
			"foreignField": "clientId",
			"as":           "contracts",
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []domain.ClientWithContracts
	if err = cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, repository.ErrNotFound
	}
	return &results[0], nil
}

// Stats aggregates the status breakdown of the collection.
func (r *mongoClientRepository) Stats(ctx context.Context) (*repository.ClientStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   "$status",
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	stats := &repository.ClientStats{}
	for _, row := range rows {
		stats.Total += row.Count
		switch domain.ClientStatus(row.Status) {
		case domain.ClientActive:
			stats.Active = row.Count
		case domain.ClientInactive:
			stats.Inactive = row.Count
		case domain.ClientSuspended:
			stats.Suspended = row.Count
		}
	}
	return stats, nil
}

// EnsureClientIndexes creates the indexes for the clients collection.
// The unique email and phone indexes are the source of truth for the
// uniqueness rules; the service-level checks only exist to produce a
// friendly error first.
func EnsureClientIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "phone", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}},
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
