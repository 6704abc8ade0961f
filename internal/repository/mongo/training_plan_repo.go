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

const planCollectionName = "training_plans"

// mongoTrainingPlanRepository implements repository.TrainingPlanRepository.
type mongoTrainingPlanRepository struct {
	collection *mongo.Collection
}

// NewMongoTrainingPlanRepository creates a plan repository backed by MongoDB.
func NewMongoTrainingPlanRepository(db *mongo.Database) repository.TrainingPlanRepository {
	return &mongoTrainingPlanRepository{
		collection: db.Collection(planCollectionName),
	}
}

// Create inserts a new training plan.
func (r *mongoTrainingPlanRepository) Create(ctx context.Context, plan *domain.TrainingPlan) (primitive.ObjectID, error) {
	plan.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now
	for i := range plan.Exercises {
		if plan.Exercises[i].ID.IsZero() {
			plan.Exercises[i].ID = primitive.NewObjectID()
		}
		if plan.Exercises[i].RestSeconds == 0 {
			plan.Exercises[i].RestSeconds = domain.DefaultRestSeconds
		}
	}

	result, err := r.collection.InsertOne(ctx, plan)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves a plan by ObjectID.
func (r *mongoTrainingPlanRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TrainingPlan, error) {
	var plan domain.TrainingPlan
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// List retrieves plans matching the options.
func (r *mongoTrainingPlanRepository) List(ctx context.Context, opts repository.PlanListOptions) ([]domain.TrainingPlan, error) {
	filter := bson.M{}
	if opts.Level != "" {
		filter["level"] = opts.Level
	}
	if opts.Active != nil {
		filter["isActive"] = *opts.Active
	}
	if opts.Search != "" {
		pattern := primitive.Regex{Pattern: opts.Search, Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"description": pattern},
		}
	}
	if opts.MinPrice != nil || opts.MaxPrice != nil {
		price := bson.M{}
		if opts.MinPrice != nil {
			price["$gte"] = *opts.MinPrice
		}
		if opts.MaxPrice != nil {
			price["$lte"] = *opts.MaxPrice
		}
		filter["price"] = price
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
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

	var plans []domain.TrainingPlan
	if err = cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return plans, nil
}

// Update modifies an existing plan.
func (r *mongoTrainingPlanRepository) Update(ctx context.Context, plan *domain.TrainingPlan) error {
	if plan.ID == primitive.NilObjectID {
		return errors.New("plan ID is required for update")
	}

	update := bson.M{
		"$set": bson.M{
			"name":        plan.Name,
			"description": plan.Description,
			"duration":    plan.DurationWeeks,
			"level":       plan.Level,
			"goals":       plan.Goals,
			"exercises":   plan.Exercises,
			"price":       plan.Price,
			"isActive":    plan.IsActive,
			"updatedAt":   time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": plan.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// SetActive flips only the isActive flag.
func (r *mongoTrainingPlanRepository) SetActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	update := bson.M{
		"$set": bson.M{
			"isActive":  active,
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

// Delete removes a plan record. Contract guards live in the service
// layer, inside a transaction.
func (r *mongoTrainingPlanRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoTrainingPlanRepository) GetWithClients(ctx context.Context, id primitive.ObjectID) (*domain.PlanWithClients, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": id}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         contractCollectionName,
			"localField":   "_id",
			"foreignField": "planId",
			"as":           "contracts",
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         clientCollectionName,
			"localField":   "contracts.clientId",
			"foreignField": "_id",
			"as":           "clients",
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []domain.PlanWithClients
	if err = cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, repository.ErrNotFound
	}
	return &results[0], nil
}

// Stats aggregates plan counts and the average price.
func (r *mongoTrainingPlanRepository) Stats(ctx context.Context) (*repository.PlanStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":          nil,
			"total":        bson.M{"$sum": 1},
			"active":       bson.M{"$sum": bson.M{"$cond": bson.A{"$isActive", 1, 0}}},
			"averagePrice": bson.M{"$avg": "$price"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Total        int64   `bson:"total"`
		Active       int64   `bson:"active"`
		AveragePrice float64 `bson:"averagePrice"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	stats := &repository.PlanStats{}
	if len(rows) > 0 {
		stats.Total = rows[0].Total
		stats.Active = rows[0].Active
		stats.AveragePrice = rows[0].AveragePrice
	}
	return stats, nil
}

// EnsureTrainingPlanIndexes creates the indexes for the plans collection.
func EnsureTrainingPlanIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "name", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "level", Value: 1}, {Key: "isActive", Value: 1}},
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
