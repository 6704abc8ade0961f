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

const nutritionCollectionName = "nutrition_plans"

// mongoNutritionRepository implements repository.NutritionPlanRepository.
type mongoNutritionRepository struct {
	collection *mongo.Collection
}

// NewMongoNutritionRepository creates a nutrition plan repository backed by MongoDB.
func NewMongoNutritionRepository(db *mongo.Database) repository.NutritionPlanRepository {
	return &mongoNutritionRepository{
		collection: db.Collection(nutritionCollectionName),
	}
}

// Create inserts a new nutrition plan.
func (r *mongoNutritionRepository) Create(ctx context.Context, plan *domain.NutritionPlan) (primitive.ObjectID, error) {
	plan.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now
	for i := range plan.Meals {
		if plan.Meals[i].ID.IsZero() {
			plan.Meals[i].ID = primitive.NewObjectID()
		}
		plan.Meals[i].TotalCalories = domain.MealCalories(plan.Meals[i].Foods)
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

// GetByID retrieves a nutrition plan by ObjectID.
func (r *mongoNutritionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.NutritionPlan, error) {
	var plan domain.NutritionPlan
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// GetByClientID retrieves a client's nutrition plans, newest first.
func (r *mongoNutritionRepository) GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.NutritionPlan, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"clientId": clientID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var plans []domain.NutritionPlan
	if err = cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return plans, nil
}

// Update modifies an existing nutrition plan.
func (r *mongoNutritionRepository) Update(ctx context.Context, plan *domain.NutritionPlan) error {
	if plan.ID == primitive.NilObjectID {
		return errors.New("nutrition plan ID is required for update")
	}
	for i := range plan.Meals {
		if plan.Meals[i].ID.IsZero() {
			plan.Meals[i].ID = primitive.NewObjectID()
		}
		plan.Meals[i].TotalCalories = domain.MealCalories(plan.Meals[i].Foods)
	}

	update := bson.M{
		"$set": bson.M{
			"name":          plan.Name,
			"description":   plan.Description,
			"dailyCalories": plan.DailyCalories,
			"macros":        plan.Macros,
			"meals":         plan.Meals,
			"restrictions":  plan.Restrictions,
			"isActive":      plan.IsActive,
			"updatedAt":     time.Now().UTC(),
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

// Delete removes a nutrition plan.
func (r *mongoNutritionRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureNutritionIndexes creates the indexes for the nutrition_plans collection.
func EnsureNutritionIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "clientId", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "contractId", Value: 1}},
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
