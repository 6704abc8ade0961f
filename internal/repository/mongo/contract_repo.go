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

const contractCollectionName = "contracts"

// mongoContractRepository implements repository.ContractRepository.
//
// Contracts are never deleted here: cancelled and completed are terminal
// logical states, and every status transition is expressed as a single
// UpdateOne whose filter names the allowed source states, so the
// read-modify-write of status is atomic even outside a multi-document
// transaction.
type mongoContractRepository struct {
	collection *mongo.Collection
}

// NewMongoContractRepository creates a contract repository backed by MongoDB.
func NewMongoContractRepository(db *mongo.Database) repository.ContractRepository {
	return &mongoContractRepository{
		collection: db.Collection(contractCollectionName),
	}
}

// Create inserts a new contract. Only the workflow engine calls this.
func (r *mongoContractRepository) Create(ctx context.Context, contract *domain.Contract) (primitive.ObjectID, error) {
	contract.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	contract.CreatedAt = now
	contract.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, contract)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves a contract by ObjectID.
func (r *mongoContractRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Contract, error) {
	var contract domain.Contract
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&contract)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &contract, nil
}

// GetByClientID retrieves all contracts of a client, newest first.
func (r *mongoContractRepository) GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.Contract, error) {
	return r.find(ctx, bson.M{"clientId": clientID})
}

// GetByPlanID retrieves all contracts referencing a plan.
func (r *mongoContractRepository) GetByPlanID(ctx context.Context, planID primitive.ObjectID) ([]domain.Contract, error) {
	return r.find(ctx, bson.M{"planId": planID})
}

// CountActiveForPair counts active contracts for one (client, plan)
// pair. The workflow engine calls this inside its assignment
// transaction to enforce the at-most-one-active invariant.
func (r *mongoContractRepository) CountActiveForPair(ctx context.Context, clientID, planID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{
		"clientId": clientID,
		"planId":   planID,
		"status":   domain.ContractActive,
	})
}

// CountActiveForClient counts a client's active contracts.
func (r *mongoContractRepository) CountActiveForClient(ctx context.Context, clientID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{
		"clientId": clientID,
		"status":   domain.ContractActive,
	})
}

// CountActiveForPlan counts the active contracts referencing a plan.
func (r *mongoContractRepository) CountActiveForPlan(ctx context.Context, planID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{
		"planId": planID,
		"status": domain.ContractActive,
	})
}

// Renew extends the end date and forces the contract back to active.
// A cancelled contract never matches the filter.
func (r *mongoContractRepository) Renew(ctx context.Context, id primitive.ObjectID, newEndDate time.Time) (bool, error) {
	filter := bson.M{
		"_id":    id,
		"status": bson.M{"$ne": domain.ContractCancelled},
	}
	update := bson.M{
		"$set": bson.M{
			"endDate":   newEndDate,
			"status":    domain.ContractActive,
			"updatedAt": time.Now().UTC(),
		},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

// Cancel transitions to cancelled, recording the reason and timestamp.
// Cancelled and completed contracts never match the filter.
func (r *mongoContractRepository) Cancel(ctx context.Context, id primitive.ObjectID, reason string, at time.Time) (bool, error) {
	filter := bson.M{
		"_id":    id,
		"status": bson.M{"$nin": bson.A{domain.ContractCancelled, domain.ContractCompleted}},
	}
	update := bson.M{
		"$set": bson.M{
			"status":             domain.ContractCancelled,
			"cancellationReason": reason,
			"cancellationDate":   at,
			"updatedAt":          time.Now().UTC(),
		},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

// Complete transitions an active contract to completed.
func (r *mongoContractRepository) Complete(ctx context.Context, id primitive.ObjectID, at time.Time) (bool, error) {
	filter := bson.M{
		"_id":    id,
		"status": domain.ContractActive,
	}
	update := bson.M{
		"$set": bson.M{
			"status":         domain.ContractCompleted,
			"completionDate": at,
			"updatedAt":      time.Now().UTC(),
		},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

// CancelAllNonActiveByClient sweeps a client's non-active contracts into
// cancelled. Used by the client deletion cascade, inside its transaction.
func (r *mongoContractRepository) CancelAllNonActiveByClient(ctx context.Context, clientID primitive.ObjectID, reason string, at time.Time) (int64, error) {
	return r.cancelAllNonActive(ctx, bson.M{"clientId": clientID}, reason, at)
}

// CancelAllNonActiveByPlan sweeps a plan's non-active contracts into
// cancelled. Used by the plan deletion cascade.
func (r *mongoContractRepository) CancelAllNonActiveByPlan(ctx context.Context, planID primitive.ObjectID, reason string, at time.Time) (int64, error) {
	return r.cancelAllNonActive(ctx, bson.M{"planId": planID}, reason, at)
}

func (r *mongoContractRepository) cancelAllNonActive(ctx context.Context, ownerFilter bson.M, reason string, at time.Time) (int64, error) {
	filter := bson.M{"status": bson.M{"$ne": domain.ContractActive}}
	for k, v := range ownerFilter {
		filter[k] = v
	}
	update := bson.M{
		"$set": bson.M{
			"status":             domain.ContractCancelled,
			"cancellationReason": reason,
			"cancellationDate":   at,
			"updatedAt":          time.Now().UTC(),
		},
	}
	result, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

// FindActive retrieves active contracts whose date range covers now.
func (r *mongoContractRepository) FindActive(ctx context.Context, now time.Time) ([]domain.Contract, error) {
	return r.find(ctx, bson.M{
		"status":    domain.ContractActive,
		"startDate": bson.M{"$lte": now},
		"endDate":   bson.M{"$gte": now},
	})
}

// FindExpiring retrieves active contracts ending within the window.
func (r *mongoContractRepository) FindExpiring(ctx context.Context, now time.Time, within time.Duration) ([]domain.Contract, error) {
	return r.find(ctx, bson.M{
		"status":  domain.ContractActive,
		"endDate": bson.M{"$gte": now, "$lte": now.Add(within)},
	})
}

// FindExpired retrieves contracts still marked active past their end date.
func (r *mongoContractRepository) FindExpired(ctx context.Context, now time.Time) ([]domain.Contract, error) {
	return r.find(ctx, bson.M{
		"status":  domain.ContractActive,
		"endDate": bson.M{"$lt": now},
	})
}

// GetWithDetails joins a contract with its client and plan documents.
func (r *mongoContractRepository) GetWithDetails(ctx context.Context, id primitive.ObjectID) (*domain.ContractWithDetails, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": id}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         clientCollectionName,
			"localField":   "clientId",
			"foreignField": "_id",
			"as":           "client",
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         planCollectionName,
			"localField":   "planId",
			"foreignField": "_id",
			"as":           "plan",
		}}},
		{{Key: "$unwind", Value: "$client"}},
		{{Key: "$unwind", Value: "$plan"}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []domain.ContractWithDetails
	if err = cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, repository.ErrNotFound
	}
	return &results[0], nil
}

func (r *mongoContractRepository) find(ctx context.Context, filter bson.M) ([]domain.Contract, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "startDate", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var contracts []domain.Contract
	if err = cursor.All(ctx, &contracts); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return contracts, nil
}

// EnsureContractIndexes creates the indexes for the contracts
// collection. The compound (clientId, planId, status) index backs the
// duplicate-active-pair check made during assignment.
func EnsureContractIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "clientId", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "planId", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "clientId", Value: 1}, {Key: "planId", Value: 1}, {Key: "status", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "startDate", Value: 1}, {Key: "endDate", Value: 1}},
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
