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

const financialCollectionName = "financial_records"

// mongoFinancialRepository implements repository.FinancialRecordRepository.
type mongoFinancialRepository struct {
	collection *mongo.Collection
}

// NewMongoFinancialRepository creates a financial record repository backed by MongoDB.
func NewMongoFinancialRepository(db *mongo.Database) repository.FinancialRecordRepository {
	return &mongoFinancialRepository{
		collection: db.Collection(financialCollectionName),
	}
}

// Create inserts a new financial record.
func (r *mongoFinancialRepository) Create(ctx context.Context, record *domain.FinancialRecord) (primitive.ObjectID, error) {
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

// GetByID retrieves a financial record by ObjectID.
func (r *mongoFinancialRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.FinancialRecord, error) {
	var record domain.FinancialRecord
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// List retrieves records matching the filter, newest first.
func (r *mongoFinancialRepository) List(ctx context.Context, filter repository.FinancialFilter) ([]domain.FinancialRecord, error) {
	query := buildFinancialQuery(filter)
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})

	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []domain.FinancialRecord
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// Summary aggregates income, expense and balance over the filter.
func (r *mongoFinancialRepository) Summary(ctx context.Context, filter repository.FinancialFilter) (*repository.FinancialSummary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: buildFinancialQuery(filter)}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$type",
			"total": bson.M{"$sum": "$amount"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Type  string  `bson:"_id"`
		Total float64 `bson:"total"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	summary := &repository.FinancialSummary{}
	for _, row := range rows {
		switch domain.RecordType(row.Type) {
		case domain.RecordIncome:
			summary.Income = row.Total
		case domain.RecordExpense:
			summary.Expense = row.Total
		}
	}
	summary.Balance = summary.Income - summary.Expense
	return summary, nil
}

func buildFinancialQuery(filter repository.FinancialFilter) bson.M {
	query := bson.M{}
	if filter.Type != "" {
		query["type"] = filter.Type
	}
	if filter.ClientID != nil {
		query["clientId"] = *filter.ClientID
	}
	if filter.From != nil || filter.To != nil {
		date := bson.M{}
		if filter.From != nil {
			date["$gte"] = *filter.From
		}
		if filter.To != nil {
			date["$lte"] = *filter.To
		}
		query["date"] = date
	}
	return query
}

// EnsureFinancialIndexes creates the indexes for the financial_records collection.
func EnsureFinancialIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "type", Value: 1}, {Key: "date", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "clientId", Value: 1}},
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
