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

const staffCollectionName = "staff"

// mongoStaffRepository implements repository.StaffRepository.
type mongoStaffRepository struct {
	collection *mongo.Collection
}

// NewMongoStaffRepository creates a staff repository backed by MongoDB.
func NewMongoStaffRepository(db *mongo.Database) repository.StaffRepository {
	return &mongoStaffRepository{
		collection: db.Collection(staffCollectionName),
	}
}

// Create inserts a new staff user.
func (r *mongoStaffRepository) Create(ctx context.Context, user *domain.StaffUser) (primitive.ObjectID, error) {
	if user.Email == "" || user.PasswordHash == "" || user.Role == "" {
		return primitive.NilObjectID, errors.New("staff email, password hash, and role are required")
	}

	user.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, user)
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

// GetByEmail retrieves a staff user by email address.
func (r *mongoStaffRepository) GetByEmail(ctx context.Context, email string) (*domain.StaffUser, error) {
	var user domain.StaffUser
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByID retrieves a staff user by ObjectID.
func (r *mongoStaffRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.StaffUser, error) {
	var user domain.StaffUser
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// EnsureStaffIndexes creates the indexes for the staff collection.
func EnsureStaffIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
