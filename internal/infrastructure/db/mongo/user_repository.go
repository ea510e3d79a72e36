package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rosterhq/roster-api/internal/core/domain"
)

const userCollection = "users"

// MongoUserRepository is the MongoDB-backed credential store.
type MongoUserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{coll: db.Collection(userCollection)}
}

type mongoUser struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	PasswordHash string             `bson:"password_hash"`
	Role         string             `bson:"role"`
	Active       bool               `bson:"active"`
	APIKey       string             `bson:"api_key,omitempty"`
	CreatedAt    int64              `bson:"created_at"`
	UpdatedAt    int64              `bson:"updated_at"`
}

func ensureUserIndexes(ctx context.Context, coll *mongo.Collection) error {
	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			// Sparse so users who never logged in (no key) don't collide.
			Keys:    bson.D{{Key: "api_key", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	})
	return err
}

// Create inserts the user. The unique username index turns a concurrent
// duplicate insert into a duplicate-key error, mapped to ErrUserExists.
func (r *MongoUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	doc := mongoUser{
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		Role:         string(user.Role),
		Active:       user.Active,
		APIKey:       user.APIKey,
		CreatedAt:    user.CreatedAt.Unix(),
		UpdatedAt:    user.UpdatedAt.Unix(),
	}

	_, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	// fetch back to get ID
	return r.FindByUsername(ctx, user.Username)
}

func (r *MongoUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var mu mongoUser
	if err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

// FindByAPIKey matches the stored key exactly and only for active users.
func (r *MongoUserRepository) FindByAPIKey(ctx context.Context, key string) (*domain.User, error) {
	if key == "" {
		return nil, domain.ErrUserNotFound
	}
	var mu mongoUser
	filter := bson.M{"api_key": key, "active": true}
	if err := r.coll.FindOne(ctx, filter).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by api key: %w", err)
	}
	return mu.toDomain(), nil
}

// SetAPIKey overwrites the stored key in a single server-side update, so
// concurrent rotations resolve last-writer-wins with no torn write.
func (r *MongoUserRepository) SetAPIKey(ctx context.Context, username, key string) error {
	update := bson.M{"$set": bson.M{"api_key": key, "updated_at": time.Now().UTC().Unix()}}
	res := r.coll.FindOneAndUpdate(ctx, bson.M{"username": username}, update)
	if err := res.Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("set api key: %w", err)
	}
	return nil
}

func (r *MongoUserRepository) SetActive(ctx context.Context, username string, active bool) error {
	update := bson.M{"$set": bson.M{"active": active, "updated_at": time.Now().UTC().Unix()}}
	res := r.coll.FindOneAndUpdate(ctx, bson.M{"username": username}, update)
	if err := res.Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("set active: %w", err)
	}
	return nil
}

func (mu *mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:           mu.ID.Hex(),
		Username:     mu.Username,
		PasswordHash: mu.PasswordHash,
		Role:         domain.Role(mu.Role),
		Active:       mu.Active,
		APIKey:       mu.APIKey,
		CreatedAt:    unixToTime(mu.CreatedAt),
		UpdatedAt:    unixToTime(mu.UpdatedAt),
	}
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
