package db

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/J5Chen/Climate-Stories-Map/internal/models"
)

// UserRepo wraps the "users" collection.
type UserRepo struct {
	m *Mongo
}

// NewUserRepo returns a repository bound to the users collection.
func NewUserRepo(m *Mongo) *UserRepo {
	return &UserRepo{m: m}
}

// FindByUsername returns the matching user, or nil without error when no
// account exists under that name.
func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.m.Users.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID fetches a single user.
func (r *UserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	if err := r.m.Users.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Insert stores a new user record.
func (r *UserRepo) Insert(ctx context.Context, user *models.User) (primitive.ObjectID, error) {
	res, err := r.m.Users.InsertOne(ctx, user)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

// List returns all user accounts.
func (r *UserRepo) List(ctx context.Context) ([]models.User, error) {
	cursor, err := r.m.Users.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateByID applies a partial $set update and reports the matched count.
func (r *UserRepo) UpdateByID(ctx context.Context, id primitive.ObjectID, set bson.M) (int64, error) {
	res, err := r.m.Users.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// DeleteByID removes a user and reports the deleted count.
func (r *UserRepo) DeleteByID(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := r.m.Users.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
