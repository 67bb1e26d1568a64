package db

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/J5Chen/Climate-Stories-Map/internal/models"
)

// PostRepo wraps the "stories" collection.
type PostRepo struct {
	m *Mongo
}

// NewPostRepo returns a repository bound to the stories collection.
func NewPostRepo(m *Mongo) *PostRepo {
	return &PostRepo{m: m}
}

// ListFilter composes the query for the public listing endpoint. Only
// approved posts are ever returned; tag and optionalTags narrow the result
// further, combined with logical AND when both are present.
func ListFilter(tag string, optionalTags []string) bson.M {
	query := bson.M{"status": models.StatusApproved}

	switch {
	case tag != "" && len(optionalTags) > 0:
		query["$and"] = []bson.M{
			{"tag": tag},
			{"optional_tags": bson.M{"$all": optionalTags}},
		}
	case tag != "":
		query["tag"] = tag
	case len(optionalTags) > 0:
		query["optional_tags"] = bson.M{"$all": optionalTags}
	}

	return query
}

// Insert stores a new post and returns its generated id.
func (r *PostRepo) Insert(ctx context.Context, post *models.Post) (primitive.ObjectID, error) {
	res, err := r.m.Stories.InsertOne(ctx, post)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

// List returns all posts matching the filter.
func (r *PostRepo) List(ctx context.Context, filter bson.M) ([]models.Post, error) {
	cursor, err := r.m.Stories.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// FindByID fetches a single post.
func (r *PostRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	if err := r.m.Stories.FindOne(ctx, bson.M{"_id": id}).Decode(&post); err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdateByID applies a partial $set update and reports how many documents
// matched (zero means not found).
func (r *PostRepo) UpdateByID(ctx context.Context, id primitive.ObjectID, set bson.M) (int64, error) {
	res, err := r.m.Stories.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// DeleteByID removes a post and reports how many documents were deleted.
func (r *PostRepo) DeleteByID(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := r.m.Stories.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
