package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sentiment tags form a closed enum; anything else is rejected at the
// validation layer.
const (
	TagPositive = "Positive"
	TagNeutral  = "Neutral"
	TagNegative = "Negative"
)

// Moderation states. A post is publicly visible only once approved.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
)

// SentimentTags lists the allowed values of the sentiment enum.
var SentimentTags = []string{TagPositive, TagNeutral, TagNegative}

// ValidTag reports whether s belongs to the sentiment enum.
func ValidTag(s string) bool {
	for _, t := range SentimentTags {
		if s == t {
			return true
		}
	}
	return false
}

// Content is the nested body of a story: free text plus an optional image
// URL filled in after a successful CDN upload.
type Content struct {
	Description string  `bson:"description" json:"description"`
	Image       *string `bson:"image,omitempty" json:"image,omitempty"`
}

// Location is a GeoJSON point; coordinates are [longitude, latitude].
type Location struct {
	Type        string     `bson:"type" json:"type"`
	Coordinates [2]float64 `bson:"coordinates" json:"coordinates"`
}

// Post is a geotagged climate story as stored in the "stories" collection.
// Optional tags are stored under optional_tags but exposed to clients as
// optionalTags.
type Post struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Title        string             `bson:"title" json:"title"`
	Content      Content            `bson:"content" json:"content"`
	Location     Location           `bson:"location" json:"location"`
	Tag          string             `bson:"tag" json:"tag"`
	OptionalTags []string           `bson:"optional_tags" json:"optionalTags"`
	CreatedAt    time.Time          `bson:"created_at" json:"-"`
	UpdatedAt    *time.Time         `bson:"updated_at,omitempty" json:"-"`
	Status       string             `bson:"status" json:"status"`
}
