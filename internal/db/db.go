package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const databaseName = "climate_stories"

// Mongo owns the client and the collection handles. It is passed to the
// repositories and services explicitly; there are no package-level handles.
type Mongo struct {
	Client  *mongo.Client
	Stories *mongo.Collection
	Users   *mongo.Collection
	Tags    *mongo.Collection
}

// Connect dials MongoDB, verifies the connection with a ping and resolves
// the collection handles.
func Connect(uri string) (*Mongo, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	log.Println("Connected to MongoDB")

	db := client.Database(databaseName)
	return &Mongo{
		Client:  client,
		Stories: db.Collection("stories"),
		Users:   db.Collection("users"),
		Tags:    db.Collection("approved_tags"),
	}, nil
}

// Close disconnects the underlying client.
func (m *Mongo) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}
