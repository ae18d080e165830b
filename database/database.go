// database/database.go
package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"bmeams/config"
)

var Client *mongo.Client

func Connect() error {
	// Priority 1: Environment variable (recommended & secure)
	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		// Fallback to config only if env var is not set
		mongoURI = config.MongoURI
		if mongoURI == "" {
			return fmt.Errorf("MONGODB_URI environment variable is required (or set config.MongoURI)")
		}
	}

	clientOptions := options.Client().
		ApplyURI(mongoURI).
		SetConnectTimeout(20 * time.Second).
		SetServerSelectionTimeout(15 * time.Second).
		SetSocketTimeout(20 * time.Second).
		SetMaxPoolSize(50)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var err error
	Client, err = mongo.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("failed to create MongoDB client: %w", err)
	}

	// Verify actual connection with ping
	ctxPing, cancelPing := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelPing()

	if err = Client.Ping(ctxPing, readpref.Primary()); err != nil {
		_ = Client.Disconnect(context.Background()) // cleanup on failure
		return fmt.Errorf("failed to ping MongoDB (connection/auth/network issue): %w", err)
	}

	log.Println("Successfully connected to MongoDB")
	return nil
}

// EnsureIndexes creates the indexes the asset collections rely on. The
// serial-number index is partial: it only covers documents where the field
// exists, so writes must fully unset empty serials instead of storing "" or
// null (both would collide under the unique constraint).
func EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := Client.Database(config.MongoDatabase)

	assetIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "assetId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "serialNumber", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"serialNumber": bson.M{"$exists": true}}),
		},
		{
			Keys: bson.D{{Key: "department", Value: 1}, {Key: "status", Value: 1}},
		},
	}
	if _, err := db.Collection("assets").Indexes().CreateMany(ctx, assetIndexes); err != nil {
		return fmt.Errorf("failed to create asset indexes: %w", err)
	}

	historyIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "assetId", Value: 1}, {Key: "createdAt", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "eventType", Value: 1}},
		},
	}
	if _, err := db.Collection("asset_history").Indexes().CreateMany(ctx, historyIndexes); err != nil {
		return fmt.Errorf("failed to create history indexes: %w", err)
	}

	contractIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "endDate", Value: 1}, {Key: "status", Value: 1}},
		},
	}
	if _, err := db.Collection("contracts").Indexes().CreateMany(ctx, contractIndexes); err != nil {
		return fmt.Errorf("failed to create contract indexes: %w", err)
	}

	return nil
}

func Disconnect() {
	if Client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := Client.Disconnect(ctx); err != nil {
		log.Printf("MongoDB disconnect warning: %v", err)
	}
}
