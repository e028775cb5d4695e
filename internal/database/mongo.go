package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// InitMongo connects to MongoDB using config and returns the application
// database handle.
func InitMongo() (*mongo.Client, *mongo.Database, error) {
	viper.SetDefault("mongo.uri", "mongodb://localhost:27017")
	viper.SetDefault("mongo.database", "pennybook")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(viper.GetString("mongo.uri")))
	if err != nil {
		return nil, nil, fmt.Errorf("error connecting to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, nil, fmt.Errorf("error pinging MongoDB: %w", err)
	}

	log.Println("MongoDB connection established")
	return client, client.Database(viper.GetString("mongo.database")), nil
}

// InitDatabase initializes MongoDB with error handling.
func InitDatabase() (*mongo.Client, *mongo.Database) {
	client, db, err := InitMongo()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	return client, db
}
