package db

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func ConnectMongo() (*mongo.Client, error) {
	host := os.Getenv("MONGO_HOST")
	if host == "" {
		host = "swipe-mongo"
	}
	mongoURL := fmt.Sprintf("mongodb://%s:27017", host)

	clientOptions := options.Client().ApplyURI(mongoURL)
	if username := os.Getenv("MONGO_INITDB_ROOT_USERNAME"); username != "" {
		clientOptions.SetAuth(options.Credential{
			Username: username,
			Password: os.Getenv("MONGO_INITDB_ROOT_PASSWORD"),
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		log.Error().Msgf("Error connecting to MongoDB: %v", err)
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		log.Error().Msgf("MongoDB is unreachable: %v", err)
		return nil, err
	}

	log.Info().Msg("Connected to MongoDB")
	return client, nil
}
