package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type NewMongoClientParams struct {
	DBHost string
	DBPort string
}

func NewMongoClient(ctx context.Context, params NewMongoClientParams) (*mongo.Client, error) {
	uri := fmt.Sprintf("mongodb://%s:%s", params.DBHost, params.DBPort)

	clientOptions := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}

	return client, nil
}
