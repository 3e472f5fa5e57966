package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	accountsCollection     = "accounts"
	patientsCollection     = "patients"
	appointmentsCollection = "appointments"
)

// NewDB connects to MongoDB, verifies the connection, and ensures the
// uniqueness indexes the data model depends on.
func NewDB(uri, database string) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := client.Database(database)
	if err := ensureIndexes(ctx, db); err != nil {
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}
	return db, nil
}

// ensureIndexes enforces account email and patient code uniqueness at
// the storage layer, closing the check-then-insert race.
func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(accountsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = db.Collection(patientsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "personalInfo.patientId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "personalInfo.name", Value: 1}}},
		{Keys: bson.D{{Key: "audit.createdAt", Value: -1}}},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection(appointmentsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "doctorId", Value: 1}, {Key: "date", Value: 1}}},
		{Keys: bson.D{{Key: "patientId", Value: 1}}},
	})
	return err
}

// Ping reports database reachability for the health endpoint.
func Ping(ctx context.Context, db *mongo.Database) error {
	return db.Client().Ping(ctx, readpref.Primary())
}
