package database

import (
	"context"
	"time"

	"github.com/planscope/planscope/pkg/util"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoInstance struct {
	Client   *mongo.Client
	Database *mongo.Database
}

var MongoGlobalInstance *MongoInstance

const defaultMongoConnectionString = "mongodb://localhost:27017/"
const defaultMongoDatabase = "planscope"

const DatasetsCollection = "datasets"

func Connect() error {
	env := util.GetEnvironmentVariables()

	connectionString := util.EnvironmentString(env, "PLANSCOPE_MONGODB_CONNECTION", defaultMongoConnectionString)
	dbName := util.EnvironmentString(env, "PLANSCOPE_MONGODB_DATABASE", defaultMongoDatabase)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(connectionString))
	if err != nil {
		return err
	}

	MongoGlobalInstance = &MongoInstance{
		Client:   client,
		Database: client.Database(dbName),
	}

	err = client.Ping(ctx, nil)
	if err != nil {
		return err
	}

	return nil
}

func GetCollection(collectionName string) *mongo.Collection {
	return MongoGlobalInstance.Database.Collection(collectionName)
}

// EnsureDatasetIndexes adds the TTL index dropping cached datasets once expiry
// has passed since they were saved
func EnsureDatasetIndexes(ctx context.Context, expiry time.Duration) {
	datasetsCollection := GetCollection(DatasetsCollection)
	_, err := datasetsCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "savedat", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(expiry.Seconds())),
		},
	}, options.CreateIndexes())
	if err != nil {
		log.Error().Err(err).Msg("Creating Index")
	}
}
