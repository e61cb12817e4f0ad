package datasetcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/planscope/planscope/pkg/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type datasetDocument struct {
	Key     string          `bson:"_id"`
	Persons []*model.Person `bson:"persons"`
	SavedAt time.Time       `bson:"savedat"`
}

type MongoStore struct {
	Collection *mongo.Collection
}

func NewMongoStore(collection *mongo.Collection) *MongoStore {
	return &MongoStore{Collection: collection}
}

func (m *MongoStore) Save(ctx context.Context, key string, persons []*model.Person) error {
	document := datasetDocument{
		Key:     key,
		Persons: persons,
		SavedAt: time.Now(),
	}

	opts := options.Replace().SetUpsert(true)
	_, err := m.Collection.ReplaceOne(ctx, bson.M{"_id": key}, document, opts)

	return err
}

func (m *MongoStore) Load(ctx context.Context, key string) ([]*model.Person, error) {
	var document datasetDocument

	err := m.Collection.FindOne(ctx, bson.M{"_id": key}).Decode(&document)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	} else if err != nil {
		return nil, err
	}

	return document.Persons, nil
}

func (m *MongoStore) Delete(ctx context.Context, key string) error {
	_, err := m.Collection.DeleteOne(ctx, bson.M{"_id": key})
	return err
}
