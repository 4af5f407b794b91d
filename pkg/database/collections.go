package database

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names used by the validator lookups.
const (
	NaptanStopsCollection      = "naptan_stops"
	ScottishServicesCollection = "scottish_services"
	FileAttributesCollection   = "file_attributes"
)

func createIndexes() {
	createNaptanIndexes()
	createFileAttributesIndexes()
}

func createNaptanIndexes() {
	naptanCollection := GetCollection(NaptanStopsCollection)
	naptanIndex := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "atcocode", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "localityname", Value: 1}},
		},
	}

	opts := options.CreateIndexes()
	_, err := naptanCollection.Indexes().CreateMany(context.Background(), naptanIndex, opts)
	if err != nil {
		log.Error().Err(err).Msg("Creating Index")
	}

	scottishServicesCollection := GetCollection(ScottishServicesCollection)
	scottishServicesIndex := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "serviceref", Value: 1}},
		},
	}

	opts = options.CreateIndexes()
	_, err = scottishServicesCollection.Indexes().CreateMany(context.Background(), scottishServicesIndex, opts)
	if err != nil {
		log.Error().Err(err).Msg("Creating Index")
	}
}

func createFileAttributesIndexes() {
	fileAttributesCollection := GetCollection(FileAttributesCollection)
	_, err := fileAttributesCollection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "servicecode", Value: 1}},
		},
		{
			Keys: bson.D{
				{Key: "servicecode", Value: 1},
				{Key: "revisionnumber", Value: 1},
			},
		},
	}, options.CreateIndexes())
	if err != nil {
		log.Error().Err(err).Msg("Creating Index")
	}
}
