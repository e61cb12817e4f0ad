package config

import (
	"context"

	"github.com/planscope/planscope/pkg/database"
	"github.com/planscope/planscope/pkg/datasetcache"
	"github.com/planscope/planscope/pkg/redis_client"
	"github.com/rs/zerolog/log"
)

// OpenDatasetStore connects the configured dataset cache backend. It
// returns nil without error when caching is disabled.
func (c *Config) OpenDatasetStore() (datasetcache.Store, error) {
	switch c.DatasetStore {
	case StoreRedis:
		if err := redis_client.Connect(); err != nil {
			return nil, err
		}
		log.Info().Str("expiry", c.DatasetExpiry.String()).Msg("Using redis dataset cache")
		return datasetcache.NewRedisStore(redis_client.Client, c.DatasetExpiry), nil
	case StoreMongo:
		if err := database.Connect(); err != nil {
			return nil, err
		}
		database.EnsureDatasetIndexes(context.Background(), c.DatasetExpiry)
		log.Info().Msg("Using mongo dataset cache")
		return datasetcache.NewMongoStore(database.GetCollection(database.DatasetsCollection)), nil
	default:
		return nil, nil
	}
}
