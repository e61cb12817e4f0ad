package redis_client

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/planscope/planscope/pkg/util"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var Client *redis.Client

const defaultConnectionAddress = "localhost:6379"
const defaultConnectionPassword = ""
const defaultDatabase = 0

func Connect() error {
	env := util.GetEnvironmentVariables()

	address := util.EnvironmentString(env, "PLANSCOPE_REDIS_ADDRESS", defaultConnectionAddress)
	password := util.EnvironmentString(env, "PLANSCOPE_REDIS_PASSWORD", defaultConnectionPassword)
	database, err := util.EnvironmentInt(env, "PLANSCOPE_REDIS_DATABASE", defaultDatabase)
	if err != nil {
		return err
	}

	Client = redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       database,
	})

	return Ping(context.Background(), Client)
}

// Ping waits for the server to answer, backing off exponentially for up to a
// minute so the service can start alongside its redis container
func Ping(ctx context.Context, client *redis.Client) error {
	retryBackoff := backoff.NewExponentialBackOff()
	retryBackoff.MaxElapsedTime = time.Minute

	return backoff.RetryNotify(func() error {
		return client.Ping(ctx).Err()
	}, backoff.WithContext(retryBackoff, ctx), func(err error, wait time.Duration) {
		log.Warn().Err(err).Str("address", client.Options().Addr).Msgf("Redis not ready, retrying in %s", wait)
	})
}
