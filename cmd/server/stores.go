package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/AnshRaj112/bellaciao-guestbook/internal/config"
	"github.com/AnshRaj112/bellaciao-guestbook/internal/database"
)

// openStore connects the entry store selected by STORE_DRIVER and makes sure
// its table or collection indexes exist.
func openStore(ctx context.Context, cfg *config.Config) (database.EntryStore, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		db, err := database.ConnectPostgres(cfg.PostgresURI)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := database.InitPostgresTables(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("init postgres tables: %w", err)
		}
		return database.NewPostgresEntryStore(db), nil

	case config.StoreDriverMongo:
		client, db, err := database.ConnectMongo(cfg.MongoURI)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		store := database.NewMongoEntryStore(client, db)
		if err := store.EnsureEntryIndexes(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("ensure mongo indexes: %w", err)
		}
		return store, nil

	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}

// openRedis returns nil when REDIS_URI is unset or unreachable; the live feed
// then stays local and submissions are not rate limited per window.
func openRedis(cfg *config.Config) *redis.Client {
	if cfg.RedisURI == "" {
		log.Info().Msg("REDIS_URI not set, live feed is local and submit rate limit is off")
		return nil
	}
	client, err := database.ConnectRedis(cfg.RedisURI)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to connect to Redis, continuing without it")
		return nil
	}
	return client
}
