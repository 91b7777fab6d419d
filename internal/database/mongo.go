package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"example.com/ai-travel-planner/internal/config"
)

// OpenMongo подключается к MongoDB с ретраями и возвращает базу данных.
func OpenMongo(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*mongo.Client, *mongo.Database, error) {
	if logger == nil {
		logger = slog.Default()
	}

	clientOptions := options.Client().
		ApplyURI(cfg.MongoURI).
		SetMaxPoolSize(uint64(cfg.MaxOpenConns)).
		SetMinPoolSize(uint64(cfg.MaxIdleConns)).
		SetMaxConnIdleTime(cfg.ConnMaxIdleTime)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongo: %w", err)
	}

	backoff := time.Second
	for attempt := 1; attempt <= connectRetries; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		err = client.Ping(pingCtx, readpref.Primary())
		cancel()

		if err == nil {
			return client, client.Database(cfg.MongoDatabase), nil
		}

		logger.Warn("mongo ping failed",
			slog.Int("attempt", attempt),
			slog.Int("retries", connectRetries),
			slog.Duration("backoff", backoff),
			slog.String("error", err.Error()),
		)

		select {
		case <-ctx.Done():
			_ = client.Disconnect(context.Background())
			return nil, nil, ctx.Err()
		case <-time.After(backoff):
			backoff *= 2
		}
	}

	_ = client.Disconnect(context.Background())
	return nil, nil, fmt.Errorf("connect mongo after %d attempts: %w", connectRetries, err)
}

// MongoPinger приводит mongo.Client к проверке Ping(ctx).
type MongoPinger struct {
	Client *mongo.Client
}

// Ping проверяет доступность primary-узла.
func (p MongoPinger) Ping(ctx context.Context) error {
	return p.Client.Ping(ctx, readpref.Primary())
}
