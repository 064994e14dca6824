package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/debatify/go/internal/debates"
	"github.com/mcdev12/debatify/go/internal/timer"
	"github.com/mcdev12/debatify/go/internal/timer/gateway"
	"github.com/mcdev12/debatify/go/internal/timer/publisher"
	"github.com/mcdev12/debatify/go/internal/timer/storage"
)

type Services struct {
	Timer       *timer.Service
	Connections *gateway.ConnectionManager
	Publisher   *publisher.NATSPublisher
	Debates     *debates.Service
}

// setupStore picks the timer store named by config.
func setupStore(ctx context.Context, config *Config, db *Database, nc *nats.Conn) (timer.Store, error) {
	switch config.Timer.Store {
	case storeMemory:
		return storage.NewMemoryStore(), nil

	case storeNATS:
		js, err := jetstream.New(nc)
		if err != nil {
			return nil, fmt.Errorf("failed to open JetStream: %w", err)
		}
		return storage.OpenKVStore(ctx, js, config.NATS.Bucket)

	case storePostgres:
		store := storage.NewPostgresStore(db.SQL)
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return store, nil

	default:
		dir, err := filepath.Abs(config.Timer.StateDir)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve state dir: %w", err)
		}
		store := storage.NewFileStore(dir)
		log.Info().Str("path", store.Path()).Msg("using file timer store")
		return store, nil
	}
}

func setupServices(config *Config, store timer.Store, db *Database, nc *nats.Conn) *Services {
	// Wire up dependency injection chain
	// Store → Timer service → Gateway / Publisher
	timerService := timer.NewService(store,
		timer.WithStorageTimeout(config.Timer.StorageTimeout),
		timer.WithDefaultPreset(config.Timer.DefaultPreset),
	)

	services := &Services{
		Timer:       timerService,
		Connections: gateway.NewConnectionManager(timerService, gateway.DefaultConnectionConfig()),
	}

	if nc != nil {
		services.Publisher = publisher.NewNATSPublisher(nc, config.NATS.Subject)
	}

	// Debates
	// Database layer → Repository layer → App layer → Service layer
	if config.Debates.Enabled {
		debatesRepo := debates.NewRepository(db.Pool)
		debatesApp := debates.NewApp(debatesRepo)
		services.Debates = debates.NewService(debatesApp)
	}

	return services
}
