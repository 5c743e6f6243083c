package app

import (
	"context"
	"database/sql"
	"delivery-tracking-service/internal/adapters/repositories"
	"delivery-tracking-service/internal/config"
	"delivery-tracking-service/internal/platform/db"
	"delivery-tracking-service/internal/platform/mongodb"
	"delivery-tracking-service/internal/ports"
	"fmt"
	"log"
)

// Backend is the storage selected by STORE_BACKEND.
type Backend struct {
	Store ports.Store
	// DB is set for the postgres backend so the geocode cache can share the pool.
	DB *sql.DB

	mongo *repositories.MongoStore
}

// OpenBackend connects to the configured store. The caller owns Close.
func OpenBackend(ctx context.Context, cfg config.Config) (*Backend, error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		conn, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open backend: %w", err)
		}
		return &Backend{Store: repositories.NewPostgresStore(conn), DB: conn}, nil

	case config.BackendMongo:
		client, err := mongodb.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return nil, fmt.Errorf("open backend: %w", err)
		}
		s := repositories.NewMongoStore(client, cfg.MongoDatabase)
		return &Backend{Store: s, mongo: s}, nil

	case config.BackendMemory:
		log.Println("Using in-memory store (data is lost on exit)")
		return &Backend{Store: repositories.NewMemoryStore()}, nil
	}

	return nil, fmt.Errorf("open backend: unknown backend %q", cfg.StoreBackend)
}

// Migrate creates tables or indexes. Safe to run on every start.
func (b *Backend) Migrate(ctx context.Context) error {
	switch {
	case b.DB != nil:
		return repositories.InitSchema(ctx, b.DB)
	case b.mongo != nil:
		return b.mongo.EnsureIndexes(ctx)
	}
	return nil
}

func (b *Backend) Close(ctx context.Context) error {
	return b.Store.Close(ctx)
}
