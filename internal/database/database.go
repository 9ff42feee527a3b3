package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"chartcraft/internal/config"

	_ "github.com/lib/pq"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/fx"
)

// ErrNotFound is returned by every store backend when a document or row does
// not exist.
var ErrNotFound = errors.New("not found")

// Collection and table names shared by the repositories.
const (
	DatasetsCollection = "datasets"
	ChartsCollection   = "charts"
)

// Store holds the connection of the configured driver. Exactly one of Mongo,
// SQL and Memory is set.
type Store struct {
	Driver string
	Mongo  *mongo.Database
	SQL    *sql.DB
	Memory *MemoryDB
}

// NewDatabase opens the store selected by STORE_DRIVER with lifecycle management
func NewDatabase(lc fx.Lifecycle, cfg *config.Config) (*Store, error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		return connectMongo(lc, cfg)
	case config.StorePostgres:
		return connectPostgres(lc, cfg)
	case config.StoreMemory:
		log.Println("Using in-memory store (demo mode)")
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// NewMemoryStore returns a store backed by process memory.
func NewMemoryStore() *Store {
	return &Store{Driver: config.StoreMemory, Memory: NewMemoryDB()}
}

func connectMongo(lc fx.Lifecycle, cfg *config.Config) (*Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Rows hold arbitrary nested values; decode them as maps, not bson.D
	opts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	log.Println("Connected to MongoDB!")

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Println("Disconnecting from MongoDB...")
			return client.Disconnect(ctx)
		},
	})

	return &Store{Driver: config.StoreMongo, Mongo: client.Database(cfg.DBName)}, nil
}

func connectPostgres(lc fx.Lifecycle, cfg *config.Config) (*Store, error) {
	db, err := sql.Open("postgres", cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	if err := EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	log.Println("Connected to PostgreSQL!")

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Println("Closing PostgreSQL pool...")
			return db.Close()
		},
	})

	return &Store{Driver: config.StorePostgres, SQL: db}, nil
}

// Ping reports whether the backing store is reachable.
func (s *Store) Ping(ctx context.Context) error {
	switch {
	case s.Mongo != nil:
		return s.Mongo.Client().Ping(ctx, nil)
	case s.SQL != nil:
		return s.SQL.PingContext(ctx)
	case s.Memory != nil:
		return nil
	}
	return errors.New("store not initialized")
}
