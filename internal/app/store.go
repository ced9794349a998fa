// Package app assembles the geodata stores, services and collectors from
// the environment. It is shared by the api, worker and geoctl binaries.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"geodata/internal/infra/adapter/persistence/memory"
	pgRepo "geodata/internal/infra/adapter/persistence/postgres"
	"geodata/internal/infra/db"
	"geodata/internal/repository"
	"geodata/pkg/config"
)

// Store drivers accepted in STORE_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Store bundles the repositories of one backing store.
type Store struct {
	Driver string
	// DB is nil for the in-memory store.
	DB *sql.DB

	Sources   repository.SourceRepository
	Entries   repository.DataEntryRepository
	Lineage   repository.LineageRepository
	Countries repository.CountryRepository
	Tags      repository.TagRepository
	Tx        repository.Transactor
}

// StoreOptions controls OpenStore.
type StoreOptions struct {
	Driver string
	DSN    string
	// Migrate applies pending migrations after connecting.
	Migrate bool
}

// StoreOptionsFromEnv reads STORE_DRIVER (default postgres) and DATABASE_URL.
func StoreOptionsFromEnv() StoreOptions {
	return StoreOptions{
		Driver:  config.GetEnvString("STORE_DRIVER", DriverPostgres),
		DSN:     config.GetEnvString("DATABASE_URL", ""),
		Migrate: config.GetEnvBool("DB_MIGRATE", true),
	}
}

// OpenStore connects the configured store.
func OpenStore(ctx context.Context, logger *slog.Logger, opts StoreOptions) (*Store, error) {
	switch opts.Driver {
	case DriverMemory:
		logger.Warn("using in-memory store, data is lost on exit")
		return NewMemoryStore(), nil
	case DriverPostgres, "":
		database, err := db.Open(ctx, opts.DSN)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		if opts.Migrate {
			if err := db.MigrateUp(database); err != nil {
				_ = database.Close()
				return nil, fmt.Errorf("migrate: %w", err)
			}
			logger.Info("database migrations applied")
		}
		return NewPostgresStore(database), nil
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", opts.Driver)
	}
}

// NewMemoryStore returns an empty in-process store.
func NewMemoryStore() *Store {
	s := memory.NewStore()
	return &Store{
		Driver:    DriverMemory,
		Sources:   memory.NewSourceRepo(s),
		Entries:   memory.NewDataEntryRepo(s),
		Lineage:   memory.NewLineageRepo(s),
		Countries: memory.NewCountryRepo(s),
		Tags:      memory.NewTagRepo(s),
		Tx:        s,
	}
}

// NewPostgresStore wraps an open database.
func NewPostgresStore(database *sql.DB) *Store {
	return &Store{
		Driver:    DriverPostgres,
		DB:        database,
		Sources:   pgRepo.NewSourceRepo(database),
		Entries:   pgRepo.NewDataEntryRepo(database),
		Lineage:   pgRepo.NewLineageRepo(database),
		Countries: pgRepo.NewCountryRepo(database),
		Tags:      pgRepo.NewTagRepo(database),
		Tx:        pgRepo.NewTransactor(database),
	}
}

// Close releases the database, if any.
func (s *Store) Close() error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Close()
}
