package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/Hearthmarket_Go/internal/config"
	"github.com/osse101/Hearthmarket_Go/internal/database"
	"github.com/osse101/Hearthmarket_Go/internal/database/memory"
	"github.com/osse101/Hearthmarket_Go/internal/database/postgres"
	"github.com/osse101/Hearthmarket_Go/internal/repository"
)

// Repositories holds the storage the services run against. Pool is nil when
// the in-memory store is selected.
type Repositories struct {
	Crafting repository.Crafting
	Exchange repository.Exchange
	Shop     repository.Shop
	Seeder   repository.Seeder
	Pool     *pgxpool.Pool
}

// DBPool returns the pool for readiness checks, or a nil interface for memory storage.
func (r *Repositories) DBPool() database.Pool {
	if r.Pool == nil {
		return nil
	}
	return r.Pool
}

// Close releases the database pool, if any.
func (r *Repositories) Close() {
	if r.Pool != nil {
		slog.Info(LogMsgClosingDatabase)
		r.Pool.Close()
	}
}

// InitializeRepositories builds the repositories for cfg.StorageDriver. For
// postgres it connects, applies pending migrations when AutoMigrate is set, and
// wires the pgx repositories; for memory it creates one shared document store.
func InitializeRepositories(ctx context.Context, cfg *config.Config) (*Repositories, error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		slog.Warn(LogMsgMemoryStorageNotice)
		store := memory.NewStore()
		return &Repositories{
			Crafting: store.Crafting(),
			Exchange: store.Exchange(),
			Shop:     store.Shops(),
			Seeder:   store,
		}, nil
	}

	pool, err := database.NewPoolWithContext(ctx, cfg.GetDBConnString(), cfg.DBMaxConns, cfg.DBMaxConnIdleTime, cfg.DBMaxConnLifetime)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedConnectDatabase, err)
	}

	if cfg.AutoMigrate {
		slog.Info(LogMsgApplyingMigrations)
		if err := database.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedMigrate, err)
		}
	}

	slog.Info(LogMsgStorageInitialized, "driver", cfg.StorageDriver, "max_conns", cfg.DBMaxConns)
	return &Repositories{
		Crafting: postgres.NewCraftingRepository(pool),
		Exchange: postgres.NewExchangeRepository(pool),
		Shop:     postgres.NewShopRepository(pool),
		Seeder:   postgres.NewSeedRepository(pool),
		Pool:     pool,
	}, nil
}
