package history

import (
	"context"
	"fmt"
	"log"

	"go.uber.org/fx"

	"signal_bot/internal/config"
	"signal_bot/pkg/db"
)

func Module() fx.Option {
	return fx.Module("history",
		fx.Provide(
			NewLog, // *Log
			// Store: постгрес при заданном DSN, иначе no-op
			func(lc fx.Lifecycle, ctx context.Context, cfg *config.Config) (Store, error) {
				if cfg.DB == "" {
					log.Println("[JOURNAL] db_dsn is empty, journal lives in memory only")
					return NewNoop(), nil
				}

				poolMaster, err := db.NewPool(ctx, db.PoolConfig{DSN: cfg.DB})
				if err != nil {
					return nil, fmt.Errorf("failed to create poolMaster: %w", err)
				}
				if err := poolMaster.Ping(ctx); err != nil {
					return nil, err
				}

				tx := db.NewPgTxManager(poolMaster)
				lc.Append(fx.Hook{
					OnStop: func(_ context.Context) error {
						tx.Close()
						return nil
					},
				})

				store := NewPgStore(tx)
				if n, err := store.Count(ctx); err == nil {
					log.Printf("[JOURNAL] persisted records so far: %d", n)
				}
				return store, nil
			},
		),
	)
}
