// Package storage elige la implementación de repositorios según DB_DRIVER.
package storage

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
	"github.com/jhoicas/estoque-api/internal/infrastructure/memory"
	"github.com/jhoicas/estoque-api/internal/infrastructure/postgres"
	"github.com/jhoicas/estoque-api/pkg/config"
)

// Repositories agrupa los puertos que consumen los casos de uso y los comandos.
type Repositories struct {
	Products    repository.ProductRepository
	Locations   repository.LocationRepository
	Stock       repository.StockRepository
	Users       repository.UserRepository
	Withdrawals repository.WithdrawalRepository
	Tx          inventory.TxRunner

	close func()
}

// Close libera las conexiones (no-op en memoria).
func (r *Repositories) Close() {
	if r.close != nil {
		r.close()
	}
}

// Open abre PostgreSQL (con migraciones si migrate) o crea el almacenamiento en memoria.
func Open(ctx context.Context, cfg config.DBConfig, migrate bool) (*Repositories, error) {
	if cfg.Driver == "memory" {
		log.Warn().Msg("DB_DRIVER=memory: los datos se pierden al reiniciar")
		return Memory(memory.NewStore()), nil
	}

	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	if migrate {
		applied, err := postgres.Migrate(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("migraciones: %w", err)
		}
		log.Info().Strs("applied", applied).Msg("migraciones aplicadas")
	}
	return &Repositories{
		Products:    postgres.NewProductRepository(pool),
		Locations:   postgres.NewLocationRepository(pool),
		Stock:       postgres.NewStockRepository(pool),
		Users:       postgres.NewUserRepository(pool),
		Withdrawals: postgres.NewWithdrawalRepository(pool),
		Tx:          postgres.NewTxRunner(pool),
		close:       pool.Close,
	}, nil
}

// Memory envuelve un Store ya creado (tests y demos).
func Memory(store *memory.Store) *Repositories {
	return &Repositories{
		Products:    store.Products(),
		Locations:   store.Locations(),
		Stock:       store.Stock(),
		Users:       store.Users(),
		Withdrawals: store.Withdrawals(),
		Tx:          store,
	}
}
