package main

import (
	"context"
	"fmt"

	"github.com/jhoicas/wareflow-api/internal/domain/repository"
	"github.com/jhoicas/wareflow-api/internal/infrastructure/memory"
	"github.com/jhoicas/wareflow-api/internal/infrastructure/postgres"
	"github.com/jhoicas/wareflow-api/pkg/config"
	"github.com/jhoicas/wareflow-api/pkg/logger"
)

// repositories agrupa los puertos de persistencia del driver elegido en STORAGE_DRIVER.
type repositories struct {
	products  repository.ProductRepository
	movements repository.InventoryMovementRepository
	sales     repository.SalesOrderRepository
	purchases repository.PurchaseOrderRepository
	returns   repository.ReturnRepository
	receipts  repository.GoodsReceiptRepository
	users     repository.UserRepository
}

func openRepositories(ctx context.Context, cfg *config.Config, log *logger.Logger) (repositories, func(), error) {
	if cfg.Storage.Driver == config.StorageMemory {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		store := memory.NewStore()
		return repositories{
			products:  memory.NewProductRepository(store),
			movements: memory.NewInventoryMovementRepository(store),
			sales:     memory.NewSalesOrderRepository(store),
			purchases: memory.NewPurchaseOrderRepository(store),
			returns:   memory.NewReturnRepository(store),
			receipts:  memory.NewGoodsReceiptRepository(store),
			users:     memory.NewUserRepository(store),
		}, func() {}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return repositories{}, nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return repositories{}, nil, err
	}
	return repositories{
		products:  postgres.NewProductRepository(pool),
		movements: postgres.NewInventoryMovementRepository(pool),
		sales:     postgres.NewSalesOrderRepository(pool),
		purchases: postgres.NewPurchaseOrderRepository(pool),
		returns:   postgres.NewReturnRepository(pool),
		receipts:  postgres.NewGoodsReceiptRepository(pool),
		users:     postgres.NewUserRepository(pool),
	}, pool.Close, nil
}
