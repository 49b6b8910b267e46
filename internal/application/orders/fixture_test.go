package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wareflow-api/internal/application/inventory"
	"github.com/jhoicas/wareflow-api/internal/application/stock"
	"github.com/jhoicas/wareflow-api/internal/domain/entity"
	"github.com/jhoicas/wareflow-api/internal/domain/repository"
	"github.com/jhoicas/wareflow-api/internal/infrastructure/memory"
)

// flakyProducts hace fallar AdjustStock para failCode a partir de la llamada número failFrom (1-based).
type flakyProducts struct {
	*memory.ProductRepo
	failCode string
	failFrom int
	calls    int
}

func (f *flakyProducts) AdjustStock(ctx context.Context, code string, delta int) (int, error) {
	if code == f.failCode {
		f.calls++
		if f.calls >= f.failFrom {
			return 0, errors.New("almacenamiento no disponible")
		}
	}
	return f.ProductRepo.AdjustStock(ctx, code, delta)
}

type fixture struct {
	store     *memory.Store
	products  *memory.ProductRepo
	movements *memory.InventoryMovementRepo
	sales     *SalesOrderUseCase
	purchases *PurchaseOrderUseCase
	returns   *ReturnUseCase
	receipts  *GoodsReceiptUseCase
}

func newFixture(t *testing.T, stocks map[string]int) *fixture {
	t.Helper()
	return newFixtureWith(t, stocks, nil)
}

// newFixtureWith permite envolver el repositorio de productos que ve el servicio de stock.
func newFixtureWith(t *testing.T, stocks map[string]int, wrap func(*memory.ProductRepo) repository.ProductRepository) *fixture {
	t.Helper()
	store := memory.NewStore()
	products := memory.NewProductRepository(store)
	for code, qty := range stocks {
		require.NoError(t, products.Create(context.Background(), entity.NewProduct("id-"+code, code, qty, time.Now())))
	}
	var repo repository.ProductRepository = products
	if wrap != nil {
		repo = wrap(products)
	}
	log := zerolog.Nop()
	svc := stock.NewService(repo, nil, log)
	movementRepo := memory.NewInventoryMovementRepository(store)
	movements := inventory.NewMovementUseCase(movementRepo, svc, log)
	salesRepo := memory.NewSalesOrderRepository(store)
	purchaseRepo := memory.NewPurchaseOrderRepository(store)
	return &fixture{
		store:     store,
		products:  products,
		movements: movementRepo,
		sales:     NewSalesOrderUseCase(salesRepo, svc, movements, nil, log),
		purchases: NewPurchaseOrderUseCase(purchaseRepo, svc, movements, log),
		returns:   NewReturnUseCase(memory.NewReturnRepository(store), salesRepo, svc, movements, log),
		receipts:  NewGoodsReceiptUseCase(memory.NewGoodsReceiptRepository(store), purchaseRepo, svc, movements, log),
	}
}

func (f *fixture) stockOf(t *testing.T, code string) int {
	t.Helper()
	p, err := f.products.GetByCode(context.Background(), code)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Stock()
}

func (f *fixture) movementsFor(t *testing.T, refID string) []*entity.InventoryMovement {
	t.Helper()
	list, err := f.movements.List(context.Background(), repository.MovementFilter{ReferenceID: refID})
	require.NoError(t, err)
	return list
}

func ptr[T any](v T) *T { return &v }
