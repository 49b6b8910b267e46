package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wareflow-api/internal/domain"
	"github.com/jhoicas/wareflow-api/internal/domain/entity"
	"github.com/jhoicas/wareflow-api/internal/domain/repository"
)

func seedProduct(t *testing.T, repo *ProductRepo, code string, stock int) *entity.Product {
	t.Helper()
	p := entity.NewProduct("id-"+code, code, stock, fixedNow)
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

// ─── Productos ───────────────────────────────────────────────────────────────

func TestProductRepo_CodigoDuplicado(t *testing.T) {
	repo := NewProductRepository(NewStore())
	seedProduct(t, repo, "A1", 1)

	err := repo.Create(context.Background(), entity.NewProduct("otro", "A1", 0, fixedNow))
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestProductRepo_AdjustStock_NoQuedaNegativo(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(NewStore())
	seedProduct(t, repo, "A1", 5)

	_, err := repo.AdjustStock(ctx, "A1", -7)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	p, err := repo.GetByCode(ctx, "A1")
	require.NoError(t, err)
	assert.Equal(t, 5, p.Stock())

	_, err = repo.AdjustStock(ctx, "NOPE", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductRepo_AdjustStock_Concurrente(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(NewStore())
	seedProduct(t, repo, "A1", 50)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = repo.AdjustStock(ctx, "A1", -1)
		}()
	}
	wg.Wait()

	p, err := repo.GetByCode(ctx, "A1")
	require.NoError(t, err)
	assert.Equal(t, 0, p.Stock())
}

func TestProductRepo_UpdateConservaCodigoYStock(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(NewStore())
	p := seedProduct(t, repo, "A1", 4)

	p.Code = "B2"
	p.LoadStock(99)
	p.Article = "Camisa"
	require.NoError(t, repo.Update(ctx, p))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "A1", got.Code)
	assert.Equal(t, 4, got.Stock())
	assert.Equal(t, "Camisa", got.Article)
}

// ─── Órdenes ─────────────────────────────────────────────────────────────────

func TestSalesOrderRepo_UpdateCAS(t *testing.T) {
	ctx := context.Background()
	repo := NewSalesOrderRepository(NewStore())
	order := &entity.SalesOrder{ID: "s1", Lines: []entity.SalesLine{{ProductCode: "A1", Quantity: 1}}}
	require.NoError(t, repo.Create(ctx, order))

	first, _ := repo.GetByID(ctx, "s1")
	second, _ := repo.GetByID(ctx, "s1")

	require.NoError(t, repo.Update(ctx, first))
	assert.Equal(t, 1, first.Version)

	err := repo.Update(ctx, second)
	assert.ErrorIs(t, err, domain.ErrConflict)

	assert.ErrorIs(t, repo.Delete(ctx, "s1", 0), domain.ErrConflict)
	require.NoError(t, repo.Delete(ctx, "s1", 1))
	assert.ErrorIs(t, repo.Delete(ctx, "s1", 1), domain.ErrNotFound)
}

func TestSalesOrderRepo_LineasNoCompartidas(t *testing.T) {
	ctx := context.Background()
	repo := NewSalesOrderRepository(NewStore())
	order := &entity.SalesOrder{ID: "s1", Lines: []entity.SalesLine{{ProductCode: "A1", Quantity: 1}}}
	require.NoError(t, repo.Create(ctx, order))

	order.Lines[0].Quantity = 50
	got, err := repo.GetByID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Lines[0].Quantity)
}

func TestPurchaseOrderRepo_FiltraPorEstado(t *testing.T) {
	ctx := context.Background()
	repo := NewPurchaseOrderRepository(NewStore())
	require.NoError(t, repo.Create(ctx, &entity.PurchaseOrder{ID: "p1", Status: entity.PurchaseStatusOrdered}))
	require.NoError(t, repo.Create(ctx, &entity.PurchaseOrder{ID: "p2", Status: entity.PurchaseStatusArrived}))
	require.NoError(t, repo.Create(ctx, &entity.PurchaseOrder{ID: "p3", Status: entity.PurchaseStatusArrived}))

	list, err := repo.List(ctx, repository.PurchaseOrderFilter{Status: "Arrived", Page: repository.Page{Limit: 1, Offset: 1}})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "p3", list[0].ID)
}

func TestInventoryMovementRepo_Filtros(t *testing.T) {
	ctx := context.Background()
	repo := NewInventoryMovementRepository(NewStore())
	require.NoError(t, repo.Create(ctx, &entity.InventoryMovement{ID: "m1", Source: entity.MovementSourceManual, MovementType: entity.MovementTypeInbound}))
	require.NoError(t, repo.Create(ctx, &entity.InventoryMovement{ID: "m2", Source: entity.MovementSourceSalesOrder, ReferenceID: "s1", MovementType: entity.MovementTypeOutbound}))

	list, err := repo.List(ctx, repository.MovementFilter{ReferenceID: "s1"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "m2", list[0].ID)
}

// ─── Usuarios ────────────────────────────────────────────────────────────────

func TestUserRepo_EmailSinDistinguirMayusculas(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(NewStore())
	require.NoError(t, repo.Create(ctx, &entity.User{ID: "u1", Email: "Ana@Tienda.co"}))

	err := repo.Create(ctx, &entity.User{ID: "u2", Email: "ana@tienda.co"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	u, err := repo.GetByEmail(ctx, "ANA@TIENDA.CO")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "u1", u.ID)
}

var fixedNow = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
