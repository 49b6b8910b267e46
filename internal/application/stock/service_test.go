package stock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wareflow-api/internal/domain"
	"github.com/jhoicas/wareflow-api/internal/domain/entity"
	"github.com/jhoicas/wareflow-api/internal/infrastructure/memory"
)

// failingProducts falla AdjustStock para failCode sin tocar el stock.
type failingProducts struct {
	*memory.ProductRepo
	failCode string
}

func (f *failingProducts) AdjustStock(ctx context.Context, code string, delta int) (int, error) {
	if code == f.failCode {
		return 0, errors.New("almacenamiento no disponible")
	}
	return f.ProductRepo.AdjustStock(ctx, code, delta)
}

type recordingPublisher struct {
	events []StockEvent
	err    error
}

func (p *recordingPublisher) PublishStockAdjusted(_ context.Context, e StockEvent) error {
	p.events = append(p.events, e)
	return p.err
}

func newProducts(t *testing.T, stocks map[string]int) *memory.ProductRepo {
	t.Helper()
	repo := memory.NewProductRepository(memory.NewStore())
	for code, qty := range stocks {
		require.NoError(t, repo.Create(context.Background(), entity.NewProduct("id-"+code, code, qty, time.Now())))
	}
	return repo
}

func stockOf(t *testing.T, repo *memory.ProductRepo, code string) int {
	t.Helper()
	p, err := repo.GetByCode(context.Background(), code)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Stock()
}

// ─── Adjust / Increase / Decrease ────────────────────────────────────────────

func TestAdjust_PublicaEvento(t *testing.T) {
	repo := newProducts(t, map[string]int{"A1": 10})
	pub := &recordingPublisher{}
	svc := NewService(repo, pub, zerolog.Nop())

	newStock, err := svc.Adjust(context.Background(), "A1", -4)
	require.NoError(t, err)
	assert.Equal(t, 6, newStock)
	require.Len(t, pub.events, 1)
	assert.Equal(t, StockEvent{ProductCode: "A1", Delta: -4, NewStock: 6, At: pub.events[0].At}, pub.events[0])
}

func TestAdjust_FalloDelPublicadorNoAfectaResultado(t *testing.T) {
	repo := newProducts(t, map[string]int{"A1": 1})
	svc := NewService(repo, &recordingPublisher{err: errors.New("broker caído")}, zerolog.Nop())

	newStock, err := svc.Adjust(context.Background(), "A1", 2)
	require.NoError(t, err)
	assert.Equal(t, 3, newStock)
}

func TestAdjust_EntradaInvalida(t *testing.T) {
	svc := NewService(newProducts(t, nil), nil, zerolog.Nop())

	_, err := svc.Adjust(context.Background(), "", 1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = svc.Adjust(context.Background(), "A1", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDecrease_StockInsuficiente(t *testing.T) {
	repo := newProducts(t, map[string]int{"A1": 5})
	svc := NewService(repo, nil, zerolog.Nop())

	_, err := svc.Decrease(context.Background(), "A1", 7)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "para disminuir")
	assert.Equal(t, 5, stockOf(t, repo, "A1"))
}

func TestIncrease_ProductoInexistente(t *testing.T) {
	svc := NewService(newProducts(t, nil), nil, zerolog.Nop())

	_, err := svc.Increase(context.Background(), "NOPE", 3)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Increase(context.Background(), "NOPE", -3)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ─── CheckAvailability ───────────────────────────────────────────────────────

func TestCheckAvailability_SumaLineasDelMismoProducto(t *testing.T) {
	repo := newProducts(t, map[string]int{"A1": 5})
	svc := NewService(repo, nil, zerolog.Nop())

	err := svc.CheckAvailability(context.Background(), []Delta{{"A1", -3}, {"A1", -3}})
	var lineErr *domain.LineError
	require.ErrorAs(t, err, &lineErr)
	assert.Equal(t, 2, lineErr.Line)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.NoError(t, svc.CheckAvailability(context.Background(), []Delta{{"A1", -3}, {"A1", -2}, {"NOPE", 4}}))
}

func TestCheckAvailability_ProductoDesconocido(t *testing.T) {
	svc := NewService(newProducts(t, map[string]int{"A1": 5}), nil, zerolog.Nop())

	err := svc.CheckAvailability(context.Background(), []Delta{{"A1", -1}, {"ZZ", -1}})
	assert.ErrorIs(t, err, domain.ErrUnknownProduct)
}

// ─── ApplyAll / Compensate ───────────────────────────────────────────────────

func TestApplyAll_Exito(t *testing.T) {
	repo := newProducts(t, map[string]int{"A1": 10, "B2": 1})
	svc := NewService(repo, nil, zerolog.Nop())

	require.NoError(t, svc.ApplyAll(context.Background(), []Delta{{"A1", -4}, {"A1", -3}, {"B2", 0}, {"B2", 2}}))
	assert.Equal(t, 3, stockOf(t, repo, "A1"))
	assert.Equal(t, 3, stockOf(t, repo, "B2"))
}

func TestApplyAll_FalloEnSegundaLineaCompensaLaPrimera(t *testing.T) {
	repo := newProducts(t, map[string]int{"A1": 10, "B2": 10})
	svc := NewService(&failingProducts{ProductRepo: repo, failCode: "B2"}, nil, zerolog.Nop())

	err := svc.ApplyAll(context.Background(), []Delta{{"A1", -4}, {"B2", -1}})
	var batchErr *BatchError
	require.ErrorAs(t, err, &batchErr)
	assert.Equal(t, 1, batchErr.Index)
	assert.Equal(t, "B2", batchErr.ProductCode)
	assert.NoError(t, batchErr.CompensationErr)

	assert.Equal(t, 10, stockOf(t, repo, "A1"))
	assert.Equal(t, 10, stockOf(t, repo, "B2"))
}

func TestCompensate_OrdenInverso(t *testing.T) {
	repo := newProducts(t, map[string]int{"A1": 0})
	svc := NewService(repo, nil, zerolog.Nop())

	applied := []Delta{{"A1", 5}, {"A1", -2}}
	// Simula que los deltas ya se aplicaron: 0 + 5 - 2 = 3.
	_, err := repo.AdjustStock(context.Background(), "A1", 3)
	require.NoError(t, err)

	require.NoError(t, svc.Compensate(context.Background(), applied))
	assert.Equal(t, 0, stockOf(t, repo, "A1"))
}

func TestNegate(t *testing.T) {
	assert.Equal(t, []Delta{{"A1", 2}, {"B2", -3}}, Negate([]Delta{{"A1", -2}, {"B2", 3}}))
}

func TestEnsureExist(t *testing.T) {
	svc := NewService(newProducts(t, map[string]int{"A1": 1, "B2": 1}), nil, zerolog.Nop())

	assert.NoError(t, svc.EnsureExist(context.Background(), []string{"A1", "B2", "A1"}))

	err := svc.EnsureExist(context.Background(), []string{"A1", "ZZ"})
	var lineErr *domain.LineError
	require.ErrorAs(t, err, &lineErr)
	assert.Equal(t, 2, lineErr.Line)
	assert.Equal(t, "ZZ", lineErr.ProductCode)
	assert.ErrorIs(t, err, domain.ErrUnknownProduct)
}

func TestDiff_DeltaDeDeltas(t *testing.T) {
	prev := []Delta{{"A1", -4}, {"A1", -3}, {"B2", -1}}
	next := []Delta{{"A1", -5}, {"C3", -2}}

	assert.Equal(t, []Delta{{"A1", 2}, {"C3", -2}, {"B2", 1}}, Diff(prev, next))
	assert.Empty(t, Diff(prev, prev))
}

func TestLineOf_MapeaDeltaALineaDelDocumento(t *testing.T) {
	codes := []string{"A", "B"}
	// Un delta por línea: Index coincide con la línea.
	assert.Equal(t, 2, LineOf(codes, &BatchError{Index: 1, ProductCode: "B"}))
	// Tras Diff solo queda el delta de B en posición 0.
	assert.Equal(t, 2, LineOf(codes, &BatchError{Index: 0, ProductCode: "B"}))
	// Producto que ya no está en el documento: se conserva la posición del delta.
	assert.Equal(t, 1, LineOf(codes, &BatchError{Index: 0, ProductCode: "C"}))
}
