package orders

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wareflow-api/internal/application/dto"
	"github.com/jhoicas/wareflow-api/internal/domain"
	"github.com/jhoicas/wareflow-api/internal/domain/entity"
)

func TestGoodsReceipt_PendienteNoSumaHastaParcial(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, map[string]int{"P": 1})
	po := createPO(t, f, "", dto.PurchaseLineDTO{ProductCode: "P", Quantity: 10})

	gr, err := f.receipts.Create(ctx, dto.CreateGoodsReceiptRequest{
		PurchaseOrderID: po.ID,
		Lines:           []dto.ReceiptLineDTO{{ProductCode: "P", ReceivedQuantity: 6, Discrepancies: "faltan 4"}},
	})
	require.NoError(t, err)
	assert.Equal(t, string(entity.ReceiptStatusPending), gr.Status)
	assert.False(t, gr.StockApplied)
	assert.Equal(t, 1, f.stockOf(t, "P"))

	out, err := f.receipts.Update(ctx, gr.ID, dto.UpdateGoodsReceiptRequest{Status: ptr("Partial")})
	require.NoError(t, err)
	assert.True(t, out.StockApplied)
	assert.Equal(t, 7, f.stockOf(t, "P"))

	// Llega el resto: pasa a Completed con 10 recibidas, solo ingresa la diferencia.
	_, err = f.receipts.Update(ctx, gr.ID, dto.UpdateGoodsReceiptRequest{
		Status: ptr("Completed"),
		Lines:  []dto.ReceiptLineDTO{{ProductCode: "P", ReceivedQuantity: 10}},
	})
	require.NoError(t, err)
	assert.Equal(t, 11, f.stockOf(t, "P"))

	_, err = f.receipts.Update(ctx, gr.ID, dto.UpdateGoodsReceiptRequest{Status: ptr("Completed")})
	require.NoError(t, err)
	assert.Equal(t, 11, f.stockOf(t, "P"))

	// El estado de la orden de compra no cambia.
	got, err := f.purchases.GetByID(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.PurchaseStatusOrdered), got.Status)
}

func TestGoodsReceipt_CompletadaAlCrear(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, map[string]int{"P": 0, "Q": 0})
	po := createPO(t, f, "", dto.PurchaseLineDTO{ProductCode: "P", Quantity: 2})

	gr, err := f.receipts.Create(ctx, dto.CreateGoodsReceiptRequest{
		PurchaseOrderID: po.ID,
		Status:          "Completed",
		Lines: []dto.ReceiptLineDTO{
			{ProductCode: "P", ReceivedQuantity: 2},
			{ProductCode: "Q", ReceivedQuantity: 0, Discrepancies: "no llegó"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, f.stockOf(t, "P"))
	assert.Equal(t, 0, f.stockOf(t, "Q"))

	movs := f.movementsFor(t, gr.ID)
	require.Len(t, movs, 1)
	assert.Equal(t, []entity.MovementLine{{ProductCode: "P", Quantity: 2}}, movs[0].Lines)

	require.NoError(t, f.receipts.Delete(ctx, gr.ID))
	assert.Equal(t, 0, f.stockOf(t, "P"))
}

func TestGoodsReceipt_ProductoDesconocidoRechazaTodo(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, map[string]int{"P": 0})
	po := createPO(t, f, "", dto.PurchaseLineDTO{ProductCode: "P", Quantity: 2})

	_, err := f.receipts.Create(ctx, dto.CreateGoodsReceiptRequest{
		PurchaseOrderID: po.ID,
		Status:          "Completed",
		Lines:           []dto.ReceiptLineDTO{{ProductCode: "P", ReceivedQuantity: 2}, {ProductCode: "ZZ", ReceivedQuantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrUnknownProduct)
	assert.Equal(t, 0, f.stockOf(t, "P"))
}

func TestGoodsReceipt_OrdenDeCompraInexistente(t *testing.T) {
	f := newFixture(t, map[string]int{"P": 0})

	_, err := f.receipts.Create(context.Background(), dto.CreateGoodsReceiptRequest{
		PurchaseOrderID: "no-existe",
		Lines:           []dto.ReceiptLineDTO{{ProductCode: "P", ReceivedQuantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGoodsReceipt_CompletedEsTerminal(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, map[string]int{"P": 0})
	po := createPO(t, f, "", dto.PurchaseLineDTO{ProductCode: "P", Quantity: 1})
	gr, err := f.receipts.Create(ctx, dto.CreateGoodsReceiptRequest{
		PurchaseOrderID: po.ID,
		Status:          "Completed",
		Lines:           []dto.ReceiptLineDTO{{ProductCode: "P", ReceivedQuantity: 1}},
	})
	require.NoError(t, err)

	_, err = f.receipts.Update(ctx, gr.ID, dto.UpdateGoodsReceiptRequest{Status: ptr("Partial")})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, 1, f.stockOf(t, "P"))
}
