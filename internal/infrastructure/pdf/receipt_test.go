package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wareflow-api/internal/domain/entity"
)

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":         "0,00",
		"999.5":     "999,50",
		"25000":     "25.000,00",
		"1234567.5": "1.234.567,50",
		"-1500":     "-1.500,00",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatMoney(decimal.RequireFromString(in)), in)
	}
}

func TestRenderSalesReceipt_GeneraPDF(t *testing.T) {
	order := &entity.SalesOrder{
		ID: "so-123",
		Lines: []entity.SalesLine{
			{ProductCode: "A1", Price: decimal.RequireFromString("12.50"), Quantity: 2},
			{ProductCode: "B2", Price: decimal.RequireFromString("3"), Quantity: 1},
		},
		SaleDate: time.Date(2026, 5, 4, 15, 30, 0, 0, time.UTC),
		Source:   entity.SalesSourceStore,
	}
	order.Recompute()

	out, err := NewMarotoReceiptRenderer("Wareflow").RenderSalesReceipt(order)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRenderSalesReceipt_OrdenNil(t *testing.T) {
	_, err := NewMarotoReceiptRenderer("x").RenderSalesReceipt(nil)
	assert.Error(t, err)
}
