package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesSourceStore canal de venta por defecto.
const SalesSourceStore = "store"

// SalesLine línea de una venta.
type SalesLine struct {
	ProductCode string          `json:"productCode"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}

// SalesOrder orden de venta: descuenta stock por cada línea al crearse.
type SalesOrder struct {
	ID          string
	Lines       []SalesLine
	TotalAmount decimal.Decimal
	SaleDate    time.Time
	Source      string
	Version     int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Recompute recalcula TotalAmount a partir de las líneas (sum(price * quantity)).
func (o *SalesOrder) Recompute() {
	total := decimal.Zero
	for _, l := range o.Lines {
		total = total.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	o.TotalAmount = total
}
