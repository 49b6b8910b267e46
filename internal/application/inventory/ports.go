package inventory

import (
	"context"

	"github.com/jhoicas/wareflow-api/internal/application/stock"
)

// StockAdjuster operaciones del servicio de stock que usa el registro de movimientos.
// *stock.Service la implementa.
type StockAdjuster interface {
	Adjust(ctx context.Context, code string, delta int) (int, error)
	Increase(ctx context.Context, code string, quantity int) (int, error)
	Decrease(ctx context.Context, code string, quantity int) (int, error)
	EnsureExist(ctx context.Context, codes []string) error
	CheckAvailability(ctx context.Context, deltas []stock.Delta) error
	ApplyAll(ctx context.Context, deltas []stock.Delta) error
}

var _ StockAdjuster = (*stock.Service)(nil)
