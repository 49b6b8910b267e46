package orders

import (
	"context"

	"github.com/jhoicas/wareflow-api/internal/application/stock"
	"github.com/jhoicas/wareflow-api/internal/domain/entity"
)

// StockAdjuster operaciones del servicio de stock que usan los coordinadores. *stock.Service la implementa.
type StockAdjuster interface {
	EnsureExist(ctx context.Context, codes []string) error
	CheckAvailability(ctx context.Context, deltas []stock.Delta) error
	ApplyAll(ctx context.Context, deltas []stock.Delta) error
	Compensate(ctx context.Context, applied []stock.Delta) error
}

// MovementLogger registra movimientos de auditoría. *inventory.MovementUseCase la implementa.
type MovementLogger interface {
	Log(ctx context.Context, m *entity.InventoryMovement) error
}

// ReceiptRenderer genera el comprobante PDF de una venta.
type ReceiptRenderer interface {
	RenderSalesReceipt(order *entity.SalesOrder) ([]byte, error)
}
