package repository

import (
	"context"

	"github.com/jhoicas/wareflow-api/internal/domain/entity"
)

// Page paginación de listados.
type Page struct {
	Limit  int
	Offset int
}

// Los repositorios de órdenes comparten contrato:
//   - GetByID devuelve (nil, nil) si el documento no existe.
//   - Update es compare-and-swap sobre Version: domain.ErrConflict si la versión persistida difiere,
//     domain.ErrNotFound si el documento ya no existe. En éxito incrementa Version en el documento.
//   - Delete elimina solo si Version coincide (mismo contrato de errores).

// SalesOrderRepository puerto de persistencia para órdenes de venta.
type SalesOrderRepository interface {
	Create(ctx context.Context, order *entity.SalesOrder) error
	GetByID(ctx context.Context, id string) (*entity.SalesOrder, error)
	List(ctx context.Context, page Page) ([]*entity.SalesOrder, error)
	Update(ctx context.Context, order *entity.SalesOrder) error
	Delete(ctx context.Context, id string, version int) error
}

// PurchaseOrderFilter filtros para listar órdenes de compra.
type PurchaseOrderFilter struct {
	Status string
	Page
}

// PurchaseOrderRepository puerto de persistencia para órdenes de compra.
type PurchaseOrderRepository interface {
	Create(ctx context.Context, order *entity.PurchaseOrder) error
	GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	List(ctx context.Context, filter PurchaseOrderFilter) ([]*entity.PurchaseOrder, error)
	Update(ctx context.Context, order *entity.PurchaseOrder) error
	Delete(ctx context.Context, id string, version int) error
}

// ReturnRepository puerto de persistencia para devoluciones.
type ReturnRepository interface {
	Create(ctx context.Context, ret *entity.Return) error
	GetByID(ctx context.Context, id string) (*entity.Return, error)
	List(ctx context.Context, page Page) ([]*entity.Return, error)
	Update(ctx context.Context, ret *entity.Return) error
	Delete(ctx context.Context, id string, version int) error
}

// GoodsReceiptRepository puerto de persistencia para recepciones de mercancía.
type GoodsReceiptRepository interface {
	Create(ctx context.Context, receipt *entity.GoodsReceipt) error
	GetByID(ctx context.Context, id string) (*entity.GoodsReceipt, error)
	List(ctx context.Context, page Page) ([]*entity.GoodsReceipt, error)
	Update(ctx context.Context, receipt *entity.GoodsReceipt) error
	Delete(ctx context.Context, id string, version int) error
}
