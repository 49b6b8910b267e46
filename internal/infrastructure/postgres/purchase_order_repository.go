package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jhoicas/wareflow-api/internal/domain/entity"
	"github.com/jhoicas/wareflow-api/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

const purchaseOrdersTable = "purchase_orders"

var purchaseOrderColumns = []string{
	"id", "lines", "supplier", "status", "order_date", "received_date", "stock_applied", "version", "created_at", "updated_at",
}

type purchaseOrderRow struct {
	ID           string     `db:"id"`
	Lines        []byte     `db:"lines"`
	Supplier     string     `db:"supplier"`
	Status       string     `db:"status"`
	OrderDate    time.Time  `db:"order_date"`
	ReceivedDate *time.Time `db:"received_date"`
	StockApplied bool       `db:"stock_applied"`
	Version      int        `db:"version"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}

func (r purchaseOrderRow) toEntity() (*entity.PurchaseOrder, error) {
	lines, err := decodeLines[entity.PurchaseLine](r.Lines)
	if err != nil {
		return nil, err
	}
	return &entity.PurchaseOrder{
		ID:           r.ID,
		Lines:        lines,
		Supplier:     r.Supplier,
		Status:       entity.PurchaseStatus(r.Status),
		OrderDate:    r.OrderDate,
		ReceivedDate: r.ReceivedDate,
		StockApplied: r.StockApplied,
		Version:      r.Version,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}, nil
}

// PurchaseOrderRepo implementación del puerto PurchaseOrderRepository sobre PostgreSQL.
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador de persistencia para órdenes de compra.
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

// Create persiste una orden de compra.
func (r *PurchaseOrderRepo) Create(ctx context.Context, o *entity.PurchaseOrder) error {
	lines, err := encodeLines(o.Lines)
	if err != nil {
		return err
	}
	b := psql.Insert(purchaseOrdersTable).Columns(purchaseOrderColumns...).Values(
		o.ID, lines, o.Supplier, string(o.Status), o.OrderDate, o.ReceivedDate, o.StockApplied,
		o.Version, o.CreatedAt, o.UpdatedAt,
	)
	if err := insert(ctx, r.q, b); err != nil {
		return fmt.Errorf("insert purchase order: %w", err)
	}
	return nil
}

// GetByID obtiene una orden de compra. (nil, nil) si no existe.
func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	row, err := getOne[purchaseOrderRow](ctx, r.q, psql.Select(purchaseOrderColumns...).From(purchaseOrdersTable).Where(squirrel.Eq{"id": id}))
	if err != nil {
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	if row == nil {
		return nil, nil
	}
	return row.toEntity()
}

// List lista órdenes de compra, opcionalmente filtradas por estado.
func (r *PurchaseOrderRepo) List(ctx context.Context, f repository.PurchaseOrderFilter) ([]*entity.PurchaseOrder, error) {
	b := psql.Select(purchaseOrderColumns...).From(purchaseOrdersTable)
	if f.Status != "" {
		b = b.Where(squirrel.Eq{"status": f.Status})
	}
	rows, err := selectAll[purchaseOrderRow](ctx, r.q, paginate(b, f.Limit, f.Offset))
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	list := make([]*entity.PurchaseOrder, 0, len(rows))
	for _, row := range rows {
		o, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		list = append(list, o)
	}
	return list, nil
}

// Update guarda la orden con CAS sobre Version.
func (r *PurchaseOrderRepo) Update(ctx context.Context, o *entity.PurchaseOrder) error {
	lines, err := encodeLines(o.Lines)
	if err != nil {
		return err
	}
	err = casUpdate(ctx, r.q, purchaseOrdersTable, o.ID, o.Version, map[string]any{
		"lines":         lines,
		"supplier":      o.Supplier,
		"status":        string(o.Status),
		"order_date":    o.OrderDate,
		"received_date": o.ReceivedDate,
		"stock_applied": o.StockApplied,
		"updated_at":    o.UpdatedAt,
	})
	if err != nil {
		return wrapDocErr("update purchase order", err)
	}
	o.Version++
	return nil
}

// Delete elimina la orden si version coincide.
func (r *PurchaseOrderRepo) Delete(ctx context.Context, id string, version int) error {
	if err := casDelete(ctx, r.q, purchaseOrdersTable, id, version); err != nil {
		return wrapDocErr("delete purchase order", err)
	}
	return nil
}
