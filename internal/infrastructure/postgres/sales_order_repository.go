package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jhoicas/wareflow-api/internal/domain/entity"
	"github.com/jhoicas/wareflow-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.SalesOrderRepository = (*SalesOrderRepo)(nil)

const salesOrdersTable = "sales_orders"

var salesOrderColumns = []string{
	"id", "lines", "total_amount", "sale_date", "source", "version", "created_at", "updated_at",
}

type salesOrderRow struct {
	ID          string          `db:"id"`
	Lines       []byte          `db:"lines"`
	TotalAmount decimal.Decimal `db:"total_amount"`
	SaleDate    time.Time       `db:"sale_date"`
	Source      string          `db:"source"`
	Version     int             `db:"version"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

func (r salesOrderRow) toEntity() (*entity.SalesOrder, error) {
	lines, err := decodeLines[entity.SalesLine](r.Lines)
	if err != nil {
		return nil, err
	}
	return &entity.SalesOrder{
		ID:          r.ID,
		Lines:       lines,
		TotalAmount: r.TotalAmount,
		SaleDate:    r.SaleDate,
		Source:      r.Source,
		Version:     r.Version,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}, nil
}

// SalesOrderRepo implementación del puerto SalesOrderRepository sobre PostgreSQL.
type SalesOrderRepo struct {
	q Querier
}

// NewSalesOrderRepository construye el adaptador de persistencia para órdenes de venta.
func NewSalesOrderRepository(q Querier) *SalesOrderRepo {
	return &SalesOrderRepo{q: q}
}

// Create persiste una orden de venta.
func (r *SalesOrderRepo) Create(ctx context.Context, o *entity.SalesOrder) error {
	lines, err := encodeLines(o.Lines)
	if err != nil {
		return err
	}
	b := psql.Insert(salesOrdersTable).Columns(salesOrderColumns...).Values(
		o.ID, lines, o.TotalAmount, o.SaleDate, o.Source, o.Version, o.CreatedAt, o.UpdatedAt,
	)
	if err := insert(ctx, r.q, b); err != nil {
		return fmt.Errorf("insert sales order: %w", err)
	}
	return nil
}

// GetByID obtiene una orden de venta. (nil, nil) si no existe.
func (r *SalesOrderRepo) GetByID(ctx context.Context, id string) (*entity.SalesOrder, error) {
	row, err := getOne[salesOrderRow](ctx, r.q, psql.Select(salesOrderColumns...).From(salesOrdersTable).Where(squirrel.Eq{"id": id}))
	if err != nil {
		return nil, fmt.Errorf("get sales order: %w", err)
	}
	if row == nil {
		return nil, nil
	}
	return row.toEntity()
}

// List lista órdenes de venta paginadas.
func (r *SalesOrderRepo) List(ctx context.Context, page repository.Page) ([]*entity.SalesOrder, error) {
	rows, err := selectAll[salesOrderRow](ctx, r.q, paginate(psql.Select(salesOrderColumns...).From(salesOrdersTable), page.Limit, page.Offset))
	if err != nil {
		return nil, fmt.Errorf("list sales orders: %w", err)
	}
	list := make([]*entity.SalesOrder, 0, len(rows))
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
func (r *SalesOrderRepo) Update(ctx context.Context, o *entity.SalesOrder) error {
	lines, err := encodeLines(o.Lines)
	if err != nil {
		return err
	}
	err = casUpdate(ctx, r.q, salesOrdersTable, o.ID, o.Version, map[string]any{
		"lines":        lines,
		"total_amount": o.TotalAmount,
		"sale_date":    o.SaleDate,
		"source":       o.Source,
		"updated_at":   o.UpdatedAt,
	})
	if err != nil {
		return wrapDocErr("update sales order", err)
	}
	o.Version++
	return nil
}

// Delete elimina la orden si version coincide.
func (r *SalesOrderRepo) Delete(ctx context.Context, id string, version int) error {
	if err := casDelete(ctx, r.q, salesOrdersTable, id, version); err != nil {
		return wrapDocErr("delete sales order", err)
	}
	return nil
}
