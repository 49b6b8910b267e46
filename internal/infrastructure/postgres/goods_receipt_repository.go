package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jhoicas/wareflow-api/internal/domain/entity"
	"github.com/jhoicas/wareflow-api/internal/domain/repository"
)

var _ repository.GoodsReceiptRepository = (*GoodsReceiptRepo)(nil)

const goodsReceiptsTable = "goods_receipts"

var goodsReceiptColumns = []string{
	"id", "purchase_order_id", "lines", "status", "received_date", "remarks", "stock_applied", "version", "created_at", "updated_at",
}

type goodsReceiptRow struct {
	ID              string    `db:"id"`
	PurchaseOrderID string    `db:"purchase_order_id"`
	Lines           []byte    `db:"lines"`
	Status          string    `db:"status"`
	ReceivedDate    time.Time `db:"received_date"`
	Remarks         string    `db:"remarks"`
	StockApplied    bool      `db:"stock_applied"`
	Version         int       `db:"version"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

func (r goodsReceiptRow) toEntity() (*entity.GoodsReceipt, error) {
	lines, err := decodeLines[entity.ReceiptLine](r.Lines)
	if err != nil {
		return nil, err
	}
	return &entity.GoodsReceipt{
		ID:              r.ID,
		PurchaseOrderID: r.PurchaseOrderID,
		Lines:           lines,
		Status:          entity.ReceiptStatus(r.Status),
		ReceivedDate:    r.ReceivedDate,
		Remarks:         r.Remarks,
		StockApplied:    r.StockApplied,
		Version:         r.Version,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}, nil
}

// GoodsReceiptRepo implementación del puerto GoodsReceiptRepository sobre PostgreSQL.
type GoodsReceiptRepo struct {
	q Querier
}

// NewGoodsReceiptRepository construye el adaptador de persistencia para recepciones.
func NewGoodsReceiptRepository(q Querier) *GoodsReceiptRepo {
	return &GoodsReceiptRepo{q: q}
}

// Create persiste una recepción de mercancía.
func (r *GoodsReceiptRepo) Create(ctx context.Context, g *entity.GoodsReceipt) error {
	lines, err := encodeLines(g.Lines)
	if err != nil {
		return err
	}
	b := psql.Insert(goodsReceiptsTable).Columns(goodsReceiptColumns...).Values(
		g.ID, g.PurchaseOrderID, lines, string(g.Status), g.ReceivedDate, g.Remarks, g.StockApplied,
		g.Version, g.CreatedAt, g.UpdatedAt,
	)
	if err := insert(ctx, r.q, b); err != nil {
		return fmt.Errorf("insert goods receipt: %w", err)
	}
	return nil
}

// GetByID obtiene una recepción. (nil, nil) si no existe.
func (r *GoodsReceiptRepo) GetByID(ctx context.Context, id string) (*entity.GoodsReceipt, error) {
	row, err := getOne[goodsReceiptRow](ctx, r.q, psql.Select(goodsReceiptColumns...).From(goodsReceiptsTable).Where(squirrel.Eq{"id": id}))
	if err != nil {
		return nil, fmt.Errorf("get goods receipt: %w", err)
	}
	if row == nil {
		return nil, nil
	}
	return row.toEntity()
}

// List lista recepciones paginadas.
func (r *GoodsReceiptRepo) List(ctx context.Context, page repository.Page) ([]*entity.GoodsReceipt, error) {
	rows, err := selectAll[goodsReceiptRow](ctx, r.q, paginate(psql.Select(goodsReceiptColumns...).From(goodsReceiptsTable), page.Limit, page.Offset))
	if err != nil {
		return nil, fmt.Errorf("list goods receipts: %w", err)
	}
	list := make([]*entity.GoodsReceipt, 0, len(rows))
	for _, row := range rows {
		g, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		list = append(list, g)
	}
	return list, nil
}

// Update guarda la recepción con CAS sobre Version.
func (r *GoodsReceiptRepo) Update(ctx context.Context, g *entity.GoodsReceipt) error {
	lines, err := encodeLines(g.Lines)
	if err != nil {
		return err
	}
	err = casUpdate(ctx, r.q, goodsReceiptsTable, g.ID, g.Version, map[string]any{
		"purchase_order_id": g.PurchaseOrderID,
		"lines":             lines,
		"status":            string(g.Status),
		"received_date":     g.ReceivedDate,
		"remarks":           g.Remarks,
		"stock_applied":     g.StockApplied,
		"updated_at":        g.UpdatedAt,
	})
	if err != nil {
		return wrapDocErr("update goods receipt", err)
	}
	g.Version++
	return nil
}

// Delete elimina la recepción si version coincide.
func (r *GoodsReceiptRepo) Delete(ctx context.Context, id string, version int) error {
	if err := casDelete(ctx, r.q, goodsReceiptsTable, id, version); err != nil {
		return wrapDocErr("delete goods receipt", err)
	}
	return nil
}
