package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jhoicas/wareflow-api/internal/domain/entity"
	"github.com/jhoicas/wareflow-api/internal/domain/repository"
)

var _ repository.ReturnRepository = (*ReturnRepo)(nil)

const returnsTable = "returns"

var returnColumns = []string{"id", "sales_order_id", "lines", "status", "version", "created_at", "updated_at"}

type returnRow struct {
	ID           string    `db:"id"`
	SalesOrderID string    `db:"sales_order_id"`
	Lines        []byte    `db:"lines"`
	Status       string    `db:"status"`
	Version      int       `db:"version"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r returnRow) toEntity() (*entity.Return, error) {
	lines, err := decodeLines[entity.ReturnLine](r.Lines)
	if err != nil {
		return nil, err
	}
	return &entity.Return{
		ID:           r.ID,
		SalesOrderID: r.SalesOrderID,
		Lines:        lines,
		Status:       entity.ReturnStatus(r.Status),
		Version:      r.Version,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}, nil
}

// ReturnRepo implementación del puerto ReturnRepository sobre PostgreSQL.
type ReturnRepo struct {
	q Querier
}

// NewReturnRepository construye el adaptador de persistencia para devoluciones.
func NewReturnRepository(q Querier) *ReturnRepo {
	return &ReturnRepo{q: q}
}

// Create persiste una devolución.
func (r *ReturnRepo) Create(ctx context.Context, ret *entity.Return) error {
	lines, err := encodeLines(ret.Lines)
	if err != nil {
		return err
	}
	b := psql.Insert(returnsTable).Columns(returnColumns...).Values(
		ret.ID, ret.SalesOrderID, lines, string(ret.Status), ret.Version, ret.CreatedAt, ret.UpdatedAt,
	)
	if err := insert(ctx, r.q, b); err != nil {
		return fmt.Errorf("insert return: %w", err)
	}
	return nil
}

// GetByID obtiene una devolución. (nil, nil) si no existe.
func (r *ReturnRepo) GetByID(ctx context.Context, id string) (*entity.Return, error) {
	row, err := getOne[returnRow](ctx, r.q, psql.Select(returnColumns...).From(returnsTable).Where(squirrel.Eq{"id": id}))
	if err != nil {
		return nil, fmt.Errorf("get return: %w", err)
	}
	if row == nil {
		return nil, nil
	}
	return row.toEntity()
}

// List lista devoluciones paginadas.
func (r *ReturnRepo) List(ctx context.Context, page repository.Page) ([]*entity.Return, error) {
	rows, err := selectAll[returnRow](ctx, r.q, paginate(psql.Select(returnColumns...).From(returnsTable), page.Limit, page.Offset))
	if err != nil {
		return nil, fmt.Errorf("list returns: %w", err)
	}
	list := make([]*entity.Return, 0, len(rows))
	for _, row := range rows {
		ret, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		list = append(list, ret)
	}
	return list, nil
}

// Update guarda la devolución con CAS sobre Version.
func (r *ReturnRepo) Update(ctx context.Context, ret *entity.Return) error {
	lines, err := encodeLines(ret.Lines)
	if err != nil {
		return err
	}
	err = casUpdate(ctx, r.q, returnsTable, ret.ID, ret.Version, map[string]any{
		"sales_order_id": ret.SalesOrderID,
		"lines":          lines,
		"status":         string(ret.Status),
		"updated_at":     ret.UpdatedAt,
	})
	if err != nil {
		return wrapDocErr("update return", err)
	}
	ret.Version++
	return nil
}

// Delete elimina la devolución si version coincide.
func (r *ReturnRepo) Delete(ctx context.Context, id string, version int) error {
	if err := casDelete(ctx, r.q, returnsTable, id, version); err != nil {
		return wrapDocErr("delete return", err)
	}
	return nil
}
