package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jhoicas/wareflow-api/internal/domain"
)

// Los documentos (movimientos y órdenes) guardan sus líneas como JSONB y usan
// la columna version para compare-and-swap en Update y Delete.

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

const defaultPageSize = 20

func getOne[T any](ctx context.Context, q Querier, b squirrel.SelectBuilder) (*T, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var row T
	if err := pgxscan.Get(ctx, q, &row, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func selectAll[T any](ctx context.Context, q Querier, b squirrel.SelectBuilder) ([]T, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var rows []T
	if err := pgxscan.Select(ctx, q, &rows, query, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

func paginate(b squirrel.SelectBuilder, limit, offset int) squirrel.SelectBuilder {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return b.OrderBy("created_at", "id").Limit(uint64(limit)).Offset(uint64(offset))
}

func insert(ctx context.Context, q Querier, b squirrel.InsertBuilder) error {
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := q.Exec(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return err
	}
	return nil
}

// casUpdate ejecuta un UPDATE con "WHERE id AND version". Sin filas afectadas distingue
// documento eliminado (domain.ErrNotFound) de versión obsoleta (domain.ErrConflict).
func casUpdate(ctx context.Context, q Querier, table, id string, version int, set map[string]any) error {
	b := psql.Update(table).
		SetMap(set).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"version": version})
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	return missingOrStale(ctx, q, table, id)
}

// casDelete elimina el documento solo si la versión coincide.
func casDelete(ctx context.Context, q Querier, table, id string, version int) error {
	query, args, err := psql.Delete(table).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"version": version}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	return missingOrStale(ctx, q, table, id)
}

func missingOrStale(ctx context.Context, q Querier, table, id string) error {
	var exists bool
	query := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE id = $1)`, table)
	if err := q.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return fmt.Errorf("check %s: %w", table, err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	return domain.ErrConflict
}

func encodeLines(lines any) ([]byte, error) {
	b, err := json.Marshal(lines)
	if err != nil {
		return nil, fmt.Errorf("encode lines: %w", err)
	}
	return b, nil
}

func decodeLines[T any](raw []byte) ([]T, error) {
	var lines []T
	if len(raw) == 0 {
		return lines, nil
	}
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, fmt.Errorf("decode lines: %w", err)
	}
	return lines, nil
}

// wrapDocErr deja pasar los errores de dominio sin envolver para que la capa HTTP los mapee.
func wrapDocErr(op string, err error) error {
	switch err {
	case domain.ErrNotFound, domain.ErrConflict, domain.ErrDuplicate:
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}
