package postgres

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wareflow-api/internal/domain"
)

// scriptedRow devuelve un valor fijo o un error al escanear.
type scriptedRow struct {
	val any
	err error
}

func (r scriptedRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	switch d := dest[0].(type) {
	case *int:
		*d = r.val.(int)
	case *bool:
		*d = r.val.(bool)
	}
	return nil
}

// rowQuerier responde cada QueryRow con la siguiente fila del guion y registra SQL y argumentos.
type rowQuerier struct {
	rows    []scriptedRow
	sqls    []string
	argsLog [][]any
}

func (q *rowQuerier) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, errors.New("no implementado")
}

func (q *rowQuerier) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("no implementado")
}

func (q *rowQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	q.sqls = append(q.sqls, sql)
	q.argsLog = append(q.argsLog, args)
	row := q.rows[0]
	q.rows = q.rows[1:]
	return row
}

func squash(sql string) string { return strings.Join(strings.Fields(sql), " ") }

// ─── AdjustStock ─────────────────────────────────────────────────────────────

func TestAdjustStock_UpdateCondicional(t *testing.T) {
	q := &rowQuerier{rows: []scriptedRow{{val: 7}}}

	got, err := NewProductRepository(q).AdjustStock(context.Background(), "TSH123-M", -3)
	require.NoError(t, err)
	assert.Equal(t, 7, got)

	require.Len(t, q.sqls, 1)
	sql := squash(q.sqls[0])
	assert.Contains(t, sql, "UPDATE products SET stock = stock + $2")
	assert.Contains(t, sql, "WHERE code = $1 AND stock + $2 >= 0")
	assert.Contains(t, sql, "RETURNING stock")
	assert.Equal(t, []any{"TSH123-M", -3}, q.argsLog[0])
}

func TestAdjustStock_SinFilas_StockInsuficiente(t *testing.T) {
	q := &rowQuerier{rows: []scriptedRow{{err: pgx.ErrNoRows}, {val: true}}}

	_, err := NewProductRepository(q).AdjustStock(context.Background(), "TSH123-M", -50)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	require.Len(t, q.sqls, 2)
	assert.Equal(t, "SELECT EXISTS(SELECT 1 FROM products WHERE code = $1)", q.sqls[1])
	assert.Equal(t, []any{"TSH123-M"}, q.argsLog[1])
}

func TestAdjustStock_SinFilas_ProductoInexistente(t *testing.T) {
	q := &rowQuerier{rows: []scriptedRow{{err: pgx.ErrNoRows}, {val: false}}}

	_, err := NewProductRepository(q).AdjustStock(context.Background(), "NOEXISTE", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NotErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestAdjustStock_ErrorDeConexion(t *testing.T) {
	q := &rowQuerier{rows: []scriptedRow{{err: errors.New("conexión cerrada")}}}

	_, err := NewProductRepository(q).AdjustStock(context.Background(), "TSH123-M", 1)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
	assert.NotErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Len(t, q.sqls, 1)
}
