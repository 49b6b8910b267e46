package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jhoicas/wareflow-api/internal/domain"
	"github.com/jhoicas/wareflow-api/internal/domain/entity"
	"github.com/jhoicas/wareflow-api/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

const movementsTable = "inventory_movements"

var movementColumns = []string{
	"id", "lines", "movement_type", "status", "source", "reference_id", "date", "remarks", "version", "created_at", "updated_at",
}

type movementRow struct {
	ID           string    `db:"id"`
	Lines        []byte    `db:"lines"`
	MovementType string    `db:"movement_type"`
	Status       string    `db:"status"`
	Source       string    `db:"source"`
	ReferenceID  string    `db:"reference_id"`
	Date         time.Time `db:"date"`
	Remarks      string    `db:"remarks"`
	Version      int       `db:"version"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r movementRow) toEntity() (*entity.InventoryMovement, error) {
	lines, err := decodeLines[entity.MovementLine](r.Lines)
	if err != nil {
		return nil, err
	}
	return &entity.InventoryMovement{
		ID:           r.ID,
		Lines:        lines,
		MovementType: r.MovementType,
		Status:       entity.MovementStatus(r.Status),
		Source:       r.Source,
		ReferenceID:  r.ReferenceID,
		Date:         r.Date,
		Remarks:      r.Remarks,
		Version:      r.Version,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}, nil
}

// InventoryMovementRepo implementación del puerto InventoryMovementRepository sobre PostgreSQL.
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador de persistencia para movimientos.
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

// Create persiste un movimiento.
func (r *InventoryMovementRepo) Create(ctx context.Context, m *entity.InventoryMovement) error {
	lines, err := encodeLines(m.Lines)
	if err != nil {
		return err
	}
	b := psql.Insert(movementsTable).Columns(movementColumns...).Values(
		m.ID, lines, m.MovementType, string(m.Status), m.Source, m.ReferenceID, m.Date, m.Remarks,
		m.Version, m.CreatedAt, m.UpdatedAt,
	)
	if err := insert(ctx, r.q, b); err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID. (nil, nil) si no existe.
func (r *InventoryMovementRepo) GetByID(ctx context.Context, id string) (*entity.InventoryMovement, error) {
	row, err := getOne[movementRow](ctx, r.q, psql.Select(movementColumns...).From(movementsTable).Where(squirrel.Eq{"id": id}))
	if err != nil {
		return nil, fmt.Errorf("get movement: %w", err)
	}
	if row == nil {
		return nil, nil
	}
	return row.toEntity()
}

// List lista movimientos aplicando los filtros no vacíos.
func (r *InventoryMovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.InventoryMovement, error) {
	b := psql.Select(movementColumns...).From(movementsTable)
	if f.MovementType != "" {
		b = b.Where(squirrel.Eq{"movement_type": f.MovementType})
	}
	if f.Status != "" {
		b = b.Where(squirrel.Eq{"status": f.Status})
	}
	if f.Source != "" {
		b = b.Where(squirrel.Eq{"source": f.Source})
	}
	if f.ReferenceID != "" {
		b = b.Where(squirrel.Eq{"reference_id": f.ReferenceID})
	}
	rows, err := selectAll[movementRow](ctx, r.q, paginate(b, f.Limit, f.Offset))
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	list := make([]*entity.InventoryMovement, 0, len(rows))
	for _, row := range rows {
		m, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, nil
}

// Update guarda el movimiento si Version coincide con la persistida e incrementa Version.
func (r *InventoryMovementRepo) Update(ctx context.Context, m *entity.InventoryMovement) error {
	lines, err := encodeLines(m.Lines)
	if err != nil {
		return err
	}
	err = casUpdate(ctx, r.q, movementsTable, m.ID, m.Version, map[string]any{
		"lines":      lines,
		"status":     string(m.Status),
		"date":       m.Date,
		"remarks":    m.Remarks,
		"updated_at": m.UpdatedAt,
	})
	if err != nil {
		return wrapDocErr("update movement", err)
	}
	m.Version++
	return nil
}

// Delete elimina un movimiento. domain.ErrNotFound si no existe.
func (r *InventoryMovementRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM inventory_movements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete movement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
