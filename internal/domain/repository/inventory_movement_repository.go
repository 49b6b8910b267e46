package repository

import (
	"context"

	"github.com/jhoicas/wareflow-api/internal/domain/entity"
)

// MovementFilter filtros opcionales para listar movimientos.
type MovementFilter struct {
	MovementType string
	Status       string
	Source       string
	ReferenceID  string
	Limit        int
	Offset       int
}

// InventoryMovementRepository define el puerto de persistencia para movimientos de inventario.
type InventoryMovementRepository interface {
	Create(ctx context.Context, movement *entity.InventoryMovement) error
	GetByID(ctx context.Context, id string) (*entity.InventoryMovement, error)
	List(ctx context.Context, filter MovementFilter) ([]*entity.InventoryMovement, error)
	// Update guarda con CAS sobre Version (domain.ErrConflict si otro proceso la modificó) e incrementa Version.
	Update(ctx context.Context, movement *entity.InventoryMovement) error
	Delete(ctx context.Context, id string) error
}
