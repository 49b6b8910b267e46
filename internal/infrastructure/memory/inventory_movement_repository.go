package memory

import (
	"context"
	"slices"

	"github.com/jhoicas/wareflow-api/internal/domain"
	"github.com/jhoicas/wareflow-api/internal/domain/entity"
	"github.com/jhoicas/wareflow-api/internal/domain/repository"
)

const movementsCollection = "inventory_movements"

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

// InventoryMovementRepo implementación en memoria de InventoryMovementRepository.
type InventoryMovementRepo struct {
	s *Store
}

// NewInventoryMovementRepository construye el repositorio sobre el Store.
func NewInventoryMovementRepository(s *Store) *InventoryMovementRepo {
	return &InventoryMovementRepo{s: s}
}

func cloneMovement(m *entity.InventoryMovement) *entity.InventoryMovement {
	c := *m
	c.Lines = slices.Clone(m.Lines)
	return &c
}

// Create persiste un movimiento.
func (r *InventoryMovementRepo) Create(_ context.Context, m *entity.InventoryMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.movements[m.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.movements[m.ID] = cloneMovement(m)
	r.s.track(movementsCollection, m.ID)
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *InventoryMovementRepo) GetByID(_ context.Context, id string) (*entity.InventoryMovement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.movements[id]
	if !ok {
		return nil, nil
	}
	return cloneMovement(m), nil
}

// List lista movimientos aplicando los filtros no vacíos.
func (r *InventoryMovementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.InventoryMovement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	keep := func(id string) bool {
		m := r.s.movements[id]
		return (f.MovementType == "" || m.MovementType == f.MovementType) &&
			(f.Status == "" || string(m.Status) == f.Status) &&
			(f.Source == "" || m.Source == f.Source) &&
			(f.ReferenceID == "" || m.ReferenceID == f.ReferenceID)
	}
	ids := r.s.page(movementsCollection, keep, f.Limit, f.Offset)
	list := make([]*entity.InventoryMovement, 0, len(ids))
	for _, id := range ids {
		list = append(list, cloneMovement(r.s.movements[id]))
	}
	return list, nil
}

// Update guarda el movimiento si Version coincide con la persistida.
func (r *InventoryMovementRepo) Update(_ context.Context, m *entity.InventoryMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.movements[m.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if current.Version != m.Version {
		return domain.ErrConflict
	}
	m.Version++
	r.s.movements[m.ID] = cloneMovement(m)
	return nil
}

// Delete elimina un movimiento por ID.
func (r *InventoryMovementRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.movements[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.movements, id)
	r.s.untrack(movementsCollection, id)
	return nil
}
