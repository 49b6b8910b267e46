package memory

import (
	"context"
	"slices"

	"github.com/jhoicas/wareflow-api/internal/domain"
	"github.com/jhoicas/wareflow-api/internal/domain/entity"
	"github.com/jhoicas/wareflow-api/internal/domain/repository"
)

const returnsCollection = "returns"

var _ repository.ReturnRepository = (*ReturnRepo)(nil)

// ReturnRepo implementación en memoria de ReturnRepository.
type ReturnRepo struct {
	s *Store
}

// NewReturnRepository construye el repositorio sobre el Store.
func NewReturnRepository(s *Store) *ReturnRepo {
	return &ReturnRepo{s: s}
}

func cloneReturn(o *entity.Return) *entity.Return {
	c := *o
	c.Lines = slices.Clone(o.Lines)
	return &c
}

// Create persiste el documento con la versión recibida.
func (r *ReturnRepo) Create(_ context.Context, o *entity.Return) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.returns[o.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.returns[o.ID] = cloneReturn(o)
	r.s.track(returnsCollection, o.ID)
	return nil
}

// GetByID devuelve (nil, nil) si no existe.
func (r *ReturnRepo) GetByID(_ context.Context, id string) (*entity.Return, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	o, ok := r.s.returns[id]
	if !ok {
		return nil, nil
	}
	return cloneReturn(o), nil
}

// List lista en orden de creación.
func (r *ReturnRepo) List(_ context.Context, page repository.Page) ([]*entity.Return, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	ids := r.s.page(returnsCollection, nil, page.Limit, page.Offset)
	list := make([]*entity.Return, 0, len(ids))
	for _, id := range ids {
		list = append(list, cloneReturn(r.s.returns[id]))
	}
	return list, nil
}

// Update compare-and-swap sobre Version.
func (r *ReturnRepo) Update(_ context.Context, o *entity.Return) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.returns[o.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if current.Version != o.Version {
		return domain.ErrConflict
	}
	o.Version++
	r.s.returns[o.ID] = cloneReturn(o)
	return nil
}

// Delete elimina solo si version coincide.
func (r *ReturnRepo) Delete(_ context.Context, id string, version int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.returns[id]
	if !ok {
		return domain.ErrNotFound
	}
	if current.Version != version {
		return domain.ErrConflict
	}
	delete(r.s.returns, id)
	r.s.untrack(returnsCollection, id)
	return nil
}
