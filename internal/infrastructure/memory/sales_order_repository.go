package memory

import (
	"context"
	"slices"

	"github.com/jhoicas/wareflow-api/internal/domain"
	"github.com/jhoicas/wareflow-api/internal/domain/entity"
	"github.com/jhoicas/wareflow-api/internal/domain/repository"
)

const salesCollection = "sales_orders"

var _ repository.SalesOrderRepository = (*SalesOrderRepo)(nil)

// SalesOrderRepo implementación en memoria de SalesOrderRepository.
type SalesOrderRepo struct {
	s *Store
}

// NewSalesOrderRepository construye el repositorio sobre el Store.
func NewSalesOrderRepository(s *Store) *SalesOrderRepo {
	return &SalesOrderRepo{s: s}
}

func cloneSalesOrder(o *entity.SalesOrder) *entity.SalesOrder {
	c := *o
	c.Lines = slices.Clone(o.Lines)
	return &c
}

// Create persiste el documento con la versión recibida.
func (r *SalesOrderRepo) Create(_ context.Context, o *entity.SalesOrder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.sales[o.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.sales[o.ID] = cloneSalesOrder(o)
	r.s.track(salesCollection, o.ID)
	return nil
}

// GetByID devuelve (nil, nil) si no existe.
func (r *SalesOrderRepo) GetByID(_ context.Context, id string) (*entity.SalesOrder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	o, ok := r.s.sales[id]
	if !ok {
		return nil, nil
	}
	return cloneSalesOrder(o), nil
}

// List lista en orden de creación.
func (r *SalesOrderRepo) List(_ context.Context, page repository.Page) ([]*entity.SalesOrder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	ids := r.s.page(salesCollection, nil, page.Limit, page.Offset)
	list := make([]*entity.SalesOrder, 0, len(ids))
	for _, id := range ids {
		list = append(list, cloneSalesOrder(r.s.sales[id]))
	}
	return list, nil
}

// Update compare-and-swap sobre Version.
func (r *SalesOrderRepo) Update(_ context.Context, o *entity.SalesOrder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.sales[o.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if current.Version != o.Version {
		return domain.ErrConflict
	}
	o.Version++
	r.s.sales[o.ID] = cloneSalesOrder(o)
	return nil
}

// Delete elimina solo si version coincide.
func (r *SalesOrderRepo) Delete(_ context.Context, id string, version int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.sales[id]
	if !ok {
		return domain.ErrNotFound
	}
	if current.Version != version {
		return domain.ErrConflict
	}
	delete(r.s.sales, id)
	r.s.untrack(salesCollection, id)
	return nil
}
