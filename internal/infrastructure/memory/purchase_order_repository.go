package memory

import (
	"context"
	"slices"

	"github.com/jhoicas/wareflow-api/internal/domain"
	"github.com/jhoicas/wareflow-api/internal/domain/entity"
	"github.com/jhoicas/wareflow-api/internal/domain/repository"
)

const purchasesCollection = "purchase_orders"

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo implementación en memoria de PurchaseOrderRepository.
type PurchaseOrderRepo struct {
	s *Store
}

// NewPurchaseOrderRepository construye el repositorio sobre el Store.
func NewPurchaseOrderRepository(s *Store) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{s: s}
}

func clonePurchaseOrder(o *entity.PurchaseOrder) *entity.PurchaseOrder {
	c := *o
	c.Lines = slices.Clone(o.Lines)
	if o.ReceivedDate != nil {
		t := *o.ReceivedDate
		c.ReceivedDate = &t
	}
	return &c
}

// Create persiste el documento con la versión recibida.
func (r *PurchaseOrderRepo) Create(_ context.Context, o *entity.PurchaseOrder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.purchases[o.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.purchases[o.ID] = clonePurchaseOrder(o)
	r.s.track(purchasesCollection, o.ID)
	return nil
}

// GetByID devuelve (nil, nil) si no existe.
func (r *PurchaseOrderRepo) GetByID(_ context.Context, id string) (*entity.PurchaseOrder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	o, ok := r.s.purchases[id]
	if !ok {
		return nil, nil
	}
	return clonePurchaseOrder(o), nil
}

// List lista en orden de creación.
func (r *PurchaseOrderRepo) List(_ context.Context, f repository.PurchaseOrderFilter) ([]*entity.PurchaseOrder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	ids := r.s.page(purchasesCollection, func(id string) bool {
		return f.Status == "" || string(r.s.purchases[id].Status) == f.Status
	}, f.Limit, f.Offset)
	list := make([]*entity.PurchaseOrder, 0, len(ids))
	for _, id := range ids {
		list = append(list, clonePurchaseOrder(r.s.purchases[id]))
	}
	return list, nil
}

// Update compare-and-swap sobre Version.
func (r *PurchaseOrderRepo) Update(_ context.Context, o *entity.PurchaseOrder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.purchases[o.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if current.Version != o.Version {
		return domain.ErrConflict
	}
	o.Version++
	r.s.purchases[o.ID] = clonePurchaseOrder(o)
	return nil
}

// Delete elimina solo si version coincide.
func (r *PurchaseOrderRepo) Delete(_ context.Context, id string, version int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.purchases[id]
	if !ok {
		return domain.ErrNotFound
	}
	if current.Version != version {
		return domain.ErrConflict
	}
	delete(r.s.purchases, id)
	r.s.untrack(purchasesCollection, id)
	return nil
}
