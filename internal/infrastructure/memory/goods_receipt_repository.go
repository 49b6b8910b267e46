package memory

import (
	"context"
	"slices"

	"github.com/jhoicas/wareflow-api/internal/domain"
	"github.com/jhoicas/wareflow-api/internal/domain/entity"
	"github.com/jhoicas/wareflow-api/internal/domain/repository"
)

const receiptsCollection = "goods_receipts"

var _ repository.GoodsReceiptRepository = (*GoodsReceiptRepo)(nil)

// GoodsReceiptRepo implementación en memoria de GoodsReceiptRepository.
type GoodsReceiptRepo struct {
	s *Store
}

// NewGoodsReceiptRepository construye el repositorio sobre el Store.
func NewGoodsReceiptRepository(s *Store) *GoodsReceiptRepo {
	return &GoodsReceiptRepo{s: s}
}

func cloneGoodsReceipt(o *entity.GoodsReceipt) *entity.GoodsReceipt {
	c := *o
	c.Lines = slices.Clone(o.Lines)
	return &c
}

// Create persiste el documento con la versión recibida.
func (r *GoodsReceiptRepo) Create(_ context.Context, o *entity.GoodsReceipt) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.receipts[o.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.receipts[o.ID] = cloneGoodsReceipt(o)
	r.s.track(receiptsCollection, o.ID)
	return nil
}

// GetByID devuelve (nil, nil) si no existe.
func (r *GoodsReceiptRepo) GetByID(_ context.Context, id string) (*entity.GoodsReceipt, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	o, ok := r.s.receipts[id]
	if !ok {
		return nil, nil
	}
	return cloneGoodsReceipt(o), nil
}

// List lista en orden de creación.
func (r *GoodsReceiptRepo) List(_ context.Context, page repository.Page) ([]*entity.GoodsReceipt, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	ids := r.s.page(receiptsCollection, nil, page.Limit, page.Offset)
	list := make([]*entity.GoodsReceipt, 0, len(ids))
	for _, id := range ids {
		list = append(list, cloneGoodsReceipt(r.s.receipts[id]))
	}
	return list, nil
}

// Update compare-and-swap sobre Version.
func (r *GoodsReceiptRepo) Update(_ context.Context, o *entity.GoodsReceipt) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.receipts[o.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if current.Version != o.Version {
		return domain.ErrConflict
	}
	o.Version++
	r.s.receipts[o.ID] = cloneGoodsReceipt(o)
	return nil
}

// Delete elimina solo si version coincide.
func (r *GoodsReceiptRepo) Delete(_ context.Context, id string, version int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.receipts[id]
	if !ok {
		return domain.ErrNotFound
	}
	if current.Version != version {
		return domain.ErrConflict
	}
	delete(r.s.receipts, id)
	r.s.untrack(receiptsCollection, id)
	return nil
}
