package memory

import (
	"context"

	"github.com/jhoicas/wareflow-api/internal/domain"
	"github.com/jhoicas/wareflow-api/internal/domain/entity"
	"github.com/jhoicas/wareflow-api/internal/domain/repository"
)

const productsCollection = "products"

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación en memoria de ProductRepository.
type ProductRepo struct {
	s *Store
}

// NewProductRepository construye el repositorio sobre el Store.
func NewProductRepository(s *Store) *ProductRepo {
	return &ProductRepo{s: s}
}

func cloneProduct(p *entity.Product) *entity.Product {
	c := *p
	return &c
}

// Create persiste un producto; código duplicado → domain.ErrDuplicate.
func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.productIDByCode[product.Code]; ok {
		return domain.ErrDuplicate
	}
	r.s.products[product.ID] = cloneProduct(product)
	r.s.productIDByCode[product.Code] = product.ID
	r.s.track(productsCollection, product.ID)
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return cloneProduct(p), nil
}

// GetByCode obtiene un producto por código.
func (r *ProductRepo) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	id, ok := r.s.productIDByCode[code]
	if !ok {
		return nil, nil
	}
	return cloneProduct(r.s.products[id]), nil
}

// ListByCodes devuelve los productos existentes entre codes (sin duplicados).
func (r *ProductRepo) ListByCodes(_ context.Context, codes []string) ([]*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	seen := make(map[string]bool, len(codes))
	var list []*entity.Product
	for _, code := range codes {
		if seen[code] {
			continue
		}
		seen[code] = true
		if id, ok := r.s.productIDByCode[code]; ok {
			list = append(list, cloneProduct(r.s.products[id]))
		}
	}
	return list, nil
}

// List lista productos en orden de creación.
func (r *ProductRepo) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	ids := r.s.page(productsCollection, nil, limit, offset)
	list := make([]*entity.Product, 0, len(ids))
	for _, id := range ids {
		list = append(list, cloneProduct(r.s.products[id]))
	}
	return list, nil
}

// Update actualiza atributos descriptivos; conserva Code y Stock persistidos.
func (r *ProductRepo) Update(_ context.Context, product *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.products[product.ID]
	if !ok {
		return domain.ErrNotFound
	}
	updated := cloneProduct(product)
	updated.Code = current.Code
	updated.LoadStock(current.Stock())
	r.s.products[product.ID] = updated
	return nil
}

// Delete elimina un producto por ID.
func (r *ProductRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(r.s.products, id)
	delete(r.s.productIDByCode, p.Code)
	r.s.untrack(productsCollection, id)
	return nil
}

// AdjustStock aplica delta bajo el lock exclusivo del Store.
func (r *ProductRepo) AdjustStock(_ context.Context, code string, delta int) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	id, ok := r.s.productIDByCode[code]
	if !ok {
		return 0, domain.ErrNotFound
	}
	p := r.s.products[id]
	newStock := p.Stock() + delta
	if newStock < 0 {
		return 0, domain.ErrInsufficientStock
	}
	p.LoadStock(newStock)
	return newStock, nil
}
