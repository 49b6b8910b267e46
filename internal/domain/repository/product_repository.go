package repository

import (
	"context"

	"github.com/jhoicas/wareflow-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID/GetByCode devuelven (nil, nil) cuando el producto no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	// ListByCodes devuelve los productos existentes entre codes (verificación de existencia por lote).
	ListByCodes(ctx context.Context, codes []string) ([]*entity.Product, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)
	// Update actualiza atributos descriptivos. No modifica Code ni Stock.
	Update(ctx context.Context, product *entity.Product) error
	// Delete devuelve domain.ErrNotFound si el producto no existe.
	Delete(ctx context.Context, id string) error
	// AdjustStock suma delta al stock de forma atómica solo si el resultado es >= 0.
	// Devuelve domain.ErrNotFound o domain.ErrInsufficientStock sin modificar el producto.
	AdjustStock(ctx context.Context, code string, delta int) (int, error)
}
