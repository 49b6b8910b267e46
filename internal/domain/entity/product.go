package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultMinStock umbral de stock mínimo cuando no se indica uno.
const DefaultMinStock = 3

// Product representa un artículo del inventario identificado por su código externo (código de barras / SKU).
// El stock no es accesible para escritura: solo el servicio de stock lo modifica a través del repositorio.
type Product struct {
	ID          string
	Code        string // código único e inmutable; las líneas de órdenes y movimientos lo referencian
	Article     string
	Size        string
	Color       string
	Description string
	ProductNum  string
	Price       decimal.Decimal
	MinStock    int
	CreatedAt   time.Time
	UpdatedAt   time.Time

	stock int
}

// NewProduct construye un producto con stock inicial (>= 0, validado por el caso de uso).
func NewProduct(id, code string, initialStock int, now time.Time) *Product {
	return &Product{
		ID:        id,
		Code:      code,
		MinStock:  DefaultMinStock,
		CreatedAt: now,
		UpdatedAt: now,
		stock:     initialStock,
	}
}

// Stock devuelve la existencia actual leída del almacenamiento.
func (p *Product) Stock() int { return p.stock }

// LoadStock hidrata el stock leído desde persistencia. Uso exclusivo de los adaptadores de repositorio.
func (p *Product) LoadStock(stock int) { p.stock = stock }

// BelowMinStock indica si la existencia está por debajo del mínimo configurado.
func (p *Product) BelowMinStock() bool { return p.stock < p.MinStock }
