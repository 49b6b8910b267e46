package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. Stock es el inventario inicial.
type CreateProductRequest struct {
	Code        string          `json:"code" validate:"required,max=100"`
	Article     string          `json:"article" validate:"required,max=200"`
	Size        string          `json:"size" validate:"max=50"`
	Color       string          `json:"color" validate:"max=50"`
	Description string          `json:"description" validate:"max=1000"`
	ProductNum  string          `json:"productNum" validate:"max=100"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock" validate:"min=0,max=1000000"`
	MinStock    *int            `json:"minStock" validate:"omitempty,min=0,max=1000000"`
}

// UpdateProductRequest actualización parcial (sin Code ni Stock).
type UpdateProductRequest struct {
	Article     *string          `json:"article" validate:"omitempty,min=1,max=200"`
	Size        *string          `json:"size" validate:"omitempty,max=50"`
	Color       *string          `json:"color" validate:"omitempty,max=50"`
	Description *string          `json:"description" validate:"omitempty,max=1000"`
	ProductNum  *string          `json:"productNum" validate:"omitempty,max=100"`
	Price       *decimal.Decimal `json:"price"`
	MinStock    *int             `json:"minStock" validate:"omitempty,min=0,max=1000000"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string          `json:"id"`
	Code        string          `json:"code"`
	Article     string          `json:"article"`
	Size        string          `json:"size"`
	Color       string          `json:"color"`
	Description string          `json:"description"`
	ProductNum  string          `json:"productNum"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	MinStock    int             `json:"minStock"`
	LowStock    bool            `json:"lowStock"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
