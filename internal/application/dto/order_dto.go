package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Ventas ──────────────────────────────────────────────────────────────────

// SalesLineDTO línea de una venta.
type SalesLineDTO struct {
	ProductCode string          `json:"productCode" validate:"required"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity" validate:"gt=0,lte=1000000"`
}

// CreateSalesOrderRequest body para POST /api/sales-orders.
type CreateSalesOrderRequest struct {
	Lines    []SalesLineDTO `json:"lines" validate:"required,min=1,dive"`
	SaleDate *time.Time     `json:"saleDate"`
	Source   string         `json:"source" validate:"max=50"`
}

// UpdateSalesOrderRequest actualización parcial; si Lines viene, reemplaza todas las líneas.
type UpdateSalesOrderRequest struct {
	Lines    []SalesLineDTO `json:"lines" validate:"omitempty,min=1,dive"`
	SaleDate *time.Time     `json:"saleDate"`
	Source   *string        `json:"source" validate:"omitempty,max=50"`
}

// SalesOrderResponse salida de una orden de venta.
type SalesOrderResponse struct {
	ID          string          `json:"id"`
	Lines       []SalesLineDTO  `json:"lines"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	SaleDate    time.Time       `json:"saleDate"`
	Source      string          `json:"source"`
	Version     int             `json:"version"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// SalesOrderListResponse lista paginada de ventas.
type SalesOrderListResponse struct {
	Items []SalesOrderResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}

// ─── Compras ─────────────────────────────────────────────────────────────────

// PurchaseLineDTO línea de una orden de compra.
type PurchaseLineDTO struct {
	ProductCode string `json:"productCode" validate:"required"`
	Quantity    int    `json:"quantity" validate:"gt=0,lte=1000000"`
}

// CreatePurchaseOrderRequest body para POST /api/purchase-orders. Status por defecto Ordered.
type CreatePurchaseOrderRequest struct {
	Lines        []PurchaseLineDTO `json:"lines" validate:"required,min=1,dive"`
	Supplier     string            `json:"supplier" validate:"required,max=200"`
	Status       string            `json:"status" validate:"omitempty,oneof=Ordered Pending Arrived Cancelled"`
	OrderDate    *time.Time        `json:"orderDate"`
	ReceivedDate *time.Time        `json:"receivedDate"`
}

// UpdatePurchaseOrderRequest actualización parcial de una orden de compra.
type UpdatePurchaseOrderRequest struct {
	Lines        []PurchaseLineDTO `json:"lines" validate:"omitempty,min=1,dive"`
	Supplier     *string           `json:"supplier" validate:"omitempty,min=1,max=200"`
	Status       *string           `json:"status" validate:"omitempty,oneof=Ordered Pending Arrived Cancelled"`
	OrderDate    *time.Time        `json:"orderDate"`
	ReceivedDate *time.Time        `json:"receivedDate"`
}

// PurchaseOrderListRequest filtros de GET /api/purchase-orders.
type PurchaseOrderListRequest struct {
	Status string `query:"status" validate:"omitempty,oneof=Ordered Pending Arrived Cancelled"`
	PageRequest
}

// PurchaseOrderResponse salida de una orden de compra.
type PurchaseOrderResponse struct {
	ID           string            `json:"id"`
	Lines        []PurchaseLineDTO `json:"lines"`
	Supplier     string            `json:"supplier"`
	Status       string            `json:"status"`
	OrderDate    time.Time         `json:"orderDate"`
	ReceivedDate *time.Time        `json:"receivedDate,omitempty"`
	StockApplied bool              `json:"stockApplied"`
	Version      int               `json:"version"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

// PurchaseOrderListResponse lista paginada de órdenes de compra.
type PurchaseOrderListResponse struct {
	Items []PurchaseOrderResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}

// ─── Devoluciones ────────────────────────────────────────────────────────────

// ReturnLineDTO producto devuelto.
type ReturnLineDTO struct {
	ProductCode string `json:"productCode" validate:"required"`
	Quantity    int    `json:"quantity" validate:"gt=0,lte=1000000"`
	Reason      string `json:"reason" validate:"max=500"`
}

// CreateReturnRequest body para POST /api/returns.
type CreateReturnRequest struct {
	SalesOrderID string          `json:"salesOrderId"`
	Lines        []ReturnLineDTO `json:"lines" validate:"required,min=1,dive"`
	Status       string          `json:"status" validate:"omitempty,oneof=Pending Completed"`
}

// UpdateReturnRequest actualización parcial de una devolución.
type UpdateReturnRequest struct {
	Lines  []ReturnLineDTO `json:"lines" validate:"omitempty,min=1,dive"`
	Status *string         `json:"status" validate:"omitempty,oneof=Pending Completed"`
}

// ReturnResponse salida de una devolución.
type ReturnResponse struct {
	ID           string          `json:"id"`
	SalesOrderID string          `json:"salesOrderId,omitempty"`
	Lines        []ReturnLineDTO `json:"lines"`
	Status       string          `json:"status"`
	Version      int             `json:"version"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// ReturnListResponse lista paginada de devoluciones.
type ReturnListResponse struct {
	Items []ReturnResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}

// ─── Recepciones ─────────────────────────────────────────────────────────────

// ReceiptLineDTO cantidad recibida de un producto.
type ReceiptLineDTO struct {
	ProductCode      string `json:"productCode" validate:"required"`
	ReceivedQuantity int    `json:"receivedQuantity" validate:"min=0,max=1000000"`
	Discrepancies    string `json:"discrepancies,omitempty" validate:"max=500"`
}

// CreateGoodsReceiptRequest body para POST /api/goods-receipts. Status por defecto Pending.
type CreateGoodsReceiptRequest struct {
	PurchaseOrderID string           `json:"purchaseOrderId" validate:"required"`
	Lines           []ReceiptLineDTO `json:"lines" validate:"required,min=1,dive"`
	Status          string           `json:"status" validate:"omitempty,oneof=Pending Partial Completed"`
	ReceivedDate    *time.Time       `json:"receivedDate"`
	Remarks         string           `json:"remarks" validate:"max=500"`
}

// UpdateGoodsReceiptRequest actualización parcial de una recepción.
type UpdateGoodsReceiptRequest struct {
	Lines        []ReceiptLineDTO `json:"lines" validate:"omitempty,min=1,dive"`
	Status       *string          `json:"status" validate:"omitempty,oneof=Pending Partial Completed"`
	ReceivedDate *time.Time       `json:"receivedDate"`
	Remarks      *string          `json:"remarks" validate:"omitempty,max=500"`
}

// GoodsReceiptResponse salida de una recepción.
type GoodsReceiptResponse struct {
	ID              string           `json:"id"`
	PurchaseOrderID string           `json:"purchaseOrderId"`
	Lines           []ReceiptLineDTO `json:"lines"`
	Status          string           `json:"status"`
	ReceivedDate    time.Time        `json:"receivedDate"`
	Remarks         string           `json:"remarks,omitempty"`
	StockApplied    bool             `json:"stockApplied"`
	Version         int              `json:"version"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

// GoodsReceiptListResponse lista paginada de recepciones.
type GoodsReceiptListResponse struct {
	Items []GoodsReceiptResponse `json:"items"`
	Page  PageResponse           `json:"page"`
}
