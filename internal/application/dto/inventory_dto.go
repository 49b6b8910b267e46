package dto

import "time"

// MovementLineDTO línea de un movimiento. En tipo adjustment la cantidad lleva signo.
type MovementLineDTO struct {
	ProductCode string `json:"productCode" validate:"required"`
	Quantity    int    `json:"quantity" validate:"ne=0,min=-1000000,max=1000000"`
}

// CreateMovementRequest body para POST /api/inventory-movements.
type CreateMovementRequest struct {
	Lines        []MovementLineDTO `json:"lines" validate:"required,min=1,dive"`
	MovementType string            `json:"movementType" validate:"required,oneof=inbound outbound return adjustment"`
	Date         *time.Time        `json:"date"`
	Remarks      string            `json:"remarks" validate:"max=500"`
}

// UpdateMovementRequest actualización parcial de un movimiento.
type UpdateMovementRequest struct {
	Lines        []MovementLineDTO `json:"lines" validate:"omitempty,min=1,dive"`
	MovementType *string           `json:"movementType" validate:"omitempty,oneof=inbound outbound return adjustment"`
	Status       *string           `json:"status" validate:"omitempty,oneof=placed pending completed canceled"`
	Date         *time.Time        `json:"date"`
	Remarks      *string           `json:"remarks" validate:"omitempty,max=500"`
}

// MovementListRequest filtros de GET /api/inventory-movements.
type MovementListRequest struct {
	MovementType string `query:"movementType" validate:"omitempty,oneof=inbound outbound return adjustment"`
	Status       string `query:"status" validate:"omitempty,oneof=placed pending completed canceled"`
	Source       string `query:"source"`
	ReferenceID  string `query:"referenceId"`
	PageRequest
}

// MovementResponse salida de un movimiento.
type MovementResponse struct {
	ID           string            `json:"id"`
	Lines        []MovementLineDTO `json:"lines"`
	MovementType string            `json:"movementType"`
	Status       string            `json:"status"`
	Source       string            `json:"source"`
	ReferenceID  string            `json:"referenceId,omitempty"`
	Date         time.Time         `json:"date"`
	Remarks      string            `json:"remarks,omitempty"`
	Version      int               `json:"version"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// StockChangeRequest body de POST /api/stock/increase y /api/stock/decrease.
type StockChangeRequest struct {
	ProductCode string `json:"productCode" validate:"required"`
	Quantity    int    `json:"quantity" validate:"gt=0,lte=1000000"`
	Remarks     string `json:"remarks" validate:"max=500"`
}

// StockAdjustRequest body de POST /api/stock/adjust (delta con signo).
type StockAdjustRequest struct {
	ProductCode string `json:"productCode" validate:"required"`
	Delta       int    `json:"delta" validate:"ne=0,min=-1000000,max=1000000"`
	Remarks     string `json:"remarks" validate:"max=500"`
}

// StockResponse resultado de un ajuste de stock.
type StockResponse struct {
	ProductCode string `json:"productCode"`
	NewStock    int    `json:"newStock"`
}
