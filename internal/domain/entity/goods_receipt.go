package entity

import "time"

// ReceiptStatus estado de una recepción de mercancía.
type ReceiptStatus string

const (
	ReceiptStatusPending   ReceiptStatus = "Pending"
	ReceiptStatusPartial   ReceiptStatus = "Partial"
	ReceiptStatusCompleted ReceiptStatus = "Completed"
)

var receiptTransitions = map[ReceiptStatus][]ReceiptStatus{
	ReceiptStatusPending: {ReceiptStatusPartial, ReceiptStatusCompleted},
	ReceiptStatusPartial: {ReceiptStatusCompleted},
}

// Valid indica si el estado es conocido.
func (s ReceiptStatus) Valid() bool {
	switch s {
	case ReceiptStatusPending, ReceiptStatusPartial, ReceiptStatusCompleted:
		return true
	}
	return false
}

// CanTransitionTo indica si la transición s → next está permitida. Reenviar el mismo estado es válido (no-op).
func (s ReceiptStatus) CanTransitionTo(next ReceiptStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range receiptTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// AppliesStock Partial y Completed ingresan las cantidades recibidas.
func (s ReceiptStatus) AppliesStock() bool {
	return s == ReceiptStatusPartial || s == ReceiptStatusCompleted
}

// ReceiptLine cantidad recibida de un producto.
type ReceiptLine struct {
	ProductCode      string `json:"productCode"`
	ReceivedQuantity int    `json:"receivedQuantity"`
	Discrepancies    string `json:"discrepancies,omitempty"`
}

// GoodsReceipt recepción de mercancía asociada a una orden de compra.
type GoodsReceipt struct {
	ID              string
	PurchaseOrderID string
	Lines           []ReceiptLine
	Status          ReceiptStatus
	ReceivedDate    time.Time
	Remarks         string
	StockApplied    bool
	Version         int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
