package entity

import "time"

// PurchaseStatus estado de una orden de compra.
type PurchaseStatus string

const (
	PurchaseStatusOrdered   PurchaseStatus = "Ordered"
	PurchaseStatusPending   PurchaseStatus = "Pending"
	PurchaseStatusArrived   PurchaseStatus = "Arrived"
	PurchaseStatusCancelled PurchaseStatus = "Cancelled"
)

// Arrived y Cancelled son terminales.
var purchaseTransitions = map[PurchaseStatus][]PurchaseStatus{
	PurchaseStatusOrdered: {PurchaseStatusPending, PurchaseStatusArrived, PurchaseStatusCancelled},
	PurchaseStatusPending: {PurchaseStatusOrdered, PurchaseStatusArrived, PurchaseStatusCancelled},
}

// Valid indica si el estado es conocido.
func (s PurchaseStatus) Valid() bool {
	switch s {
	case PurchaseStatusOrdered, PurchaseStatusPending, PurchaseStatusArrived, PurchaseStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo indica si la transición s → next está permitida. Reenviar el mismo estado es válido (no-op).
func (s PurchaseStatus) CanTransitionTo(next PurchaseStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range purchaseTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// AppliesStock indica si el estado implica que la mercancía ya ingresó al inventario.
func (s PurchaseStatus) AppliesStock() bool { return s == PurchaseStatusArrived }

// PurchaseLine línea de una orden de compra.
type PurchaseLine struct {
	ProductCode string `json:"productCode"`
	Quantity    int    `json:"quantity"`
}

// PurchaseOrder orden de compra a proveedor. El stock aumenta una sola vez al pasar a Arrived.
type PurchaseOrder struct {
	ID           string
	Lines        []PurchaseLine
	Supplier     string
	Status       PurchaseStatus
	OrderDate    time.Time
	ReceivedDate *time.Time
	StockApplied bool // true cuando el ingreso de Arrived ya se aplicó al stock
	Version      int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Recompute deriva el estado a partir de la fecha de recepción:
// una fecha de recepción sobre una orden no terminal la marca como Arrived,
// y entrar en Arrived sin fecha la fija en now.
func (o *PurchaseOrder) Recompute(now time.Time) {
	if o.ReceivedDate != nil && (o.Status == PurchaseStatusOrdered || o.Status == PurchaseStatusPending) {
		o.Status = PurchaseStatusArrived
	}
	if o.Status == PurchaseStatusArrived && o.ReceivedDate == nil {
		t := now
		o.ReceivedDate = &t
	}
}
