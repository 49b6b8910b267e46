package entity

import "time"

// ReturnStatus estado de una devolución.
type ReturnStatus string

const (
	ReturnStatusPending   ReturnStatus = "Pending"
	ReturnStatusCompleted ReturnStatus = "Completed"
)

// Valid indica si el estado es conocido.
func (s ReturnStatus) Valid() bool {
	return s == ReturnStatusPending || s == ReturnStatusCompleted
}

// CanTransitionTo Pending → Completed; Completed es terminal.
func (s ReturnStatus) CanTransitionTo(next ReturnStatus) bool {
	return s == next || (s == ReturnStatusPending && next == ReturnStatusCompleted)
}

// ReturnLine producto devuelto.
type ReturnLine struct {
	ProductCode string `json:"productCode"`
	Quantity    int    `json:"quantity"`
	Reason      string `json:"reason"`
}

// Return devolución de cliente: el stock aumenta al crearse (la mercancía vuelve físicamente).
type Return struct {
	ID           string
	SalesOrderID string // opcional
	Lines        []ReturnLine
	Status       ReturnStatus
	Version      int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
