package entity

import "time"

// Tipos de movimiento de inventario.
const (
	MovementTypeInbound    = "inbound"    // entrada
	MovementTypeOutbound   = "outbound"   // salida
	MovementTypeReturn     = "return"     // devolución de cliente
	MovementTypeAdjustment = "adjustment" // ajuste con cantidades con signo
)

// Origen del movimiento: manual (API de movimientos) o generado por un coordinador de órdenes.
const (
	MovementSourceManual          = "manual"
	MovementSourceSalesOrder      = "sales_order"
	MovementSourcePurchaseOrder   = "purchase_order"
	MovementSourceReturn          = "return"
	MovementSourceGoodsReceipt    = "goods_receipt"
	MovementSourceStockAdjustment = "stock_adjustment"
)

// MovementStatus ciclo de vida del movimiento: placed → pending → completed | canceled.
type MovementStatus string

const (
	MovementStatusPlaced    MovementStatus = "placed"
	MovementStatusPending   MovementStatus = "pending"
	MovementStatusCompleted MovementStatus = "completed"
	MovementStatusCanceled  MovementStatus = "canceled"
)

var movementTransitions = map[MovementStatus][]MovementStatus{
	MovementStatusPlaced:  {MovementStatusPending, MovementStatusCompleted, MovementStatusCanceled},
	MovementStatusPending: {MovementStatusCompleted, MovementStatusCanceled},
}

// Valid indica si el estado pertenece al ciclo de vida.
func (s MovementStatus) Valid() bool {
	switch s {
	case MovementStatusPlaced, MovementStatusPending, MovementStatusCompleted, MovementStatusCanceled:
		return true
	}
	return false
}

// CanTransitionTo indica si la transición s → next está permitida. Reenviar el mismo estado es válido (no-op).
func (s MovementStatus) CanTransitionTo(next MovementStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range movementTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// MovementLine cantidad de un producto dentro de un movimiento.
// Quantity es positiva salvo en movimientos de tipo adjustment, donde lleva el signo del efecto.
type MovementLine struct {
	ProductCode string `json:"productCode"`
	Quantity    int    `json:"quantity"`
}

// InventoryMovement registro de un evento que afecta (o describe) existencias.
type InventoryMovement struct {
	ID           string
	Lines        []MovementLine
	MovementType string
	Status       MovementStatus
	Source       string // manual o el tipo de documento que lo generó
	ReferenceID  string // ID del documento origen (vacío en movimientos manuales)
	Date         time.Time
	Remarks      string
	Version      int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsManual indica si el movimiento fue creado por la API de movimientos y por tanto es dueño de su efecto en stock.
func (m *InventoryMovement) IsManual() bool { return m.Source == MovementSourceManual }

// StockSign devuelve el signo que el tipo de movimiento aplica sobre las cantidades de sus líneas.
func StockSign(movementType string) int {
	switch movementType {
	case MovementTypeOutbound:
		return -1
	default:
		return 1
	}
}

// ValidMovementType indica si el tipo es conocido.
func ValidMovementType(t string) bool {
	switch t {
	case MovementTypeInbound, MovementTypeOutbound, MovementTypeReturn, MovementTypeAdjustment:
		return true
	}
	return false
}
