package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrUnknownProduct     = errors.New("uno o más productos no existen")
	ErrRolledBack         = errors.New("la orden fue revertida")

	// ErrInvalidTransition es un caso de ErrInvalidInput: errors.Is(ErrInvalidTransition, ErrInvalidInput) == true.
	ErrInvalidTransition = fmt.Errorf("%w: transición de estado no permitida", ErrInvalidInput)
)

// LineError identifica la línea de una orden que provocó el fallo y conserva el error original.
type LineError struct {
	OrderID     string
	Line        int // 1-based
	ProductCode string
	Err         error
}

func (e *LineError) Error() string {
	if e.OrderID == "" {
		return fmt.Sprintf("línea %d (producto %s): %v", e.Line, e.ProductCode, e.Err)
	}
	return fmt.Sprintf("orden %s, línea %d (producto %s): %v", e.OrderID, e.Line, e.ProductCode, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// RolledBack envuelve err indicando que la operación sobre la orden se revirtió por completo.
func RolledBack(err error) error {
	return fmt.Errorf("%w: %w", ErrRolledBack, err)
}
