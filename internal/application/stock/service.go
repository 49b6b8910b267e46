// Package stock es el único punto de mutación del stock de productos.
// Ningún otro componente escribe stock: coordinadores de órdenes y movimientos llaman a este servicio.
package stock

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/wareflow-api/internal/domain"
	"github.com/jhoicas/wareflow-api/internal/domain/repository"
)

// Delta cambio de stock con signo sobre un producto.
type Delta struct {
	ProductCode string
	Quantity    int
}

// BatchError fallo de ApplyAll: Index es la posición (0-based) del delta que falló.
// CompensationErr no es nil si alguna compensación del prefijo aplicado también falló.
type BatchError struct {
	Index           int
	ProductCode     string
	Err             error
	CompensationErr error
}

func (e *BatchError) Error() string {
	if e.CompensationErr != nil {
		return fmt.Sprintf("ajuste %d (producto %s): %v; compensación incompleta: %v", e.Index+1, e.ProductCode, e.Err, e.CompensationErr)
	}
	return fmt.Sprintf("ajuste %d (producto %s): %v", e.Index+1, e.ProductCode, e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }

// LineOf devuelve la línea (1-based) del documento que corresponde al delta fallido.
// Con un delta por línea coincide con Index; tras Diff los deltas se agrupan por producto
// y se busca la primera línea con ese código.
func LineOf(lineCodes []string, e *BatchError) int {
	if e.Index < len(lineCodes) && lineCodes[e.Index] == e.ProductCode {
		return e.Index + 1
	}
	if i := slices.Index(lineCodes, e.ProductCode); i >= 0 {
		return i + 1
	}
	return e.Index + 1
}

// Service aplica deltas de stock con la operación atómica condicional del repositorio.
type Service struct {
	products  repository.ProductRepository
	publisher EventPublisher
	log       zerolog.Logger
	now       func() time.Time
}

// NewService construye el servicio de stock. publisher puede ser nil (NopPublisher).
func NewService(products repository.ProductRepository, publisher EventPublisher, log zerolog.Logger) *Service {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &Service{products: products, publisher: publisher, log: log, now: time.Now}
}

// Adjust suma delta al stock del producto code y devuelve el nuevo stock.
// Falla con domain.ErrNotFound si el producto no existe y con domain.ErrInsufficientStock
// si el resultado sería negativo; en ambos casos el producto no se modifica.
func (s *Service) Adjust(ctx context.Context, code string, delta int) (int, error) {
	if code == "" || delta == 0 {
		return 0, domain.ErrInvalidInput
	}
	newStock, err := s.products.AdjustStock(ctx, code, delta)
	if err != nil {
		return 0, err
	}
	s.log.Debug().Str("product_code", code).Int("delta", delta).Int("stock", newStock).Msg("stock ajustado")

	event := StockEvent{ProductCode: code, Delta: delta, NewStock: newStock, At: s.now()}
	if err := s.publisher.PublishStockAdjusted(ctx, event); err != nil {
		s.log.Warn().Err(err).Str("product_code", code).Msg("no se pudo publicar evento de stock")
	}
	return newStock, nil
}

// Increase equivale a Adjust con delta positivo.
func (s *Service) Increase(ctx context.Context, code string, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, domain.ErrInvalidInput
	}
	return s.Adjust(ctx, code, quantity)
}

// Decrease equivale a Adjust con delta negativo. El faltante se reporta como "stock insuficiente para disminuir".
func (s *Service) Decrease(ctx context.Context, code string, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, domain.ErrInvalidInput
	}
	newStock, err := s.Adjust(ctx, code, -quantity)
	if errors.Is(err, domain.ErrInsufficientStock) {
		return 0, fmt.Errorf("%w para disminuir", err)
	}
	return newStock, err
}

// EnsureExist comprueba en un solo lote que todos los códigos existan.
// Devuelve *domain.LineError (ErrUnknownProduct) con la primera posición (1-based) sin producto.
func (s *Service) EnsureExist(ctx context.Context, codes []string) error {
	if len(codes) == 0 {
		return nil
	}
	found, err := s.products.ListByCodes(ctx, codes)
	if err != nil {
		return fmt.Errorf("consultando productos: %w", err)
	}
	known := make(map[string]bool, len(found))
	for _, p := range found {
		known[p.Code] = true
	}
	for i, code := range codes {
		if !known[code] {
			return &domain.LineError{Line: i + 1, ProductCode: code, Err: domain.ErrUnknownProduct}
		}
	}
	return nil
}

// CheckAvailability verifica, antes de aplicar nada, que cada producto tenga stock para la suma
// de sus deltas negativos. Devuelve un *domain.LineError con la primera línea que no alcanza.
func (s *Service) CheckAvailability(ctx context.Context, deltas []Delta) error {
	required := make(map[string]int)
	for i, d := range deltas {
		if d.Quantity >= 0 {
			continue
		}
		required[d.ProductCode] += -d.Quantity
		product, err := s.products.GetByCode(ctx, d.ProductCode)
		if err != nil {
			return err
		}
		if product == nil {
			return &domain.LineError{Line: i + 1, ProductCode: d.ProductCode, Err: domain.ErrUnknownProduct}
		}
		if product.Stock() < required[d.ProductCode] {
			return &domain.LineError{Line: i + 1, ProductCode: d.ProductCode, Err: domain.ErrInsufficientStock}
		}
	}
	return nil
}

// ApplyAll aplica los deltas en orden, uno por uno. Ante el primer fallo compensa en orden inverso
// los deltas ya aplicados y devuelve *BatchError. Los deltas con cantidad 0 se omiten.
func (s *Service) ApplyAll(ctx context.Context, deltas []Delta) error {
	applied := make([]Delta, 0, len(deltas))
	for i, d := range deltas {
		if d.Quantity == 0 {
			continue
		}
		if _, err := s.Adjust(ctx, d.ProductCode, d.Quantity); err != nil {
			return &BatchError{
				Index:           i,
				ProductCode:     d.ProductCode,
				Err:             err,
				CompensationErr: s.Compensate(ctx, applied),
			}
		}
		applied = append(applied, d)
	}
	return nil
}

// Compensate revierte deltas ya aplicados, en orden inverso. Intenta todos aunque alguno falle
// y devuelve los errores combinados.
func (s *Service) Compensate(ctx context.Context, applied []Delta) error {
	var errs []error
	for i := len(applied) - 1; i >= 0; i-- {
		d := applied[i]
		if _, err := s.Adjust(ctx, d.ProductCode, -d.Quantity); err != nil {
			s.log.Error().Err(err).Str("product_code", d.ProductCode).Int("delta", -d.Quantity).Msg("compensación de stock fallida")
			errs = append(errs, fmt.Errorf("producto %s: %w", d.ProductCode, err))
		}
	}
	return errors.Join(errs...)
}

// Negate invierte el signo de cada delta (efecto de reversión).
func Negate(deltas []Delta) []Delta {
	out := make([]Delta, len(deltas))
	for i, d := range deltas {
		out[i] = Delta{ProductCode: d.ProductCode, Quantity: -d.Quantity}
	}
	return out
}

// Diff calcula el efecto neto (next − prev) agregado por producto, en orden de primera aparición.
// Los productos cuyo efecto neto es cero no se incluyen.
func Diff(prev, next []Delta) []Delta {
	net := make(map[string]int)
	var order []string
	add := func(code string, q int) {
		if _, ok := net[code]; !ok {
			order = append(order, code)
		}
		net[code] += q
	}
	for _, d := range next {
		add(d.ProductCode, d.Quantity)
	}
	for _, d := range prev {
		add(d.ProductCode, -d.Quantity)
	}
	var out []Delta
	for _, code := range order {
		if net[code] != 0 {
			out = append(out, Delta{ProductCode: code, Quantity: net[code]})
		}
	}
	return out
}
