// Package orders contiene los coordinadores de órdenes (ventas, compras, devoluciones y recepciones).
//
// Ningún coordinador escribe stock directamente: calcula los deltas por línea y los aplica con el
// servicio de stock. Como el almacenamiento no ofrece transacciones entre documentos, cada operación
// sigue el mismo esquema: validar todo antes de mutar (productos existentes y stock suficiente),
// guardar el documento con compare-and-swap sobre su versión, aplicar los deltas uno por uno y,
// si alguno falla, compensar lo aplicado y deshacer el cambio del documento.
package orders

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/wareflow-api/internal/application/stock"
	"github.com/jhoicas/wareflow-api/internal/domain"
	"github.com/jhoicas/wareflow-api/internal/domain/entity"
)

// coordinator dependencias comunes a todos los coordinadores.
type coordinator struct {
	stock     StockAdjuster
	movements MovementLogger
	log       zerolog.Logger
	now       func() time.Time
}

func newCoordinator(adjuster StockAdjuster, movements MovementLogger, log zerolog.Logger) coordinator {
	return coordinator{stock: adjuster, movements: movements, log: log, now: time.Now}
}

// precheck valida existencia de todos los productos y disponibilidad de los deltas negativos.
func (c *coordinator) precheck(ctx context.Context, codes []string, deltas []stock.Delta) error {
	if err := c.stock.EnsureExist(ctx, codes); err != nil {
		return err
	}
	return c.stock.CheckAvailability(ctx, deltas)
}

// applyOrUndo aplica deltas; si falla ejecuta undo para deshacer el cambio del documento
// y devuelve un error envuelto en domain.ErrRolledBack con la línea que falló.
// lineCodes son los códigos de las líneas del documento resultante, en orden.
// ApplyAll ya compensó los deltas aplicados antes del fallo.
func (c *coordinator) applyOrUndo(ctx context.Context, docID string, lineCodes []string, deltas []stock.Delta, undo func(context.Context) error) error {
	err := c.stock.ApplyAll(ctx, deltas)
	if err == nil {
		return nil
	}
	var batchErr *stock.BatchError
	if errors.As(err, &batchErr) {
		if batchErr.CompensationErr != nil {
			c.log.Error().Err(batchErr.CompensationErr).Str("order_id", docID).Msg("stock inconsistente: compensación incompleta")
		}
		err = &domain.LineError{OrderID: docID, Line: stock.LineOf(lineCodes, batchErr), ProductCode: batchErr.ProductCode, Err: batchErr.Err}
	}
	if undoErr := undo(ctx); undoErr != nil {
		c.log.Error().Err(undoErr).Str("order_id", docID).Msg("no se pudo deshacer el documento")
	}
	return domain.RolledBack(err)
}

// reverse revierte el efecto aplicado de un documento antes de eliminarlo. Si la reversión falla
// el stock queda como estaba y el documento no se elimina.
func (c *coordinator) reverse(ctx context.Context, docID string, applied []stock.Delta, remove func(context.Context) error) error {
	negated := stock.Negate(applied)
	if err := c.stock.CheckAvailability(ctx, negated); err != nil {
		return err
	}
	if err := c.stock.ApplyAll(ctx, negated); err != nil {
		return err
	}
	if err := remove(ctx); err != nil {
		if compErr := c.stock.Compensate(ctx, negated); compErr != nil {
			c.log.Error().Err(compErr).Str("order_id", docID).Msg("stock inconsistente: no se pudo reaplicar el efecto")
		}
		return err
	}
	return nil
}

// record registra el movimiento de auditoría de un efecto ya aplicado. El fallo solo se reporta en el log.
func (c *coordinator) record(ctx context.Context, movementType, source, refID, remarks string, deltas []stock.Delta) {
	lines := make([]entity.MovementLine, 0, len(deltas))
	for _, d := range deltas {
		if d.Quantity == 0 {
			continue
		}
		q := d.Quantity
		if movementType != entity.MovementTypeAdjustment && q < 0 {
			q = -q
		}
		lines = append(lines, entity.MovementLine{ProductCode: d.ProductCode, Quantity: q})
	}
	if len(lines) == 0 {
		return
	}
	m := &entity.InventoryMovement{
		Lines:        lines,
		MovementType: movementType,
		Source:       source,
		ReferenceID:  refID,
		Remarks:      remarks,
	}
	if err := c.movements.Log(ctx, m); err != nil {
		c.log.Warn().Err(err).Str("source", source).Str("reference_id", refID).Msg("no se pudo registrar movimiento")
	}
}

// findErr normaliza el resultado (nil, nil) de GetByID a domain.ErrNotFound.
func findErr[T any](doc *T, err error) error {
	if err != nil {
		return err
	}
	if doc == nil {
		return domain.ErrNotFound
	}
	return nil
}
