package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/wareflow-api/internal/application/dto"
	"github.com/jhoicas/wareflow-api/internal/application/stock"
	"github.com/jhoicas/wareflow-api/internal/domain"
	"github.com/jhoicas/wareflow-api/internal/domain/entity"
	"github.com/jhoicas/wareflow-api/internal/domain/repository"
)

// MovementUseCase registro de movimientos de inventario.
//
// Los movimientos manuales (POST /api/inventory-movements) son dueños de su efecto en stock:
// se persisten con estado placed, luego se ajusta el stock y, si el ajuste falla, el movimiento
// se elimina y lo aplicado se compensa. Los movimientos que generan los coordinadores de órdenes
// se registran con Log, después de que el ajuste ya ocurrió, y nunca tocan stock.
type MovementUseCase struct {
	repo  repository.InventoryMovementRepository
	stock StockAdjuster
	log   zerolog.Logger
	now   func() time.Time
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(repo repository.InventoryMovementRepository, adjuster StockAdjuster, log zerolog.Logger) *MovementUseCase {
	return &MovementUseCase{repo: repo, stock: adjuster, log: log, now: time.Now}
}

// Record crea un movimiento manual y aplica su efecto en stock.
// Un código inexistente rechaza el movimiento completo (domain.ErrUnknownProduct) sin persistir nada.
func (uc *MovementUseCase) Record(ctx context.Context, in dto.CreateMovementRequest) (*dto.MovementResponse, error) {
	lines, err := toMovementLines(in.MovementType, in.Lines)
	if err != nil {
		return nil, err
	}
	if err := uc.stock.EnsureExist(ctx, lineCodes(lines)); err != nil {
		return nil, err
	}
	now := uc.now()
	m := &entity.InventoryMovement{
		ID:           uuid.New().String(),
		Lines:        lines,
		MovementType: in.MovementType,
		Status:       entity.MovementStatusPlaced,
		Source:       entity.MovementSourceManual,
		Date:         now,
		Remarks:      in.Remarks,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if in.Date != nil {
		m.Date = *in.Date
	}
	effect := movementEffect(m)
	if err := uc.stock.CheckAvailability(ctx, effect); err != nil {
		return nil, err
	}

	if err := uc.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	if err := uc.stock.ApplyAll(ctx, effect); err != nil {
		if delErr := uc.repo.Delete(ctx, m.ID); delErr != nil {
			uc.log.Error().Err(delErr).Str("movement_id", m.ID).Msg("no se pudo eliminar movimiento revertido")
		}
		return nil, domain.RolledBack(batchLineError(m.ID, lineCodes(m.Lines), err))
	}
	uc.log.Info().Str("movement_id", m.ID).Str("type", m.MovementType).Int("lines", len(lines)).Msg("movimiento registrado")
	return toMovementResponse(m), nil
}

// Log registra un movimiento de auditoría generado por un coordinador. No modifica stock.
// Completa ID, estado (completed), fecha y timestamps si vienen vacíos.
func (uc *MovementUseCase) Log(ctx context.Context, m *entity.InventoryMovement) error {
	if len(m.Lines) == 0 || !entity.ValidMovementType(m.MovementType) || m.Source == "" {
		return domain.ErrInvalidInput
	}
	now := uc.now()
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.Status == "" {
		m.Status = entity.MovementStatusCompleted
	}
	if m.Date.IsZero() {
		m.Date = now
	}
	m.CreatedAt, m.UpdatedAt = now, now
	return uc.repo.Create(ctx, m)
}

// GetByID obtiene un movimiento por ID; (nil, nil) si no existe.
func (uc *MovementUseCase) GetByID(ctx context.Context, id string) (*dto.MovementResponse, error) {
	m, err := uc.repo.GetByID(ctx, id)
	if err != nil || m == nil {
		return nil, err
	}
	return toMovementResponse(m), nil
}

// List lista movimientos con filtros opcionales.
func (uc *MovementUseCase) List(ctx context.Context, in dto.MovementListRequest) (*dto.MovementListResponse, error) {
	in.DefaultPage()
	list, err := uc.repo.List(ctx, repository.MovementFilter{
		MovementType: in.MovementType,
		Status:       in.Status,
		Source:       in.Source,
		ReferenceID:  in.ReferenceID,
		Limit:        in.Limit,
		Offset:       in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *toMovementResponse(m))
	}
	return &dto.MovementListResponse{Items: items, Page: in.Meta()}, nil
}

// Update modifica estado, líneas, fecha o notas.
//
// Reglas: el tipo no se puede cambiar; las líneas solo se editan en movimientos manuales no cancelados
// (se aplica la diferencia neta por producto) y nunca en la misma petición que lo cancela; la
// transición a canceled de un movimiento manual revierte su efecto una sola vez. Los movimientos de coordinadores solo cambian estado, fecha y notas.
func (uc *MovementUseCase) Update(ctx context.Context, id string, in dto.UpdateMovementRequest) (*dto.MovementResponse, error) {
	prev, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if prev == nil {
		return nil, domain.ErrNotFound
	}
	if in.MovementType != nil && *in.MovementType != prev.MovementType {
		return nil, fmt.Errorf("%w: el tipo de movimiento no se puede cambiar", domain.ErrInvalidInput)
	}

	next := *prev
	if in.Lines != nil {
		if !prev.IsManual() || prev.Status == entity.MovementStatusCanceled {
			return nil, fmt.Errorf("%w: las líneas de este movimiento no se pueden modificar", domain.ErrInvalidInput)
		}
		if in.Status != nil && entity.MovementStatus(*in.Status) == entity.MovementStatusCanceled {
			return nil, fmt.Errorf("%w: no se pueden cambiar las líneas al cancelar", domain.ErrInvalidInput)
		}
		if next.Lines, err = toMovementLines(prev.MovementType, in.Lines); err != nil {
			return nil, err
		}
		if err := uc.stock.EnsureExist(ctx, lineCodes(next.Lines)); err != nil {
			return nil, err
		}
	}
	if in.Status != nil {
		status := entity.MovementStatus(*in.Status)
		if !status.Valid() || !prev.Status.CanTransitionTo(status) {
			return nil, domain.ErrInvalidTransition
		}
		next.Status = status
	}
	if in.Date != nil {
		next.Date = *in.Date
	}
	if in.Remarks != nil {
		next.Remarks = *in.Remarks
	}
	next.UpdatedAt = uc.now()

	deltas := stock.Diff(effectiveDeltas(prev), effectiveDeltas(&next))
	if err := uc.stock.CheckAvailability(ctx, deltas); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, &next); err != nil {
		return nil, err
	}
	if err := uc.stock.ApplyAll(ctx, deltas); err != nil {
		prev.Version = next.Version
		if restoreErr := uc.repo.Update(ctx, prev); restoreErr != nil {
			uc.log.Error().Err(restoreErr).Str("movement_id", id).Msg("no se pudo restaurar movimiento")
		}
		return nil, domain.RolledBack(batchLineError(id, lineCodes(next.Lines), err))
	}
	return toMovementResponse(&next), nil
}

// Delete elimina un movimiento (solo administradores). Nunca modifica stock.
func (uc *MovementUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

// movementEffect deltas con signo que el movimiento aplica sobre el stock.
func movementEffect(m *entity.InventoryMovement) []stock.Delta {
	sign := entity.StockSign(m.MovementType)
	deltas := make([]stock.Delta, 0, len(m.Lines))
	for _, l := range m.Lines {
		deltas = append(deltas, stock.Delta{ProductCode: l.ProductCode, Quantity: sign * l.Quantity})
	}
	return deltas
}

// effectiveDeltas efecto vigente: solo los movimientos manuales no cancelados tienen efecto propio.
func effectiveDeltas(m *entity.InventoryMovement) []stock.Delta {
	if !m.IsManual() || m.Status == entity.MovementStatusCanceled {
		return nil
	}
	return movementEffect(m)
}

func toMovementLines(movementType string, in []dto.MovementLineDTO) ([]entity.MovementLine, error) {
	if !entity.ValidMovementType(movementType) || len(in) == 0 {
		return nil, domain.ErrInvalidInput
	}
	lines := make([]entity.MovementLine, 0, len(in))
	for _, l := range in {
		if l.ProductCode == "" || l.Quantity == 0 {
			return nil, domain.ErrInvalidInput
		}
		if l.Quantity < 0 && movementType != entity.MovementTypeAdjustment {
			return nil, fmt.Errorf("%w: la cantidad debe ser positiva", domain.ErrInvalidInput)
		}
		lines = append(lines, entity.MovementLine{ProductCode: l.ProductCode, Quantity: l.Quantity})
	}
	return lines, nil
}

func lineCodes(lines []entity.MovementLine) []string {
	codes := make([]string, len(lines))
	for i, l := range lines {
		codes[i] = l.ProductCode
	}
	return codes
}

// batchLineError traduce el fallo de ApplyAll a la línea del movimiento.
func batchLineError(docID string, codes []string, err error) error {
	var batchErr *stock.BatchError
	if errors.As(err, &batchErr) {
		return &domain.LineError{OrderID: docID, Line: stock.LineOf(codes, batchErr), ProductCode: batchErr.ProductCode, Err: batchErr.Err}
	}
	return err
}

func toMovementResponse(m *entity.InventoryMovement) *dto.MovementResponse {
	if m == nil {
		return nil
	}
	lines := make([]dto.MovementLineDTO, 0, len(m.Lines))
	for _, l := range m.Lines {
		lines = append(lines, dto.MovementLineDTO{ProductCode: l.ProductCode, Quantity: l.Quantity})
	}
	return &dto.MovementResponse{
		ID:           m.ID,
		Lines:        lines,
		MovementType: m.MovementType,
		Status:       string(m.Status),
		Source:       m.Source,
		ReferenceID:  m.ReferenceID,
		Date:         m.Date,
		Remarks:      m.Remarks,
		Version:      m.Version,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
