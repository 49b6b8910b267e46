package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/wareflow-api/internal/application/dto"
	"github.com/jhoicas/wareflow-api/internal/application/stock"
	"github.com/jhoicas/wareflow-api/internal/domain"
	"github.com/jhoicas/wareflow-api/internal/domain/entity"
	"github.com/jhoicas/wareflow-api/internal/domain/repository"
)

// GoodsReceiptUseCase coordinador de recepciones de mercancía. Las cantidades recibidas ingresan al
// stock al entrar en Partial o Completed, una sola vez; es independiente del estado de la orden de compra.
type GoodsReceiptUseCase struct {
	coordinator
	repo      repository.GoodsReceiptRepository
	purchases repository.PurchaseOrderRepository
}

// NewGoodsReceiptUseCase construye el coordinador.
func NewGoodsReceiptUseCase(
	repo repository.GoodsReceiptRepository,
	purchases repository.PurchaseOrderRepository,
	adjuster StockAdjuster,
	movements MovementLogger,
	log zerolog.Logger,
) *GoodsReceiptUseCase {
	return &GoodsReceiptUseCase{coordinator: newCoordinator(adjuster, movements, log), repo: repo, purchases: purchases}
}

// Create registra la recepción. Si nace en Partial o Completed ingresa las cantidades recibidas;
// un producto inexistente rechaza la recepción completa.
func (uc *GoodsReceiptUseCase) Create(ctx context.Context, in dto.CreateGoodsReceiptRequest) (*dto.GoodsReceiptResponse, error) {
	lines, err := toReceiptLines(in.Lines)
	if err != nil {
		return nil, err
	}
	if in.PurchaseOrderID == "" {
		return nil, fmt.Errorf("%w: orden de compra requerida", domain.ErrInvalidInput)
	}
	status := entity.ReceiptStatusPending
	if in.Status != "" {
		status = entity.ReceiptStatus(in.Status)
	}
	if !status.Valid() {
		return nil, domain.ErrInvalidInput
	}
	po, err := uc.purchases.GetByID(ctx, in.PurchaseOrderID)
	if err := findErr(po, err); err != nil {
		return nil, fmt.Errorf("orden de compra %s: %w", in.PurchaseOrderID, err)
	}
	now := uc.now()
	receipt := &entity.GoodsReceipt{
		ID:              uuid.New().String(),
		PurchaseOrderID: in.PurchaseOrderID,
		Lines:           lines,
		Status:          status,
		ReceivedDate:    now,
		Remarks:         in.Remarks,
		StockApplied:    status.AppliesStock(),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if in.ReceivedDate != nil {
		receipt.ReceivedDate = *in.ReceivedDate
	}

	deltas := receiptEffect(receipt)
	if err := uc.precheck(ctx, receiptCodes(receipt.Lines), deltas); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, receipt); err != nil {
		return nil, err
	}
	undo := func(ctx context.Context) error { return uc.repo.Delete(ctx, receipt.ID, receipt.Version) }
	if err := uc.applyOrUndo(ctx, receipt.ID, receiptCodes(receipt.Lines), deltas, undo); err != nil {
		return nil, err
	}
	uc.record(ctx, entity.MovementTypeInbound, entity.MovementSourceGoodsReceipt, receipt.ID, "recepción de mercancía", deltas)
	return toGoodsReceiptResponse(receipt), nil
}

// GetByID obtiene una recepción; (nil, nil) si no existe.
func (uc *GoodsReceiptUseCase) GetByID(ctx context.Context, id string) (*dto.GoodsReceiptResponse, error) {
	receipt, err := uc.repo.GetByID(ctx, id)
	if err != nil || receipt == nil {
		return nil, err
	}
	return toGoodsReceiptResponse(receipt), nil
}

// List lista recepciones con paginación.
func (uc *GoodsReceiptUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.GoodsReceiptListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Repo())
	if err != nil {
		return nil, err
	}
	items := make([]dto.GoodsReceiptResponse, 0, len(list))
	for _, r := range list {
		items = append(items, *toGoodsReceiptResponse(r))
	}
	return &dto.GoodsReceiptListResponse{Items: items, Page: page.Meta()}, nil
}

// Update cambia estado, líneas, fecha o notas. El ingreso se aplica en la primera transición a
// Partial/Completed; después, los cambios de cantidades recibidas aplican solo la diferencia neta.
func (uc *GoodsReceiptUseCase) Update(ctx context.Context, id string, in dto.UpdateGoodsReceiptRequest) (*dto.GoodsReceiptResponse, error) {
	prev, err := uc.repo.GetByID(ctx, id)
	if err := findErr(prev, err); err != nil {
		return nil, err
	}
	next := *prev
	if in.Lines != nil {
		if next.Lines, err = toReceiptLines(in.Lines); err != nil {
			return nil, err
		}
	}
	if in.Status != nil {
		status := entity.ReceiptStatus(*in.Status)
		if !status.Valid() || !prev.Status.CanTransitionTo(status) {
			return nil, domain.ErrInvalidTransition
		}
		next.Status = status
	}
	if in.ReceivedDate != nil {
		next.ReceivedDate = *in.ReceivedDate
	}
	if in.Remarks != nil {
		next.Remarks = *in.Remarks
	}
	next.StockApplied = prev.StockApplied || next.Status.AppliesStock()
	next.UpdatedAt = uc.now()

	deltas := stock.Diff(receiptEffect(prev), receiptEffect(&next))
	if err := uc.precheck(ctx, receiptCodes(next.Lines), deltas); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, &next); err != nil {
		return nil, err
	}
	restore := func(ctx context.Context) error {
		prev.Version = next.Version
		return uc.repo.Update(ctx, prev)
	}
	if err := uc.applyOrUndo(ctx, id, receiptCodes(next.Lines), deltas, restore); err != nil {
		return nil, err
	}
	if !prev.StockApplied && next.StockApplied {
		uc.record(ctx, entity.MovementTypeInbound, entity.MovementSourceGoodsReceipt, id, "recepción de mercancía", deltas)
	} else {
		uc.record(ctx, entity.MovementTypeAdjustment, entity.MovementSourceGoodsReceipt, id, "recepción modificada", deltas)
	}
	return toGoodsReceiptResponse(&next), nil
}

// Delete retira lo ingresado (si se aplicó) y elimina la recepción.
func (uc *GoodsReceiptUseCase) Delete(ctx context.Context, id string) error {
	receipt, err := uc.repo.GetByID(ctx, id)
	if err := findErr(receipt, err); err != nil {
		return err
	}
	applied := receiptEffect(receipt)
	remove := func(ctx context.Context) error { return uc.repo.Delete(ctx, id, receipt.Version) }
	if err := uc.reverse(ctx, id, applied, remove); err != nil {
		return err
	}
	uc.record(ctx, entity.MovementTypeAdjustment, entity.MovementSourceGoodsReceipt, id, "recepción eliminada", stock.Negate(applied))
	return nil
}

func toReceiptLines(in []dto.ReceiptLineDTO) ([]entity.ReceiptLine, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("%w: la recepción debe tener al menos una línea", domain.ErrInvalidInput)
	}
	lines := make([]entity.ReceiptLine, 0, len(in))
	for _, l := range in {
		if l.ProductCode == "" || l.ReceivedQuantity < 0 {
			return nil, domain.ErrInvalidInput
		}
		lines = append(lines, entity.ReceiptLine{
			ProductCode:      l.ProductCode,
			ReceivedQuantity: l.ReceivedQuantity,
			Discrepancies:    l.Discrepancies,
		})
	}
	return lines, nil
}

// receiptEffect efecto vigente: cantidades recibidas, solo si el ingreso ya se aplicó.
func receiptEffect(r *entity.GoodsReceipt) []stock.Delta {
	if !r.StockApplied {
		return nil
	}
	deltas := make([]stock.Delta, len(r.Lines))
	for i, l := range r.Lines {
		deltas[i] = stock.Delta{ProductCode: l.ProductCode, Quantity: l.ReceivedQuantity}
	}
	return deltas
}

func receiptCodes(lines []entity.ReceiptLine) []string {
	codes := make([]string, len(lines))
	for i, l := range lines {
		codes[i] = l.ProductCode
	}
	return codes
}

func toGoodsReceiptResponse(r *entity.GoodsReceipt) *dto.GoodsReceiptResponse {
	lines := make([]dto.ReceiptLineDTO, 0, len(r.Lines))
	for _, l := range r.Lines {
		lines = append(lines, dto.ReceiptLineDTO{
			ProductCode:      l.ProductCode,
			ReceivedQuantity: l.ReceivedQuantity,
			Discrepancies:    l.Discrepancies,
		})
	}
	return &dto.GoodsReceiptResponse{
		ID:              r.ID,
		PurchaseOrderID: r.PurchaseOrderID,
		Lines:           lines,
		Status:          string(r.Status),
		ReceivedDate:    r.ReceivedDate,
		Remarks:         r.Remarks,
		StockApplied:    r.StockApplied,
		Version:         r.Version,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}
