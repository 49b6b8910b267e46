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

// PurchaseOrderUseCase coordinador de compras. El stock aumenta una sola vez, en la transición
// hacia Arrived; el flag StockApplied persistido evita aplicarlo de nuevo al reenviar el estado.
type PurchaseOrderUseCase struct {
	coordinator
	repo repository.PurchaseOrderRepository
}

// NewPurchaseOrderUseCase construye el coordinador.
func NewPurchaseOrderUseCase(
	repo repository.PurchaseOrderRepository,
	adjuster StockAdjuster,
	movements MovementLogger,
	log zerolog.Logger,
) *PurchaseOrderUseCase {
	return &PurchaseOrderUseCase{coordinator: newCoordinator(adjuster, movements, log), repo: repo}
}

// Create registra una orden de compra. Solo si nace en Arrived (o con fecha de recepción) ingresa stock.
func (uc *PurchaseOrderUseCase) Create(ctx context.Context, in dto.CreatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	lines, err := toPurchaseLines(in.Lines)
	if err != nil {
		return nil, err
	}
	if in.Supplier == "" {
		return nil, fmt.Errorf("%w: proveedor requerido", domain.ErrInvalidInput)
	}
	status := entity.PurchaseStatusOrdered
	if in.Status != "" {
		status = entity.PurchaseStatus(in.Status)
	}
	if !status.Valid() {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	order := &entity.PurchaseOrder{
		ID:           uuid.New().String(),
		Lines:        lines,
		Supplier:     in.Supplier,
		Status:       status,
		OrderDate:    now,
		ReceivedDate: in.ReceivedDate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if in.OrderDate != nil {
		order.OrderDate = *in.OrderDate
	}
	order.Recompute(now)
	order.StockApplied = order.Status.AppliesStock()

	deltas := purchaseEffect(order)
	if err := uc.precheck(ctx, purchaseCodes(order.Lines), deltas); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, order); err != nil {
		return nil, err
	}
	undo := func(ctx context.Context) error { return uc.repo.Delete(ctx, order.ID, order.Version) }
	if err := uc.applyOrUndo(ctx, order.ID, purchaseCodes(order.Lines), deltas, undo); err != nil {
		return nil, err
	}
	uc.record(ctx, entity.MovementTypeInbound, entity.MovementSourcePurchaseOrder, order.ID, "orden de compra recibida", deltas)
	return toPurchaseOrderResponse(order), nil
}

// GetByID obtiene una orden de compra por ID; (nil, nil) si no existe.
func (uc *PurchaseOrderUseCase) GetByID(ctx context.Context, id string) (*dto.PurchaseOrderResponse, error) {
	order, err := uc.repo.GetByID(ctx, id)
	if err != nil || order == nil {
		return nil, err
	}
	return toPurchaseOrderResponse(order), nil
}

// List lista órdenes de compra, opcionalmente por estado.
func (uc *PurchaseOrderUseCase) List(ctx context.Context, in dto.PurchaseOrderListRequest) (*dto.PurchaseOrderListResponse, error) {
	in.DefaultPage()
	list, err := uc.repo.List(ctx, repository.PurchaseOrderFilter{
		Status: in.Status,
		Page:   in.Repo(),
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchaseOrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, *toPurchaseOrderResponse(o))
	}
	return &dto.PurchaseOrderListResponse{Items: items, Page: in.Meta()}, nil
}

// Update aplica cambios parciales. El estado sigue la tabla de transiciones de entity.PurchaseStatus;
// una fecha de recepción sobre una orden abierta la pasa a Arrived.
// Con el stock ya aplicado, los cambios de líneas ingresan o retiran solo la diferencia neta.
func (uc *PurchaseOrderUseCase) Update(ctx context.Context, id string, in dto.UpdatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	prev, err := uc.repo.GetByID(ctx, id)
	if err := findErr(prev, err); err != nil {
		return nil, err
	}
	next := *prev
	if in.Lines != nil {
		if next.Lines, err = toPurchaseLines(in.Lines); err != nil {
			return nil, err
		}
	}
	if in.Supplier != nil {
		next.Supplier = *in.Supplier
	}
	if in.OrderDate != nil {
		next.OrderDate = *in.OrderDate
	}
	if in.ReceivedDate != nil {
		next.ReceivedDate = in.ReceivedDate
	}
	if in.Status != nil {
		status := entity.PurchaseStatus(*in.Status)
		if !status.Valid() || !prev.Status.CanTransitionTo(status) {
			return nil, domain.ErrInvalidTransition
		}
		next.Status = status
	}
	now := uc.now()
	next.Recompute(now)
	if !prev.Status.CanTransitionTo(next.Status) {
		return nil, domain.ErrInvalidTransition
	}
	next.StockApplied = prev.StockApplied || next.Status.AppliesStock()
	next.UpdatedAt = now

	deltas := stock.Diff(purchaseEffect(prev), purchaseEffect(&next))
	if err := uc.precheck(ctx, purchaseCodes(next.Lines), deltas); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, &next); err != nil {
		return nil, err
	}
	restore := func(ctx context.Context) error {
		prev.Version = next.Version
		return uc.repo.Update(ctx, prev)
	}
	if err := uc.applyOrUndo(ctx, id, purchaseCodes(next.Lines), deltas, restore); err != nil {
		return nil, err
	}
	if !prev.StockApplied && next.StockApplied {
		uc.record(ctx, entity.MovementTypeInbound, entity.MovementSourcePurchaseOrder, id, "orden de compra recibida", deltas)
		uc.log.Info().Str("order_id", id).Msg("orden de compra recibida, stock ingresado")
	} else {
		uc.record(ctx, entity.MovementTypeAdjustment, entity.MovementSourcePurchaseOrder, id, "orden de compra modificada", deltas)
	}
	return toPurchaseOrderResponse(&next), nil
}

// Delete elimina la orden. Si su stock ya ingresó, primero lo retira; si no alcanza, la orden se conserva.
func (uc *PurchaseOrderUseCase) Delete(ctx context.Context, id string) error {
	order, err := uc.repo.GetByID(ctx, id)
	if err := findErr(order, err); err != nil {
		return err
	}
	applied := purchaseEffect(order)
	remove := func(ctx context.Context) error { return uc.repo.Delete(ctx, id, order.Version) }
	if err := uc.reverse(ctx, id, applied, remove); err != nil {
		return err
	}
	uc.record(ctx, entity.MovementTypeAdjustment, entity.MovementSourcePurchaseOrder, id, "orden de compra eliminada", stock.Negate(applied))
	return nil
}

func toPurchaseLines(in []dto.PurchaseLineDTO) ([]entity.PurchaseLine, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("%w: la orden debe tener al menos una línea", domain.ErrInvalidInput)
	}
	lines := make([]entity.PurchaseLine, 0, len(in))
	for _, l := range in {
		if l.ProductCode == "" || l.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		lines = append(lines, entity.PurchaseLine{ProductCode: l.ProductCode, Quantity: l.Quantity})
	}
	return lines, nil
}

// purchaseEffect efecto vigente: nada hasta que el ingreso se aplicó.
func purchaseEffect(o *entity.PurchaseOrder) []stock.Delta {
	if !o.StockApplied {
		return nil
	}
	deltas := make([]stock.Delta, len(o.Lines))
	for i, l := range o.Lines {
		deltas[i] = stock.Delta{ProductCode: l.ProductCode, Quantity: l.Quantity}
	}
	return deltas
}

func purchaseCodes(lines []entity.PurchaseLine) []string {
	codes := make([]string, len(lines))
	for i, l := range lines {
		codes[i] = l.ProductCode
	}
	return codes
}

func toPurchaseOrderResponse(o *entity.PurchaseOrder) *dto.PurchaseOrderResponse {
	lines := make([]dto.PurchaseLineDTO, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, dto.PurchaseLineDTO{ProductCode: l.ProductCode, Quantity: l.Quantity})
	}
	return &dto.PurchaseOrderResponse{
		ID:           o.ID,
		Lines:        lines,
		Supplier:     o.Supplier,
		Status:       string(o.Status),
		OrderDate:    o.OrderDate,
		ReceivedDate: o.ReceivedDate,
		StockApplied: o.StockApplied,
		Version:      o.Version,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}
