package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/wareflow-api/internal/application/dto"
	"github.com/jhoicas/wareflow-api/internal/application/stock"
	"github.com/jhoicas/wareflow-api/internal/domain"
	"github.com/jhoicas/wareflow-api/internal/domain/entity"
	"github.com/jhoicas/wareflow-api/internal/domain/repository"
)

// SalesOrderUseCase coordinador de ventas: descuenta stock por línea al crear, aplica la diferencia
// neta al editar y repone todo al eliminar.
type SalesOrderUseCase struct {
	coordinator
	repo     repository.SalesOrderRepository
	renderer ReceiptRenderer
}

// NewSalesOrderUseCase construye el coordinador. renderer puede ser nil si no se generan comprobantes.
func NewSalesOrderUseCase(
	repo repository.SalesOrderRepository,
	adjuster StockAdjuster,
	movements MovementLogger,
	renderer ReceiptRenderer,
	log zerolog.Logger,
) *SalesOrderUseCase {
	return &SalesOrderUseCase{
		coordinator: newCoordinator(adjuster, movements, log),
		repo:        repo,
		renderer:    renderer,
	}
}

// Create registra una venta y descuenta el stock de cada línea, en orden.
// Si una línea falla, lo ya descontado se repone, la orden se elimina y el error envuelve
// domain.ErrRolledBack junto con la línea y la causa original.
func (uc *SalesOrderUseCase) Create(ctx context.Context, in dto.CreateSalesOrderRequest) (*dto.SalesOrderResponse, error) {
	lines, err := toSalesLines(in.Lines)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	order := &entity.SalesOrder{
		ID:        uuid.New().String(),
		Lines:     lines,
		SaleDate:  now,
		Source:    in.Source,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.SaleDate != nil {
		order.SaleDate = *in.SaleDate
	}
	if order.Source == "" {
		order.Source = entity.SalesSourceStore
	}
	order.Recompute()

	deltas := salesEffect(order.Lines)
	if err := uc.precheck(ctx, salesCodes(order.Lines), deltas); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, order); err != nil {
		return nil, err
	}
	undo := func(ctx context.Context) error { return uc.repo.Delete(ctx, order.ID, order.Version) }
	if err := uc.applyOrUndo(ctx, order.ID, salesCodes(order.Lines), deltas, undo); err != nil {
		return nil, err
	}
	uc.record(ctx, entity.MovementTypeOutbound, entity.MovementSourceSalesOrder, order.ID, "venta", deltas)
	uc.log.Info().Str("order_id", order.ID).Str("total", order.TotalAmount.String()).Msg("venta registrada")
	return toSalesOrderResponse(order), nil
}

// GetByID obtiene una venta por ID; (nil, nil) si no existe.
func (uc *SalesOrderUseCase) GetByID(ctx context.Context, id string) (*dto.SalesOrderResponse, error) {
	order, err := uc.repo.GetByID(ctx, id)
	if err != nil || order == nil {
		return nil, err
	}
	return toSalesOrderResponse(order), nil
}

// List lista ventas con paginación.
func (uc *SalesOrderUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.SalesOrderListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Repo())
	if err != nil {
		return nil, err
	}
	items := make([]dto.SalesOrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, *toSalesOrderResponse(o))
	}
	return &dto.SalesOrderListResponse{Items: items, Page: page.Meta()}, nil
}

// Update reemplaza líneas, fecha o canal. Solo se aplica la diferencia neta de cantidades por producto.
func (uc *SalesOrderUseCase) Update(ctx context.Context, id string, in dto.UpdateSalesOrderRequest) (*dto.SalesOrderResponse, error) {
	prev, err := uc.repo.GetByID(ctx, id)
	if err := findErr(prev, err); err != nil {
		return nil, err
	}
	next := *prev
	if in.Lines != nil {
		if next.Lines, err = toSalesLines(in.Lines); err != nil {
			return nil, err
		}
	}
	if in.SaleDate != nil {
		next.SaleDate = *in.SaleDate
	}
	if in.Source != nil {
		next.Source = *in.Source
	}
	next.Recompute()
	next.UpdatedAt = uc.now()

	deltas := stock.Diff(salesEffect(prev.Lines), salesEffect(next.Lines))
	if err := uc.precheck(ctx, salesCodes(next.Lines), deltas); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, &next); err != nil {
		return nil, err
	}
	restore := func(ctx context.Context) error {
		prev.Version = next.Version
		return uc.repo.Update(ctx, prev)
	}
	if err := uc.applyOrUndo(ctx, id, salesCodes(next.Lines), deltas, restore); err != nil {
		return nil, err
	}
	uc.record(ctx, entity.MovementTypeAdjustment, entity.MovementSourceSalesOrder, id, "venta modificada", deltas)
	return toSalesOrderResponse(&next), nil
}

// Delete repone el stock de todas las líneas y elimina la venta. Si la reposición falla la venta se conserva.
func (uc *SalesOrderUseCase) Delete(ctx context.Context, id string) error {
	order, err := uc.repo.GetByID(ctx, id)
	if err := findErr(order, err); err != nil {
		return err
	}
	applied := salesEffect(order.Lines)
	remove := func(ctx context.Context) error { return uc.repo.Delete(ctx, id, order.Version) }
	if err := uc.reverse(ctx, id, applied, remove); err != nil {
		return err
	}
	uc.record(ctx, entity.MovementTypeAdjustment, entity.MovementSourceSalesOrder, id, "venta eliminada", stock.Negate(applied))
	return nil
}

// ReceiptPDF genera el comprobante de la venta.
func (uc *SalesOrderUseCase) ReceiptPDF(ctx context.Context, id string) ([]byte, error) {
	if uc.renderer == nil {
		return nil, errors.New("generador de comprobantes no configurado")
	}
	order, err := uc.repo.GetByID(ctx, id)
	if err := findErr(order, err); err != nil {
		return nil, err
	}
	return uc.renderer.RenderSalesReceipt(order)
}

func toSalesLines(in []dto.SalesLineDTO) ([]entity.SalesLine, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("%w: la orden debe tener al menos una línea", domain.ErrInvalidInput)
	}
	lines := make([]entity.SalesLine, 0, len(in))
	for _, l := range in {
		if l.ProductCode == "" || l.Quantity <= 0 || l.Price.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		lines = append(lines, entity.SalesLine{ProductCode: l.ProductCode, Price: l.Price, Quantity: l.Quantity})
	}
	return lines, nil
}

// salesEffect una venta descuenta la cantidad de cada línea.
func salesEffect(lines []entity.SalesLine) []stock.Delta {
	deltas := make([]stock.Delta, len(lines))
	for i, l := range lines {
		deltas[i] = stock.Delta{ProductCode: l.ProductCode, Quantity: -l.Quantity}
	}
	return deltas
}

func salesCodes(lines []entity.SalesLine) []string {
	codes := make([]string, len(lines))
	for i, l := range lines {
		codes[i] = l.ProductCode
	}
	return codes
}

func toSalesOrderResponse(o *entity.SalesOrder) *dto.SalesOrderResponse {
	lines := make([]dto.SalesLineDTO, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, dto.SalesLineDTO{ProductCode: l.ProductCode, Price: l.Price, Quantity: l.Quantity})
	}
	return &dto.SalesOrderResponse{
		ID:          o.ID,
		Lines:       lines,
		TotalAmount: o.TotalAmount,
		SaleDate:    o.SaleDate,
		Source:      o.Source,
		Version:     o.Version,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}
