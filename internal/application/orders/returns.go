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

// ReturnUseCase coordinador de devoluciones: la mercancía vuelve al inventario al crear la devolución.
type ReturnUseCase struct {
	coordinator
	repo  repository.ReturnRepository
	sales repository.SalesOrderRepository
}

// NewReturnUseCase construye el coordinador.
func NewReturnUseCase(
	repo repository.ReturnRepository,
	sales repository.SalesOrderRepository,
	adjuster StockAdjuster,
	movements MovementLogger,
	log zerolog.Logger,
) *ReturnUseCase {
	return &ReturnUseCase{coordinator: newCoordinator(adjuster, movements, log), repo: repo, sales: sales}
}

// Create registra la devolución e incrementa el stock de cada línea.
// Si se indica SalesOrderID, la venta debe existir.
func (uc *ReturnUseCase) Create(ctx context.Context, in dto.CreateReturnRequest) (*dto.ReturnResponse, error) {
	lines, err := toReturnLines(in.Lines)
	if err != nil {
		return nil, err
	}
	status := entity.ReturnStatusPending
	if in.Status != "" {
		status = entity.ReturnStatus(in.Status)
	}
	if !status.Valid() {
		return nil, domain.ErrInvalidInput
	}
	if in.SalesOrderID != "" {
		sale, err := uc.sales.GetByID(ctx, in.SalesOrderID)
		if err := findErr(sale, err); err != nil {
			return nil, fmt.Errorf("venta %s: %w", in.SalesOrderID, err)
		}
	}
	now := uc.now()
	ret := &entity.Return{
		ID:           uuid.New().String(),
		SalesOrderID: in.SalesOrderID,
		Lines:        lines,
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	deltas := returnEffect(ret.Lines)
	if err := uc.precheck(ctx, returnCodes(ret.Lines), deltas); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, ret); err != nil {
		return nil, err
	}
	undo := func(ctx context.Context) error { return uc.repo.Delete(ctx, ret.ID, ret.Version) }
	if err := uc.applyOrUndo(ctx, ret.ID, returnCodes(ret.Lines), deltas, undo); err != nil {
		return nil, err
	}
	uc.record(ctx, entity.MovementTypeReturn, entity.MovementSourceReturn, ret.ID, "devolución", deltas)
	return toReturnResponse(ret), nil
}

// GetByID obtiene una devolución; (nil, nil) si no existe.
func (uc *ReturnUseCase) GetByID(ctx context.Context, id string) (*dto.ReturnResponse, error) {
	ret, err := uc.repo.GetByID(ctx, id)
	if err != nil || ret == nil {
		return nil, err
	}
	return toReturnResponse(ret), nil
}

// List lista devoluciones con paginación.
func (uc *ReturnUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.ReturnListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Repo())
	if err != nil {
		return nil, err
	}
	items := make([]dto.ReturnResponse, 0, len(list))
	for _, r := range list {
		items = append(items, *toReturnResponse(r))
	}
	return &dto.ReturnListResponse{Items: items, Page: page.Meta()}, nil
}

// Update cambia estado (Pending → Completed) o líneas; las líneas aplican la diferencia neta.
func (uc *ReturnUseCase) Update(ctx context.Context, id string, in dto.UpdateReturnRequest) (*dto.ReturnResponse, error) {
	prev, err := uc.repo.GetByID(ctx, id)
	if err := findErr(prev, err); err != nil {
		return nil, err
	}
	next := *prev
	if in.Lines != nil {
		if next.Lines, err = toReturnLines(in.Lines); err != nil {
			return nil, err
		}
	}
	if in.Status != nil {
		status := entity.ReturnStatus(*in.Status)
		if !status.Valid() || !prev.Status.CanTransitionTo(status) {
			return nil, domain.ErrInvalidTransition
		}
		next.Status = status
	}
	next.UpdatedAt = uc.now()

	deltas := stock.Diff(returnEffect(prev.Lines), returnEffect(next.Lines))
	if err := uc.precheck(ctx, returnCodes(next.Lines), deltas); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, &next); err != nil {
		return nil, err
	}
	restore := func(ctx context.Context) error {
		prev.Version = next.Version
		return uc.repo.Update(ctx, prev)
	}
	if err := uc.applyOrUndo(ctx, id, returnCodes(next.Lines), deltas, restore); err != nil {
		return nil, err
	}
	uc.record(ctx, entity.MovementTypeAdjustment, entity.MovementSourceReturn, id, "devolución modificada", deltas)
	return toReturnResponse(&next), nil
}

// Delete retira del inventario lo devuelto y elimina la devolución.
func (uc *ReturnUseCase) Delete(ctx context.Context, id string) error {
	ret, err := uc.repo.GetByID(ctx, id)
	if err := findErr(ret, err); err != nil {
		return err
	}
	applied := returnEffect(ret.Lines)
	remove := func(ctx context.Context) error { return uc.repo.Delete(ctx, id, ret.Version) }
	if err := uc.reverse(ctx, id, applied, remove); err != nil {
		return err
	}
	uc.record(ctx, entity.MovementTypeAdjustment, entity.MovementSourceReturn, id, "devolución eliminada", stock.Negate(applied))
	return nil
}

func toReturnLines(in []dto.ReturnLineDTO) ([]entity.ReturnLine, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("%w: la devolución debe tener al menos una línea", domain.ErrInvalidInput)
	}
	lines := make([]entity.ReturnLine, 0, len(in))
	for _, l := range in {
		if l.ProductCode == "" || l.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		lines = append(lines, entity.ReturnLine{ProductCode: l.ProductCode, Quantity: l.Quantity, Reason: l.Reason})
	}
	return lines, nil
}

func returnEffect(lines []entity.ReturnLine) []stock.Delta {
	deltas := make([]stock.Delta, len(lines))
	for i, l := range lines {
		deltas[i] = stock.Delta{ProductCode: l.ProductCode, Quantity: l.Quantity}
	}
	return deltas
}

func returnCodes(lines []entity.ReturnLine) []string {
	codes := make([]string, len(lines))
	for i, l := range lines {
		codes[i] = l.ProductCode
	}
	return codes
}

func toReturnResponse(r *entity.Return) *dto.ReturnResponse {
	lines := make([]dto.ReturnLineDTO, 0, len(r.Lines))
	for _, l := range r.Lines {
		lines = append(lines, dto.ReturnLineDTO{ProductCode: l.ProductCode, Quantity: l.Quantity, Reason: l.Reason})
	}
	return &dto.ReturnResponse{
		ID:           r.ID,
		SalesOrderID: r.SalesOrderID,
		Lines:        lines,
		Status:       string(r.Status),
		Version:      r.Version,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}
