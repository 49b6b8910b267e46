package inventory

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jhoicas/wareflow-api/internal/application/dto"
	"github.com/jhoicas/wareflow-api/internal/domain/entity"
)

// StockUseCase ajustes directos de stock (POST /api/stock/*). Cada ajuste confirmado queda
// registrado como movimiento de auditoría con origen stock_adjustment.
type StockUseCase struct {
	stock     StockAdjuster
	movements *MovementUseCase
	log       zerolog.Logger
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(adjuster StockAdjuster, movements *MovementUseCase, log zerolog.Logger) *StockUseCase {
	return &StockUseCase{stock: adjuster, movements: movements, log: log}
}

// Increase suma quantity al stock del producto.
func (uc *StockUseCase) Increase(ctx context.Context, in dto.StockChangeRequest) (*dto.StockResponse, error) {
	newStock, err := uc.stock.Increase(ctx, in.ProductCode, in.Quantity)
	if err != nil {
		return nil, err
	}
	uc.audit(ctx, in.ProductCode, in.Quantity, in.Remarks)
	return &dto.StockResponse{ProductCode: in.ProductCode, NewStock: newStock}, nil
}

// Decrease resta quantity del stock del producto.
func (uc *StockUseCase) Decrease(ctx context.Context, in dto.StockChangeRequest) (*dto.StockResponse, error) {
	newStock, err := uc.stock.Decrease(ctx, in.ProductCode, in.Quantity)
	if err != nil {
		return nil, err
	}
	uc.audit(ctx, in.ProductCode, -in.Quantity, in.Remarks)
	return &dto.StockResponse{ProductCode: in.ProductCode, NewStock: newStock}, nil
}

// Adjust aplica un delta con signo.
func (uc *StockUseCase) Adjust(ctx context.Context, in dto.StockAdjustRequest) (*dto.StockResponse, error) {
	newStock, err := uc.stock.Adjust(ctx, in.ProductCode, in.Delta)
	if err != nil {
		return nil, err
	}
	uc.audit(ctx, in.ProductCode, in.Delta, in.Remarks)
	return &dto.StockResponse{ProductCode: in.ProductCode, NewStock: newStock}, nil
}

// audit: el ajuste ya está confirmado, un fallo al registrar el movimiento solo se reporta en el log.
func (uc *StockUseCase) audit(ctx context.Context, code string, delta int, remarks string) {
	m := &entity.InventoryMovement{
		Lines:        []entity.MovementLine{{ProductCode: code, Quantity: delta}},
		MovementType: entity.MovementTypeAdjustment,
		Source:       entity.MovementSourceStockAdjustment,
		Remarks:      remarks,
	}
	if err := uc.movements.Log(ctx, m); err != nil {
		uc.log.Warn().Err(err).Str("product_code", code).Msg("no se pudo registrar movimiento de ajuste")
	}
}
