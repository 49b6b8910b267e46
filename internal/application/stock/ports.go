package stock

import (
	"context"
	"time"
)

// StockEvent se publica tras cada ajuste de stock confirmado.
type StockEvent struct {
	ProductCode string    `json:"productCode"`
	Delta       int       `json:"delta"`
	NewStock    int       `json:"newStock"`
	At          time.Time `json:"at"`
}

// EventPublisher publica eventos de stock hacia sistemas externos (RabbitMQ en producción).
type EventPublisher interface {
	PublishStockAdjusted(ctx context.Context, event StockEvent) error
}

// NopPublisher descarta los eventos. Se usa cuando no hay broker configurado.
type NopPublisher struct{}

// PublishStockAdjusted no hace nada.
func (NopPublisher) PublishStockAdjusted(context.Context, StockEvent) error { return nil }
