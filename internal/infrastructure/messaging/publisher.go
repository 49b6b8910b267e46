// Package messaging publica eventos de inventario en RabbitMQ.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/streadway/amqp"

	"github.com/jhoicas/wareflow-api/internal/application/stock"
	"github.com/jhoicas/wareflow-api/pkg/config"
)

// RoutingKeyStockAdjusted clave de enrutamiento de los ajustes de stock.
const RoutingKeyStockAdjusted = "stock.adjusted"

var _ stock.EventPublisher = (*Publisher)(nil)

// channel es el subconjunto de *amqp.Channel que usa el publicador.
type channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher publica StockEvent en un exchange topic durable.
type Publisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       channel
	exchange string
	log      zerolog.Logger
}

// Dial abre la conexión, el canal y declara el exchange.
func Dial(cfg config.BrokerConfig, log zerolog.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("conectar a RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("abrir canal: %w", err)
	}
	if err := ch.ExchangeDeclare(cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declarar exchange %s: %w", cfg.Exchange, err)
	}
	log.Info().Str("exchange", cfg.Exchange).Msg("conectado a RabbitMQ")
	return &Publisher{conn: conn, ch: ch, exchange: cfg.Exchange, log: log}, nil
}

func newPublisher(ch channel, exchange string, log zerolog.Logger) *Publisher {
	return &Publisher{ch: ch, exchange: exchange, log: log}
}

// PublishStockAdjusted serializa el evento en JSON y lo publica como mensaje persistente.
func (p *Publisher) PublishStockAdjusted(ctx context.Context, event stock.StockEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("serializar evento: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.ch.Publish(p.exchange, RoutingKeyStockAdjusted, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.New().String(),
		Timestamp:    event.At,
		Headers: amqp.Table{
			"product_code": event.ProductCode,
		},
	})
	if err != nil {
		return fmt.Errorf("publicar %s: %w", RoutingKeyStockAdjusted, err)
	}
	p.log.Debug().Str("product_code", event.ProductCode).Int("delta", event.Delta).Msg("evento de stock publicado")
	return nil
}

// Close cierra canal y conexión.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var firstErr error
	if p.ch != nil {
		firstErr = p.ch.Close()
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
