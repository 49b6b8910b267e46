package postgres

import (
	"context"
	"fmt"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/wareflow-api/pkg/config"
)

const (
	minPoolConns = 2
	pingTimeout  = 5 * time.Second
)

// NewPool abre el pool de PostgreSQL (DATABASE_URL o DB_HOST, DB_PORT, ...) y comprueba la conexión.
// Cada conexión registra el codec NUMERIC <-> decimal.Decimal que usan precios y totales.
func NewPool(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}
	applyPoolLimits(poolConfig, cfg.MaxConns)

	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}
	return pool, nil
}

// applyPoolLimits fija tamaño y reciclado de conexiones. Los ajustes de stock son sentencias
// cortas, así que MaxConns rara vez necesita ser alto.
func applyPoolLimits(pc *pgxpool.Config, maxConns int) {
	pc.MaxConns = int32(max(maxConns, minPoolConns))
	pc.MinConns = minPoolConns
	pc.MaxConnLifetime = time.Hour
	pc.MaxConnIdleTime = 30 * time.Minute
	pc.HealthCheckPeriod = time.Minute
}
