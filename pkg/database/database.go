package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/roomstay/bookings/pkg/config"
)

func Connect(ctx context.Context, dbConfig config.DatabaseConfig) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dbConfig.URL)
	if err != nil {
		return nil, err
	}

	cfg.MinConns = dbConfig.MinConns
	cfg.MaxConns = dbConfig.MaxConns
	cfg.MaxConnLifetime = dbConfig.MaxLifetime
	cfg.HealthCheckPeriod = 30 * time.Second

	return pgxpool.NewWithConfig(ctx, cfg)
}
