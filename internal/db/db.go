// Package db
package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/amirphl/simple-indicators/internal/dataset"
)

// Storage is the interface for persistent price-row storage.
type Storage interface {
	GetDB() *sql.DB
	SaveRows(ctx context.Context, rows []dataset.Row) error
	GetRows(ctx context.Context, symbol string, start, end time.Time) ([]dataset.Row, error)
	GetLatestRow(ctx context.Context, symbol string) (*dataset.Row, error)
	DeleteRows(ctx context.Context, symbol string, before time.Time) error
}
