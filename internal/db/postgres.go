package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/amirphl/simple-indicators/internal/dataset"
	"github.com/amirphl/simple-indicators/internal/db/conf"
	_ "github.com/lib/pq"
)

// Transaction context key
type txKey struct{}

// WithTransaction adds a transaction to the context
func WithTransaction(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// GetTransaction retrieves a transaction from context, or returns nil if not present
func GetTransaction(ctx context.Context) *sql.Tx {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return nil
}

// executeWithTransaction executes a function with proper transaction management.
// If a transaction exists in context, it uses that. Otherwise, it creates a new one.
func (p *Default) executeWithTransaction(ctx context.Context, fn func(*sql.Tx) error) error {
	if tx := GetTransaction(ctx); tx != nil {
		return fn(tx)
	}

	tx, err := p.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if fnErr := fn(tx); fnErr != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction rollback failed: %w (original error: %v)", rbErr, fnErr)
		}
		return fnErr
	}

	if commitErr := tx.Commit(); commitErr != nil {
		return fmt.Errorf("transaction commit failed: %w", commitErr)
	}

	return nil
}

// queryWithTransaction executes a query using transaction from context if available
func (p *Default) queryWithTransaction(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	if tx := GetTransaction(ctx); tx != nil {
		return tx.QueryContext(ctx, query, args...)
	}
	return p.db.QueryContext(ctx, query, args...)
}

type Default struct {
	db *sql.DB
}

func New(c conf.Config) (*Default, error) {
	return &Default{db: c.DB}, nil
}

func (p *Default) GetDB() *sql.DB {
	return p.db
}

// SaveRows upserts cleaned price rows. A re-scrape of an existing
// (symbol, datetime) pair overwrites the stored prices, mirroring the
// keep-latest-scrape policy of the cleaner.
func (p *Default) SaveRows(ctx context.Context, rows []dataset.Row) error {
	if len(rows) == 0 {
		return nil
	}

	for i := range rows {
		if err := rows[i].Validate(); err != nil {
			return fmt.Errorf("invalid row at index %d for %s at %s: %w", i, rows[i].Symbol, rows[i].DateTime, err)
		}
	}

	return p.executeWithTransaction(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO prices (symbol, datetime, open, high, low, close, raw_close, volume, request_time)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (symbol, datetime) DO UPDATE SET
				open=EXCLUDED.open, high=EXCLUDED.high, low=EXCLUDED.low,
				close=EXCLUDED.close, raw_close=EXCLUDED.raw_close,
				volume=EXCLUDED.volume, request_time=EXCLUDED.request_time
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare insert statement: %w", err)
		}
		defer stmt.Close()

		for i, r := range rows {
			if _, err := stmt.ExecContext(ctx,
				r.Symbol, r.DateTime, r.Open, r.High, r.Low, r.Close, r.RawClose, r.Volume, r.RequestTime); err != nil {
				return fmt.Errorf("failed to save row at index %d (%s at %s): %w", i, r.Symbol, r.DateTime, err)
			}
		}
		return nil
	})
}

// GetRows returns cleaned rows for a symbol within [start, end], ascending.
func (p *Default) GetRows(ctx context.Context, symbol string, start, end time.Time) ([]dataset.Row, error) {
	rows, err := p.queryWithTransaction(ctx, `
		SELECT symbol, datetime, open, high, low, close, raw_close, volume, request_time
		FROM prices
		WHERE symbol=$1 AND datetime >= $2 AND datetime <= $3
		ORDER BY datetime ASC`, symbol, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query rows for %s: %w", symbol, err)
	}
	defer rows.Close()

	return scanRows(rows)
}

// GetLatestRow returns the most recent row for a symbol, or nil when none exist.
func (p *Default) GetLatestRow(ctx context.Context, symbol string) (*dataset.Row, error) {
	rows, err := p.queryWithTransaction(ctx, `
		SELECT symbol, datetime, open, high, low, close, raw_close, volume, request_time
		FROM prices
		WHERE symbol=$1
		ORDER BY datetime DESC
		LIMIT 1`, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest row for %s: %w", symbol, err)
	}
	defer rows.Close()

	out, err := scanRows(rows)
	if err != nil || len(out) == 0 {
		return nil, err
	}
	return &out[0], nil
}

// DeleteRows removes rows for a symbol older than the given time.
func (p *Default) DeleteRows(ctx context.Context, symbol string, before time.Time) error {
	return p.executeWithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM prices WHERE symbol=$1 AND datetime < $2`, symbol, before); err != nil {
			return fmt.Errorf("failed to delete rows for %s: %w", symbol, err)
		}
		return nil
	})
}

func scanRows(rows *sql.Rows) ([]dataset.Row, error) {
	var out []dataset.Row
	for rows.Next() {
		var r dataset.Row
		if err := rows.Scan(&r.Symbol, &r.DateTime, &r.Open, &r.High, &r.Low,
			&r.Close, &r.RawClose, &r.Volume, &r.RequestTime); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}
	return out, nil
}
