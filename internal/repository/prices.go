package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/petrolens/petrolens/internal/models"
)

// DatabasePool defines the interface for database pool operations.
// This interface allows for both real pool and mock pool implementations.
type DatabasePool interface {
	// QueryRow executes a query that is expected to return at most one row.
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	// Exec executes a query without returning any rows.
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	// Query executes a query that returns rows.
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

// PriceRepository persists and loads the daily price series and the event
// catalog. Prices are stored as NUMERIC and travel through decimal.Decimal to
// avoid float formatting drift in the database.
type PriceRepository struct {
	pool DatabasePool
}

// NewPriceRepository creates a new price repository.
func NewPriceRepository(pool DatabasePool) *PriceRepository {
	return &PriceRepository{pool: pool}
}

// SaveSeries inserts observations, skipping dates already present.
func (r *PriceRepository) SaveSeries(ctx context.Context, series models.Series) error {
	for _, obs := range series {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO price_observations (observed_at, price)
			 VALUES ($1, $2)
			 ON CONFLICT (observed_at) DO NOTHING`,
			obs.Date, decimal.NewFromFloat(obs.Price))
		if err != nil {
			return fmt.Errorf("failed to insert observation for %s: %w",
				obs.Date.Format("2006-01-02"), err)
		}
	}
	return nil
}

// LoadSeries returns all observations ordered by date. A nil start or end
// leaves that side of the range unbounded.
func (r *PriceRepository) LoadSeries(ctx context.Context, start, end *time.Time) (models.Series, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT observed_at, price FROM price_observations
		 WHERE ($1::timestamptz IS NULL OR observed_at >= $1)
		   AND ($2::timestamptz IS NULL OR observed_at <= $2)
		 ORDER BY observed_at`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query price observations: %w", err)
	}
	defer rows.Close()

	var series models.Series
	for rows.Next() {
		var observedAt time.Time
		var price decimal.Decimal
		if err := rows.Scan(&observedAt, &price); err != nil {
			return nil, fmt.Errorf("failed to scan price observation: %w", err)
		}
		series = append(series, models.Observation{
			Date:  observedAt,
			Price: price.InexactFloat64(),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read price observations: %w", err)
	}
	return series, nil
}

// SaveEvents inserts catalog events, skipping duplicates.
func (r *PriceRepository) SaveEvents(ctx context.Context, events models.EventCatalog) error {
	for _, event := range events {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO market_events (occurred_at, event_type, description, location)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (occurred_at, description) DO NOTHING`,
			event.Date, event.Type, event.Description, event.Location)
		if err != nil {
			return fmt.Errorf("failed to insert event %q: %w", event.Description, err)
		}
	}
	return nil
}

// LoadEvents returns the full event catalog ordered by date.
func (r *PriceRepository) LoadEvents(ctx context.Context) (models.EventCatalog, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT occurred_at, event_type, description, location
		 FROM market_events ORDER BY occurred_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to query market events: %w", err)
	}
	defer rows.Close()

	var catalog models.EventCatalog
	for rows.Next() {
		var event models.Event
		if err := rows.Scan(&event.Date, &event.Type, &event.Description, &event.Location); err != nil {
			return nil, fmt.Errorf("failed to scan market event: %w", err)
		}
		catalog = append(catalog, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read market events: %w", err)
	}
	return catalog, nil
}
