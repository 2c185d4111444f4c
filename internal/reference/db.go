package reference

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stacklok/mgnrega-dashboard-server/internal/db/sqlc"
)

type dbCatalog struct {
	pool *pgxpool.Pool
}

// NewDBCatalog creates a Catalog backed by the states and districts tables.
// The caller is responsible for closing the pool when done.
func NewDBCatalog(pool *pgxpool.Pool) (Catalog, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgx pool is required")
	}
	return &dbCatalog{pool: pool}, nil
}

func (c *dbCatalog) ListStates(ctx context.Context) ([]State, error) {
	rows, err := sqlc.New(c.pool).ListStates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list states: %w", err)
	}
	out := make([]State, 0, len(rows))
	for _, r := range rows {
		out = append(out, State{Code: r.StateCode, NameHi: r.StateNameHi, NameEn: r.StateNameEn})
	}
	return out, nil
}

func (c *dbCatalog) ListDistricts(ctx context.Context, stateCode string) ([]District, error) {
	rows, err := sqlc.New(c.pool).ListDistrictsByState(ctx, stateCode)
	if err != nil {
		return nil, fmt.Errorf("failed to list districts of %s: %w", stateCode, err)
	}
	out := make([]District, 0, len(rows))
	for _, r := range rows {
		out = append(out, newDistrict(r.DistrictCode, r.DistrictNameHi, r.DistrictNameEn, r.StateCode, r.Latitude, r.Longitude))
	}
	return out, nil
}

func (c *dbCatalog) GetDistrict(ctx context.Context, code string) (District, error) {
	row, err := sqlc.New(c.pool).GetDistrict(ctx, code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return District{}, ErrNotFound
		}
		return District{}, fmt.Errorf("failed to get district %s: %w", code, err)
	}
	return newDistrict(row.DistrictCode, row.DistrictNameHi, row.DistrictNameEn, row.StateCode, row.Latitude, row.Longitude), nil
}

func (c *dbCatalog) NearestDistrict(ctx context.Context, latitude, longitude float64) (District, error) {
	rows, err := sqlc.New(c.pool).ListLocatedDistricts(ctx)
	if err != nil {
		return District{}, fmt.Errorf("failed to list located districts: %w", err)
	}
	districts := make([]District, 0, len(rows))
	for _, r := range rows {
		districts = append(districts, newDistrict(r.DistrictCode, r.DistrictNameHi, r.DistrictNameEn, r.StateCode, r.Latitude, r.Longitude))
	}
	return nearest(districts, latitude, longitude)
}

// Upsert writes all states and districts in one transaction
func (c *dbCatalog) Upsert(ctx context.Context, states []State, districts []District) error {
	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			slog.WarnContext(ctx, "Failed to roll back reference upsert", "error", rollbackErr)
		}
	}()

	q := sqlc.New(c.pool).WithTx(tx)
	for _, s := range states {
		if err := q.UpsertState(ctx, sqlc.UpsertStateParams{
			StateCode:   s.Code,
			StateNameHi: s.NameHi,
			StateNameEn: s.NameEn,
		}); err != nil {
			return fmt.Errorf("failed to upsert state %s: %w", s.Code, err)
		}
	}
	for _, d := range districts {
		if err := q.UpsertDistrict(ctx, sqlc.UpsertDistrictParams{
			DistrictCode:   d.Code,
			DistrictNameHi: d.NameHi,
			DistrictNameEn: d.NameEn,
			StateCode:      d.StateCode,
			Latitude:       d.Latitude,
			Longitude:      d.Longitude,
		}); err != nil {
			return fmt.Errorf("failed to upsert district %s: %w", d.Code, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func newDistrict(code, nameHi, nameEn, stateCode string, latitude, longitude *float64) District {
	return District{
		Code:      code,
		NameHi:    nameHi,
		NameEn:    nameEn,
		StateCode: stateCode,
		Latitude:  latitude,
		Longitude: longitude,
	}
}
