package records

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/stacklok/mgnrega-dashboard-server/internal/db/sqlc"
)

// dbStore persists records in the performance_records table
type dbStore struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewDBStore creates a Store backed by PostgreSQL.
// The caller is responsible for closing the pool when done.
func NewDBStore(pool *pgxpool.Pool) (Store, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgx pool is required")
	}
	return &dbStore{pool: pool, now: time.Now}, nil
}

// UpsertRecords writes all records with a single INSERT ... SELECT FROM unnest
// statement. Duplicate keys are collapsed first because one statement cannot
// update the same row twice.
func (d *dbStore) UpsertRecords(ctx context.Context, recs []Record) (int, error) {
	recs = Dedupe(recs)

	params := sqlc.UpsertPerformanceRecordsParams{UpdatedAt: d.now()}
	for _, r := range recs {
		if r.Validate() != nil {
			continue
		}
		params.DistrictCodes = append(params.DistrictCodes, r.DistrictCode)
		params.FinancialYears = append(params.FinancialYears, r.FinancialYear)
		params.Months = append(params.Months, r.Month)
		params.HouseholdsWorked = append(params.HouseholdsWorked, r.HouseholdsWorked)
		params.PersonDays = append(params.PersonDays, r.PersonDays)
		params.WagesPaid = append(params.WagesPaid, r.WagesPaid.String())
		params.WorksTakenUp = append(params.WorksTakenUp, r.WorksTakenUp)
		params.WorksCompleted = append(params.WorksCompleted, r.WorksCompleted)
		params.AvgDaysPerHousehold = append(params.AvgDaysPerHousehold, r.AvgDaysPerHousehold.String())
		params.Synthetic = append(params.Synthetic, r.Synthetic)
		params.FallbackFields = append(params.FallbackFields, strings.Join(r.FallbackFields, ","))
	}
	if len(params.DistrictCodes) == 0 {
		return 0, nil
	}

	affected, err := sqlc.New(d.pool).UpsertPerformanceRecords(ctx, params)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert performance records: %w", err)
	}
	return int(affected), nil
}

func (d *dbStore) FindRecords(ctx context.Context, q Query) ([]Record, error) {
	params := sqlc.ListPerformanceRecordsParams{
		DistrictCode: q.DistrictCode,
		SortDesc:     q.SortDesc,
	}
	if q.FinancialYear != "" {
		params.FinancialYear = &q.FinancialYear
	}
	if q.Limit > 0 {
		limit := int32(q.Limit)
		params.MaxRows = &limit
	}

	rows, err := sqlc.New(d.pool).ListPerformanceRecords(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list performance records: %w", err)
	}

	out := make([]Record, 0, len(rows))
	for _, row := range rows {
		wages, err := decimal.NewFromString(row.WagesPaid)
		if err != nil {
			return nil, fmt.Errorf("invalid wages_paid %q: %w", row.WagesPaid, err)
		}
		avgDays, err := decimal.NewFromString(row.AvgDaysPerHousehold)
		if err != nil {
			return nil, fmt.Errorf("invalid avg_days_per_household %q: %w", row.AvgDaysPerHousehold, err)
		}
		out = append(out, Record{
			DistrictCode:        row.DistrictCode,
			FinancialYear:       row.FinancialYear,
			Month:               row.Month,
			HouseholdsWorked:    row.HouseholdsWorked,
			PersonDays:          row.PersonDays,
			WagesPaid:           wages,
			WorksTakenUp:        row.WorksTakenUp,
			WorksCompleted:      row.WorksCompleted,
			AvgDaysPerHousehold: avgDays,
			Synthetic:           row.Synthetic,
			FallbackFields:      row.FallbackFields,
			UpdatedAt:           row.UpdatedAt,
		})
	}
	return out, nil
}

func (d *dbStore) Count(ctx context.Context) (int64, error) {
	count, err := sqlc.New(d.pool).CountPerformanceRecords(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count performance records: %w", err)
	}
	return count, nil
}
