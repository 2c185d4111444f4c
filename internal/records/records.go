// Package records holds the canonical per-district monthly performance
// records and the stores that persist them.
package records

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvalidRecord is returned by Validate for records the store would reject
var ErrInvalidRecord = errors.New("invalid performance record")

// Upper bounds of the decimal columns, exclusive: NUMERIC(18,2) and NUMERIC(10,2)
var (
	MaxWagesPaid           = decimal.New(1, 16)
	MaxAvgDaysPerHousehold = decimal.New(1, 8)
)

// Key is the natural key of a Record
type Key struct {
	DistrictCode  string
	FinancialYear string
	Month         string
}

// Record is one month of program performance for one district
type Record struct {
	DistrictCode        string          `json:"district_code"`
	FinancialYear       string          `json:"financial_year"`
	Month               string          `json:"month"`
	HouseholdsWorked    int64           `json:"households_worked"`
	PersonDays          int64           `json:"person_days"`
	WagesPaid           decimal.Decimal `json:"wages_paid"`
	WorksTakenUp        int64           `json:"works_taken_up"`
	WorksCompleted      int64           `json:"works_completed"`
	AvgDaysPerHousehold decimal.Decimal `json:"avg_days_per_household"`
	// Synthetic marks records from the demo data set
	Synthetic bool `json:"synthetic"`
	// FallbackFields lists the fields filled with a synthesized default
	FallbackFields []string  `json:"fallback_fields,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Key returns the natural key of r
func (r Record) Key() Key {
	return Key{DistrictCode: r.DistrictCode, FinancialYear: r.FinancialYear, Month: r.Month}
}

// Validate checks that the key is complete and every metric is non-negative
// and fits its column.
// WorksCompleted may exceed WorksTakenUp.
func (r Record) Validate() error {
	var errs []error
	if r.DistrictCode == "" {
		errs = append(errs, errors.New("district_code is required"))
	}
	if r.FinancialYear == "" {
		errs = append(errs, errors.New("financial_year is required"))
	}
	if r.Month == "" {
		errs = append(errs, errors.New("month is required"))
	}
	for name, v := range map[string]int64{
		"households_worked": r.HouseholdsWorked,
		"person_days":       r.PersonDays,
		"works_taken_up":    r.WorksTakenUp,
		"works_completed":   r.WorksCompleted,
	} {
		if v < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative", name))
		}
	}
	if r.WagesPaid.IsNegative() {
		errs = append(errs, errors.New("wages_paid must not be negative"))
	}
	if !r.WagesPaid.LessThan(MaxWagesPaid) {
		errs = append(errs, fmt.Errorf("wages_paid must be below %s", MaxWagesPaid))
	}
	if r.AvgDaysPerHousehold.IsNegative() {
		errs = append(errs, errors.New("avg_days_per_household must not be negative"))
	}
	if !r.AvgDaysPerHousehold.LessThan(MaxAvgDaysPerHousehold) {
		errs = append(errs, fmt.Errorf("avg_days_per_household must be below %s", MaxAvgDaysPerHousehold))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, errors.Join(errs...))
	}
	return nil
}

// Query selects records of one district
type Query struct {
	DistrictCode string
	// FinancialYear restricts the result to one year when set
	FinancialYear string
	// SortDesc returns the most recent month first
	SortDesc bool
	// Limit caps the result size when positive
	Limit int
}

//go:generate mockgen -destination=mocks/mock_store.go -package=mocks github.com/stacklok/mgnrega-dashboard-server/internal/records Store

// Store persists records keyed by their natural key
type Store interface {
	// UpsertRecords inserts or updates records in one unordered bulk write and
	// returns the number of rows the store confirmed. Invalid records are
	// skipped. A synthetic record never replaces a real one.
	UpsertRecords(ctx context.Context, records []Record) (int, error)

	// FindRecords returns the records of one district ordered by financial
	// year then month of the financial year
	FindRecords(ctx context.Context, q Query) ([]Record, error)

	// Count returns the number of stored records
	Count(ctx context.Context) (int64, error)
}

// Dedupe collapses records sharing a natural key, keeping the last one and
// the position of the first.
func Dedupe(recs []Record) []Record {
	index := make(map[Key]int, len(recs))
	out := make([]Record, 0, len(recs))
	for _, r := range recs {
		if i, ok := index[r.Key()]; ok {
			out[i] = r
			continue
		}
		index[r.Key()] = len(out)
		out = append(out, r)
	}
	return out
}
