package normalize

import (
	"encoding/json"
	"hash/fnv"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/stacklok/mgnrega-dashboard-server/internal/records"
)

// metricField resolves one record field from an ordered list of raw field
// names, falling back to a deterministic default.
type metricField interface {
	field() string
	// apply sets the field on rec and reports whether the default was used
	apply(raw map[string]any, seed string, rec *records.Record) bool
}

type rule[T any] struct {
	target   string
	aliases  []string
	parse    func(any) (T, bool)
	fallback func(h uint64) T
	set      func(*records.Record, T)
}

func (r rule[T]) field() string { return r.target }

func (r rule[T]) apply(raw map[string]any, seed string, rec *records.Record) bool {
	for _, name := range r.aliases {
		v, ok := raw[name]
		if !ok {
			continue
		}
		if parsed, ok := r.parse(v); ok {
			r.set(rec, parsed)
			return false
		}
	}
	r.set(rec, r.fallback(fieldHash(seed, r.target)))
	return true
}

// metricFields is evaluated in order. Ranges of the defaults match the demo
// data set.
var metricFields = []metricField{
	rule[int64]{
		target:   "households_worked",
		aliases:  []string{"total_households_worked", "households_worked"},
		parse:    parseCount,
		fallback: func(h uint64) int64 { return 1000 + int64(h%5000) },
		set:      func(r *records.Record, v int64) { r.HouseholdsWorked = v },
	},
	rule[int64]{
		target:   "person_days",
		aliases:  []string{"total_person_days_generated", "person_days"},
		parse:    parseCount,
		fallback: func(h uint64) int64 { return 20000 + int64(h%50000) },
		set:      func(r *records.Record, v int64) { r.PersonDays = v },
	},
	rule[decimal.Decimal]{
		target:   "wages_paid",
		aliases:  []string{"total_wages_paid", "wages_paid"},
		parse:    amountBelow(records.MaxWagesPaid),
		fallback: func(h uint64) decimal.Decimal { return decimal.NewFromInt(2000000 + int64(h%5000000)) },
		set:      func(r *records.Record, v decimal.Decimal) { r.WagesPaid = v },
	},
	rule[int64]{
		target:   "works_taken_up",
		aliases:  []string{"total_works_taken_up", "works_taken_up"},
		parse:    parseCount,
		fallback: func(h uint64) int64 { return 10 + int64(h%50) },
		set:      func(r *records.Record, v int64) { r.WorksTakenUp = v },
	},
	rule[int64]{
		target:   "works_completed",
		aliases:  []string{"works_completed", "number_of_completed_works"},
		parse:    parseCount,
		fallback: func(h uint64) int64 { return 5 + int64(h%30) },
		set:      func(r *records.Record, v int64) { r.WorksCompleted = v },
	},
	rule[decimal.Decimal]{
		target:   "avg_days_per_household",
		aliases:  []string{"avg_days_per_household", "average_days_of_employment_provided_per_household"},
		parse:    amountBelow(records.MaxAvgDaysPerHousehold),
		fallback: func(h uint64) decimal.Decimal { return decimal.New(2000+int64(h%3000), -2) },
		set:      func(r *records.Record, v decimal.Decimal) { r.AvgDaysPerHousehold = v },
	},
}

func keySeed(k records.Key) string {
	return k.DistrictCode + "\x00" + k.FinancialYear + "\x00" + k.Month
}

func fieldHash(seed, field string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(seed))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(field))
	return h.Sum64()
}

// parseNumber accepts JSON numbers and numeric strings with thousands
// separators. Negative values are refused.
func parseNumber(v any) (decimal.Decimal, bool) {
	var d decimal.Decimal
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return decimal.Decimal{}, false
		}
		d = decimal.NewFromFloat(t)
	case int:
		d = decimal.NewFromInt(int64(t))
	case int64:
		d = decimal.NewFromInt(t)
	case json.Number:
		parsed, err := decimal.NewFromString(t.String())
		if err != nil {
			return decimal.Decimal{}, false
		}
		d = parsed
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(t), ",", "")
		if s == "" {
			return decimal.Decimal{}, false
		}
		parsed, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Decimal{}, false
		}
		d = parsed
	default:
		return decimal.Decimal{}, false
	}
	if d.IsNegative() {
		return decimal.Decimal{}, false
	}
	return d, true
}

var maxCount = decimal.NewFromInt(math.MaxInt64)

// parseCount truncates fractional counts. Counts beyond int64 are refused.
func parseCount(v any) (int64, bool) {
	d, ok := parseNumber(v)
	if !ok {
		return 0, false
	}
	d = d.Truncate(0)
	if d.GreaterThan(maxCount) {
		return 0, false
	}
	return d.IntPart(), true
}

// amountBelow parses amounts rounded to two decimal places, refusing any
// that are not below limit
func amountBelow(limit decimal.Decimal) func(any) (decimal.Decimal, bool) {
	return func(v any) (decimal.Decimal, bool) {
		d, ok := parseNumber(v)
		if !ok {
			return decimal.Decimal{}, false
		}
		d = d.Round(2)
		if !d.LessThan(limit) {
			return decimal.Decimal{}, false
		}
		return d, true
	}
}
