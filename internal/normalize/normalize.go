// Package normalize turns raw data.gov.in records into canonical performance
// records.
package normalize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/stacklok/mgnrega-dashboard-server/internal/records"
	"github.com/stacklok/mgnrega-dashboard-server/internal/reference"
)

// ErrRejected is returned for records that cannot be normalized
var ErrRejected = errors.New("record rejected")

// MalformedRecordError describes why a record was rejected
type MalformedRecordError struct {
	Field  string
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func reject(field, reason string) error {
	return fmt.Errorf("%w: %w", ErrRejected, &MalformedRecordError{Field: field, Reason: reason})
}

// DefaultStateCode is used when a record names no state
const DefaultStateCode = "up"

// StateResolver maps a state name to its code
type StateResolver func(name string) (code string, ok bool)

// Normalizer converts raw records. It holds no mutable state.
type Normalizer struct {
	defaultStateCode string
	resolveState     StateResolver
}

// Option configures a Normalizer
type Option func(*Normalizer)

// WithDefaultStateCode sets the state code used when a record names no state
func WithDefaultStateCode(code string) Option {
	return func(n *Normalizer) {
		if code = strings.ToLower(strings.TrimSpace(code)); code != "" {
			n.defaultStateCode = code
		}
	}
}

// WithStateResolver replaces the state name lookup
func WithStateResolver(fn StateResolver) Option {
	return func(n *Normalizer) {
		if fn != nil {
			n.resolveState = fn
		}
	}
}

// New creates a Normalizer
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		defaultStateCode: DefaultStateCode,
		resolveState:     reference.StateCodeForName,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize converts one raw record. Rejections wrap ErrRejected and a
// *MalformedRecordError.
func (n *Normalizer) Normalize(ctx context.Context, raw map[string]any) (records.Record, error) {
	districtCode, err := n.districtCode(raw)
	if err != nil {
		return records.Record{}, err
	}

	yearValue, ok := firstString(raw, financialYearFields...)
	if !ok {
		return records.Record{}, reject("financial_year", "missing")
	}
	year, ok := CanonicalFinancialYear(yearValue)
	if !ok {
		return records.Record{}, reject("financial_year", fmt.Sprintf("unrecognised value %q", yearValue))
	}

	monthValue, ok := firstString(raw, monthFields...)
	if !ok {
		return records.Record{}, reject("month", "missing")
	}
	month, ok := canonicalMonth(monthValue)
	if !ok {
		return records.Record{}, reject("month", fmt.Sprintf("unrecognised value %q", monthValue))
	}

	rec := records.Record{DistrictCode: districtCode, FinancialYear: year, Month: month}
	seed := keySeed(rec.Key())

	var fallbacks []string
	for _, f := range metricFields {
		if f.apply(raw, seed, &rec) {
			fallbacks = append(fallbacks, f.field())
			slog.DebugContext(ctx, "Filled field with fallback default",
				"district_code", rec.DistrictCode,
				"financial_year", rec.FinancialYear,
				"month", rec.Month,
				"field", f.field())
		}
	}
	rec.FallbackFields = fallbacks

	return rec, nil
}

// Batch is the outcome of normalizing many raw records
type Batch struct {
	Records  []records.Record
	Rejected int
}

// NormalizeAll normalizes every raw record, dropping and counting rejections
func (n *Normalizer) NormalizeAll(ctx context.Context, raws []map[string]any) Batch {
	b := Batch{Records: make([]records.Record, 0, len(raws))}
	for i, raw := range raws {
		rec, err := n.Normalize(ctx, raw)
		if err != nil {
			b.Rejected++
			slog.DebugContext(ctx, "Rejected raw record", "index", i, "error", err)
			continue
		}
		b.Records = append(b.Records, rec)
	}
	return b
}

var (
	districtNameFields  = []string{"district", "district_name"}
	financialYearFields = []string{"financial_year", "fin_year"}
	monthFields         = []string{"month"}

	whitespaceRun    = regexp.MustCompile(`\s+`)
	nonCodeChars     = regexp.MustCompile(`[^a-z0-9_]`)
	canonicalCode    = regexp.MustCompile(`^[a-z]{2,3}_[a-z0-9_]+$`)
	financialYearRaw = regexp.MustCompile(`^(\d{4})\s*[-–/]\s*(\d{2}|\d{4})$`)
)

// districtCode builds <state>_<slug(name)>. A raw district_code already in
// canonical form is accepted when the record carries no name.
func (n *Normalizer) districtCode(raw map[string]any) (string, error) {
	name, ok := firstString(raw, districtNameFields...)
	if !ok {
		if code, ok := firstString(raw, "district_code"); ok && canonicalCode.MatchString(code) {
			return code, nil
		}
		return "", reject("district", "missing")
	}

	slug := Slug(name)
	if slug == "" {
		return "", reject("district", fmt.Sprintf("no usable characters in %q", name))
	}
	return n.stateCode(raw) + "_" + slug, nil
}

func (n *Normalizer) stateCode(raw map[string]any) string {
	if code, ok := firstString(raw, "state_code"); ok {
		if slug := Slug(code); slug != "" {
			return slug
		}
	}
	if name, ok := firstString(raw, "state_name", "state"); ok {
		if code, ok := n.resolveState(name); ok {
			return code
		}
	}
	return n.defaultStateCode
}

// Slug lowercases s, turns whitespace runs into underscores and strips
// everything outside [a-z0-9_]
func Slug(s string) string {
	s = whitespaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "_")
	return nonCodeChars.ReplaceAllString(s, "")
}

// CanonicalFinancialYear rewrites "2023-24", "2023/2024" and similar to
// "2023-2024". The end year must follow the start year.
func CanonicalFinancialYear(s string) (string, bool) {
	m := financialYearRaw.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return "", false
	}
	start, _ := strconv.Atoi(m[1])
	end := start + 1
	if want := strconv.Itoa(end); m[2] != want && m[2] != want[2:] {
		return "", false
	}
	return fmt.Sprintf("%d-%d", start, end), true
}

var calendarMonths = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// canonicalMonth accepts month names, abbreviations and calendar numbers 1-12
func canonicalMonth(s string) (string, bool) {
	if m, ok := records.CanonicalMonth(s); ok {
		return m, true
	}
	if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && i >= 1 && i <= 12 {
		return calendarMonths[i-1], true
	}
	return "", false
}

// firstString returns the first non-blank value among fields. Numbers are
// formatted so that numeric month columns still resolve.
func firstString(raw map[string]any, fields ...string) (string, bool) {
	for _, f := range fields {
		v, ok := raw[f]
		if !ok || v == nil {
			continue
		}
		var s string
		switch t := v.(type) {
		case string:
			s = t
		case fmt.Stringer:
			s = t.String()
		case float64:
			s = strconv.FormatFloat(t, 'f', -1, 64)
		case int, int64:
			s = fmt.Sprint(t)
		default:
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			return s, true
		}
	}
	return "", false
}
