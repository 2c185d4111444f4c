package records

import (
	"cmp"
	"strings"
)

// FinancialYearMonths lists months in financial year order (April to March)
var FinancialYearMonths = []string{
	"April", "May", "June", "July", "August", "September",
	"October", "November", "December", "January", "February", "March",
}

var monthLookup = func() map[string]string {
	m := make(map[string]string, 3*len(FinancialYearMonths))
	for _, name := range FinancialYearMonths {
		lower := strings.ToLower(name)
		m[lower] = name
		m[lower[:3]] = name
	}
	m["sept"] = "September"
	return m
}()

// CanonicalMonth returns the full English month name for a name or common
// abbreviation, in any case. ok is false for anything else.
func CanonicalMonth(s string) (month string, ok bool) {
	month, ok = monthLookup[strings.ToLower(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), ".")))]
	return month, ok
}

// MonthIndex returns the position of month in the financial year, or -1
func MonthIndex(month string) int {
	for i, m := range FinancialYearMonths {
		if m == month {
			return i
		}
	}
	return -1
}

// Compare orders records by financial year, then month of the financial year
func Compare(a, b Record) int {
	return cmp.Or(
		cmp.Compare(a.FinancialYear, b.FinancialYear),
		cmp.Compare(MonthIndex(a.Month), MonthIndex(b.Month)),
		cmp.Compare(a.DistrictCode, b.DistrictCode),
	)
}
