package records

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalMonth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{in: "April", want: "April", wantOK: true},
		{in: "april", want: "April", wantOK: true},
		{in: " JAN ", want: "January", wantOK: true},
		{in: "Sept", want: "September", wantOK: true},
		{in: "Sep.", want: "September", wantOK: true},
		{in: "dec", want: "December", wantOK: true},
		{in: "", wantOK: false},
		{in: "13", wantOK: false},
		{in: "Aprilis", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, ok := CanonicalMonth(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMonthIndex(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, MonthIndex("April"))
	assert.Equal(t, 9, MonthIndex("January"))
	assert.Equal(t, 11, MonthIndex("March"))
	assert.Equal(t, -1, MonthIndex("april"))
}

func TestCompareOrdersByFinancialYearMonth(t *testing.T) {
	t.Parallel()

	recs := []Record{
		{FinancialYear: "2023-2024", Month: "January"},
		{FinancialYear: "2022-2023", Month: "March"},
		{FinancialYear: "2023-2024", Month: "April"},
		{FinancialYear: "2023-2024", Month: "December"},
	}
	slices.SortFunc(recs, Compare)

	var got []string
	for _, r := range recs {
		got = append(got, r.FinancialYear+" "+r.Month)
	}
	assert.Equal(t, []string{
		"2022-2023 March",
		"2023-2024 April",
		"2023-2024 December",
		"2023-2024 January",
	}, got)
}
