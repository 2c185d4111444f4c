package sources

import (
	"context"
	"hash/fnv"
	"math/rand/v2"
	"strings"
)

var (
	syntheticDistricts = []string{"up_lucknow", "up_kanpur", "up_varanasi", "up_gorakhpur", "up_agra"}
	syntheticMonths    = []string{"January", "February", "March", "April", "May", "June"}
)

// SyntheticFinancialYear is the financial year of every synthetic record
const SyntheticFinancialYear = "2023-2024"

// SyntheticSource serves the demo data set. Values are derived from the
// record key so repeated fetches return identical records.
type SyntheticSource struct{}

// NewSyntheticSource creates a SyntheticSource
func NewSyntheticSource() *SyntheticSource {
	return &SyntheticSource{}
}

// Fetch ignores p and returns the demo data set
func (*SyntheticSource) Fetch(_ context.Context, _ Params) ([]RawRecord, error) {
	return SyntheticRecords(), nil
}

// SyntheticRecords returns five Uttar Pradesh districts by six months
func SyntheticRecords() []RawRecord {
	out := make([]RawRecord, 0, len(syntheticDistricts)*len(syntheticMonths))
	for _, district := range syntheticDistricts {
		for _, month := range syntheticMonths {
			h := fnv.New64a()
			_, _ = h.Write([]byte(district + "/" + SyntheticFinancialYear + "/" + month))
			rng := rand.New(rand.NewPCG(h.Sum64(), 0x6d676e72))

			out = append(out, RawRecord{
				"district_name":               strings.ToUpper(strings.TrimPrefix(district, "up_")),
				"district_code":               district,
				"state_code":                  "up",
				"financial_year":              SyntheticFinancialYear,
				"month":                       month,
				"total_households_worked":     float64(rng.IntN(5000) + 1000),
				"total_person_days_generated": float64(rng.IntN(50000) + 20000),
				"total_wages_paid":            float64(rng.IntN(5000000) + 2000000),
				"total_works_taken_up":        float64(rng.IntN(50) + 10),
				"works_completed":             float64(rng.IntN(30) + 5),
				"avg_days_per_household":      float64(rng.IntN(3000)+2000) / 100,
			})
		}
	}
	return out
}
