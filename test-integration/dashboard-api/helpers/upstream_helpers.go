package helpers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
)

// UpstreamRecord builds one raw data.gov.in row for a district and month
func UpstreamRecord(district, finYear, month string, households int) map[string]any {
	return map[string]any{
		"state_code":                  "UP",
		"state_name":                  "UTTAR PRADESH",
		"district_name":               district,
		"fin_year":                    finYear,
		"month":                       month,
		"total_households_worked":     households,
		"total_person_days_generated": households * 40,
		"total_wages_paid":            "1250000.50",
		"total_works_taken_up":        120,
		"works_completed":             80,
		"avg_days_per_household":      "40.0",
	}
}

// MockUpstream imitates the data.gov.in resource endpoint. Its behavior
// can be switched between calls.
type MockUpstream struct {
	*httptest.Server

	mu       sync.Mutex
	records  []map[string]any
	status   int
	requests atomic.Int32
}

// NewMockUpstream starts an upstream serving records with status 200
func NewMockUpstream(records ...map[string]any) *MockUpstream {
	m := &MockUpstream{records: records, status: http.StatusOK}
	m.Server = httptest.NewServer(http.HandlerFunc(m.serve))
	return m
}

// SetRecords replaces the served records
func (m *MockUpstream) SetRecords(records ...map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = records
}

// FailWith makes every following request answer with status
func (m *MockUpstream) FailWith(status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = status
}

// Requests returns the number of requests received so far
func (m *MockUpstream) Requests() int {
	return int(m.requests.Load())
}

func (m *MockUpstream) serve(w http.ResponseWriter, _ *http.Request) {
	m.requests.Add(1)

	m.mu.Lock()
	status, records := m.status, m.records
	m.mu.Unlock()

	if status != http.StatusOK {
		http.Error(w, http.StatusText(status), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"message": "Resource detail",
		"total":   len(records),
		"records": records,
	})
}
