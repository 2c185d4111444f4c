// Package status holds the in-process records of sync runs and the
// statistics aggregated from them. Nothing here is persisted.
package status

import (
	"time"

	"github.com/google/uuid"

	"github.com/stacklok/mgnrega-dashboard-server/internal/sources"
)

// Outcome is the terminal state of a sync run
type Outcome string

const (
	// OutcomeSuccess means the run reached ingestion completion
	OutcomeSuccess Outcome = "success"

	// OutcomeFailure means the run stopped on a fatal error
	OutcomeFailure Outcome = "failure"
)

// SyncRun records one sync execution
type SyncRun struct {
	ID              uuid.UUID    `json:"id"`
	StartedAt       time.Time    `json:"startedAt"`
	FinishedAt      time.Time    `json:"finishedAt"`
	RecordsFetched  int          `json:"recordsFetched"`
	RecordsRejected int          `json:"recordsRejected"`
	RecordsIngested int          `json:"recordsIngested"`
	Source          sources.Kind `json:"source,omitempty"`
	Outcome         Outcome      `json:"outcome"`
	// Reason is set for failed runs
	Reason string `json:"reason,omitempty"`
}

// Duration returns how long the run took
func (r SyncRun) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// SyncStatistics aggregates every run since process start
type SyncStatistics struct {
	TotalRuns                  int        `json:"totalRuns"`
	SuccessfulRuns             int        `json:"successfulRuns"`
	FailedRuns                 int        `json:"failedRuns"`
	SyntheticRuns              int        `json:"syntheticRuns"`
	CumulativeRecordsProcessed int64      `json:"cumulativeRecordsProcessed"`
	LastRunTime                *time.Time `json:"lastRunTime,omitempty"`
}

// Record folds a finished run into the statistics. TotalRuns is counted
// when a run starts.
func (s *SyncStatistics) Record(run SyncRun) {
	finished := run.FinishedAt
	s.LastRunTime = &finished
	if run.Outcome != OutcomeSuccess {
		s.FailedRuns++
		return
	}
	s.SuccessfulRuns++
	if run.Source == sources.KindSynthetic {
		s.SyntheticRuns++
	}
	s.CumulativeRecordsProcessed += int64(run.RecordsIngested)
}

// SyncStatus is a snapshot of the synchronizer
type SyncStatus struct {
	InProgress bool `json:"inProgress"`
	// LastSyncTime is the finish time of the last successful run
	LastSyncTime *time.Time     `json:"lastSyncTime"`
	CanSync      bool           `json:"canSync"`
	Stats        SyncStatistics `json:"stats"`
	LastRun      *SyncRun       `json:"lastRun,omitempty"`
}
