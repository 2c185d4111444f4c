package status

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/mgnrega-dashboard-server/internal/sources"
)

func TestSyncStatisticsRecord(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	var stats SyncStatistics

	stats.Record(SyncRun{
		StartedAt: start, FinishedAt: start.Add(time.Second),
		Outcome: OutcomeSuccess, Source: sources.KindReal, RecordsIngested: 70,
	})
	stats.Record(SyncRun{
		StartedAt: start, FinishedAt: start.Add(2 * time.Second),
		Outcome: OutcomeSuccess, Source: sources.KindSynthetic, RecordsIngested: 30,
	})
	stats.Record(SyncRun{
		StartedAt: start, FinishedAt: start.Add(3 * time.Second),
		Outcome: OutcomeFailure, Reason: "store down", RecordsIngested: 0,
	})

	assert.Equal(t, 2, stats.SuccessfulRuns)
	assert.Equal(t, 1, stats.SyntheticRuns)
	assert.Equal(t, 1, stats.FailedRuns)
	assert.EqualValues(t, 100, stats.CumulativeRecordsProcessed)
	require.NotNil(t, stats.LastRunTime)
	assert.Equal(t, start.Add(3*time.Second), *stats.LastRunTime)
	assert.Zero(t, stats.TotalRuns, "total runs are counted at start")
}

func TestSyncRunDuration(t *testing.T) {
	t.Parallel()

	start := time.Now()
	run := SyncRun{StartedAt: start, FinishedAt: start.Add(1500 * time.Millisecond)}
	assert.Equal(t, 1500*time.Millisecond, run.Duration())
}
