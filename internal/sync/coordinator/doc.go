// Package coordinator owns the single-flight guard and statistics of data
// synchronization and schedules periodic runs.
//
// # Architecture
//
// The package separates concerns between:
//
//   - internal/sync: one run (fetch, normalize, ingest)
//   - internal/sync/coordinator: single-flight execution, statistics, cache
//     invalidation and scheduling
//   - cmd/mgnrega-api/app: process lifecycle (starts and stops the scheduler)
//
// # State machine
//
// A Coordinator is Idle or Running. StartSync moves it to Running with an
// atomic compare-and-swap and returns sync.ErrSyncInProgress to any caller
// that loses the race, without touching the statistics. The run itself uses
// a context detached from the caller's cancellation, so a disconnecting HTTP
// client cannot abort a sync halfway.
//
// On success the coordinator updates the statistics and only then clears the
// district data and states cache entries. On failure the cache is left alone.
//
// # Usage Example
//
//	coord := coordinator.New(manager, cacheStore)
//	scheduler := coordinator.NewScheduler(coord, 24*time.Hour, coordinator.WithRunOnStart(true))
//	go scheduler.Start(ctx)
//	defer scheduler.Stop()
package coordinator
