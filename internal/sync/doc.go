// Package sync executes one synchronization run of the MGNREGA data set.
//
// A run fetches raw records through the API response cache, falls back to
// the synthetic data set when the upstream fails, normalizes every record and
// ingests the result in chunks:
//
//	Manager.PerformSync
//	  -> cache lookup (api_monthly_<params>)
//	  -> Source.Fetch, or the fallback source on *sources.FetchError
//	  -> Normalizer.NormalizeAll
//	  -> Pipeline.UpsertBatch
//
// Failures that end a run are reported as *Error carrying the Stage that
// failed. Single-flight execution, statistics and cache invalidation belong
// to the coordinator subpackage.
package sync
