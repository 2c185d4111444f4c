// Package sources provides the upstream data sources the sync reads from.
//
// Architecture:
//   - Source: fetches raw records for a parameter set
//   - DataGovSource: the data.gov.in resource API, bounded by a hard timeout
//   - SyntheticSource: a fixed demo data set used when the upstream fails
//
// Failures of the upstream are reported as *FetchError so callers can tell
// timeouts, network failures, HTTP errors and malformed payloads apart.
package sources
