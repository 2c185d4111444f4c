// Package integration exercises the dashboard API end to end: a mock
// data.gov.in upstream, a full sync through normalization and ingestion,
// and the cached REST endpoints on top.
package integration
