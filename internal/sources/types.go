package sources

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"net/url"
	"strconv"
)

// Kind tags where the records of a fetch came from
type Kind string

const (
	// KindReal is a live upstream response
	KindReal Kind = "real"
	// KindCached is an upstream response served from the API cache
	KindCached Kind = "cached"
	// KindSynthetic is the demo data set used after an upstream failure
	KindSynthetic Kind = "synthetic"
)

// RawRecord is one record as decoded from the upstream JSON
type RawRecord = map[string]any

// Params is the query sent to the upstream
type Params struct {
	APIKey  string
	Format  string
	Limit   int
	Offset  int
	Filters map[string]string
}

// Query returns the URL query parameters, API key included
func (p Params) Query() url.Values {
	v := url.Values{}
	for k, val := range p.CacheParams() {
		v.Set(k, val)
	}
	if p.APIKey != "" {
		v.Set("api-key", p.APIKey)
	}
	return v
}

// CacheParams returns the parameters identifying a response, without the API key
func (p Params) CacheParams() map[string]string {
	out := make(map[string]string, len(p.Filters)+3)
	maps.Copy(out, p.Filters)
	if p.Format != "" {
		out["format"] = p.Format
	}
	if p.Limit > 0 {
		out["limit"] = strconv.Itoa(p.Limit)
	}
	if p.Offset > 0 {
		out["offset"] = strconv.Itoa(p.Offset)
	}
	return out
}

//go:generate mockgen -destination=mocks/mock_source.go -package=mocks github.com/stacklok/mgnrega-dashboard-server/internal/sources Source

// Source fetches raw records
type Source interface {
	// Fetch returns the raw records matching p. Upstream failures are
	// returned as *FetchError.
	Fetch(ctx context.Context, p Params) ([]RawRecord, error)
}

// FetchErrorKind classifies upstream failures
type FetchErrorKind string

const (
	// FetchTimeout means the fetch exceeded its deadline
	FetchTimeout FetchErrorKind = "timeout"
	// FetchNetwork means the upstream could not be reached
	FetchNetwork FetchErrorKind = "network"
	// FetchHTTP means the upstream answered with a non-200 status
	FetchHTTP FetchErrorKind = "http"
	// FetchMalformed means the payload could not be decoded
	FetchMalformed FetchErrorKind = "malformed"
	// FetchEmpty means the payload carried no records
	FetchEmpty FetchErrorKind = "empty"
)

// FetchError is a transient upstream failure
type FetchError struct {
	Kind FetchErrorKind
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch failed (%s): %v", e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsFetchError reports whether err is a *FetchError and returns its kind
func IsFetchError(err error) (FetchErrorKind, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	return "", false
}
