package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"time"

	"github.com/stacklok/mgnrega-dashboard-server/internal/httpclient"
)

// DefaultFetchTimeout bounds a whole upstream fetch
const DefaultFetchTimeout = 15 * time.Second

// apiResponse is the envelope of a data.gov.in resource response
type apiResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Total   json.Number `json:"total"`
	Records []RawRecord `json:"records"`
}

// DataGovSource reads a data.gov.in resource
type DataGovSource struct {
	httpClient httpclient.Client
	endpoint   string
	timeout    time.Duration
}

// NewDataGovSource creates a source for the resource at baseURL/resource/resourceID.
// A zero timeout uses DefaultFetchTimeout.
func NewDataGovSource(client httpclient.Client, baseURL, resourceID string, timeout time.Duration) *DataGovSource {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &DataGovSource{
		httpClient: client,
		endpoint:   baseURL + "/resource/" + url.PathEscape(resourceID),
		timeout:    timeout,
	}
}

// Fetch requests the resource. The whole call, retries included, is
// bounded by the source timeout.
func (s *DataGovSource) Fetch(ctx context.Context, p Params) ([]RawRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	started := time.Now()
	body, err := s.httpClient.Get(ctx, s.endpoint+"?"+p.Query().Encode())
	if err != nil {
		return nil, &FetchError{Kind: classify(ctx, err), Err: err}
	}

	var resp apiResponse
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&resp); err != nil {
		return nil, &FetchError{Kind: FetchMalformed, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	if resp.Status == "error" {
		return nil, &FetchError{Kind: FetchMalformed, Err: fmt.Errorf("upstream reported an error: %s", resp.Message)}
	}
	if len(resp.Records) == 0 {
		return nil, &FetchError{Kind: FetchEmpty, Err: errors.New("response carries no records")}
	}

	slog.InfoContext(ctx, "Fetched records from data.gov.in",
		"records", len(resp.Records),
		"total", resp.Total.String(),
		"duration", time.Since(started))
	return resp.Records, nil
}

func classify(ctx context.Context, err error) FetchErrorKind {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return FetchTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return FetchTimeout
	}
	var httpErr *httpclient.HTTPError
	if errors.As(err, &httpErr) {
		return FetchHTTP
	}
	return FetchNetwork
}
