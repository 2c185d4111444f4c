package helpers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/onsi/gomega"

	dashboardapp "github.com/stacklok/mgnrega-dashboard-server/internal/app"
	"github.com/stacklok/mgnrega-dashboard-server/internal/config"
)

// ServerTestHelper runs a dashboard app with memory storage against an
// upstream URL and serves its router from an httptest server
type ServerTestHelper struct {
	app        *dashboardapp.DashboardApp
	server     *httptest.Server
	httpClient *http.Client
}

// NewServerTestHelper builds the app. The scheduler is not started, syncs
// run through POST /api/sync.
func NewServerTestHelper(ctx context.Context, upstreamURL string) *ServerTestHelper {
	maxRetries := 0
	cfg := &config.Config{
		DataSource: config.DataSourceConfig{
			BaseURL:    upstreamURL,
			ResourceID: "integration-resource",
			Timeout:    "2s",
			MaxRetries: &maxRetries,
		},
		Ingestion: config.IngestionConfig{BatchDelay: "0s"},
		Storage:   config.StorageConfig{Type: config.StorageTypeMemory},
	}

	app, err := dashboardapp.NewDashboardApp(ctx, dashboardapp.WithConfig(cfg))
	gomega.Expect(err).NotTo(gomega.HaveOccurred())

	return &ServerTestHelper{
		app:        app,
		server:     httptest.NewServer(app.GetHTTPServer().Handler),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Close stops the httptest server and releases the app
func (s *ServerTestHelper) Close() {
	s.server.Close()
	s.app.Close()
}

// Get performs a GET request against the app
func (s *ServerTestHelper) Get(path string) (*http.Response, error) {
	return s.httpClient.Get(s.server.URL + path)
}

// Post performs a POST request with a JSON body, nil for none
func (s *ServerTestHelper) Post(path string, body any) (*http.Response, error) {
	var reader io.Reader = http.NoBody
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}
	return s.httpClient.Post(s.server.URL+path, "application/json", reader)
}

// Delete performs a DELETE request against the app
func (s *ServerTestHelper) Delete(path string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodDelete, s.server.URL+path, nil)
	if err != nil {
		return nil, err
	}
	return s.httpClient.Do(req)
}

// DecodeJSON reads resp, checks the status code and decodes the body into out
func DecodeJSON(resp *http.Response, wantStatus int, out any) {
	defer func() {
		_ = resp.Body.Close()
	}()
	body, err := io.ReadAll(resp.Body)
	gomega.Expect(err).NotTo(gomega.HaveOccurred())
	gomega.Expect(resp.StatusCode).To(gomega.Equal(wantStatus), fmt.Sprintf("body: %s", body))
	if out != nil {
		gomega.Expect(json.Unmarshal(body, out)).To(gomega.Succeed())
	}
}
