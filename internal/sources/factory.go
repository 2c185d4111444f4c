package sources

import (
	"fmt"
	"log/slog"

	"github.com/stacklok/mgnrega-dashboard-server/internal/config"
	"github.com/stacklok/mgnrega-dashboard-server/internal/httpclient"
)

var _ Source = (*DataGovSource)(nil)
var _ Source = (*SyntheticSource)(nil)

// NewFromConfig creates the upstream source and the parameters to query it with
func NewFromConfig(cfg *config.DataSourceConfig) (Source, Params, error) {
	apiKey, err := cfg.GetAPIKey()
	if err != nil {
		return nil, Params{}, fmt.Errorf("failed to load data source API key: %w", err)
	}
	if apiKey == "" {
		slog.Warn("No data.gov.in API key configured, upstream requests will likely be refused")
	}

	client := httpclient.NewDefaultClient(cfg.GetTimeout(), httpclient.WithMaxRetries(cfg.GetMaxRetries()))
	source := NewDataGovSource(client, cfg.GetBaseURL(), cfg.GetResourceID(), cfg.GetTimeout())

	params := Params{
		APIKey:  apiKey,
		Format:  cfg.GetFormat(),
		Limit:   cfg.GetLimit(),
		Filters: cfg.Filters,
	}
	return source, params, nil
}
