package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/mgnrega-dashboard-server/internal/config"
)

func TestNewPoolValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     *config.DatabaseConfig
		wantErr string
	}{
		{name: "nil config", cfg: nil, wantErr: "database configuration is required"},
		{name: "missing host", cfg: &config.DatabaseConfig{Port: 5432, User: "u", Database: "d"}, wantErr: "host is required"},
		{name: "missing port", cfg: &config.DatabaseConfig{Host: "h", User: "u", Database: "d"}, wantErr: "port is required"},
		{name: "missing user", cfg: &config.DatabaseConfig{Host: "h", Port: 5432, Database: "d"}, wantErr: "user is required"},
		{name: "missing database", cfg: &config.DatabaseConfig{Host: "h", Port: 5432, User: "u"}, wantErr: "name is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pool, err := NewPool(context.Background(), tt.cfg)
			require.Error(t, err)
			assert.Nil(t, pool)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
