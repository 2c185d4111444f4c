package httpclient

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		status    int
		retryable bool
	}{
		{name: "rate limited", status: http.StatusTooManyRequests, retryable: true},
		{name: "server error", status: http.StatusInternalServerError, retryable: true},
		{name: "gateway timeout", status: http.StatusGatewayTimeout, retryable: true},
		{name: "forbidden", status: http.StatusForbidden, retryable: false},
		{name: "not found", status: http.StatusNotFound, retryable: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := NewHTTPError(tt.status, "https://api.example.test/resource", http.StatusText(tt.status))
			httpErr, ok := err.(*HTTPError)
			assert.True(t, ok)
			assert.Equal(t, tt.retryable, httpErr.Retryable())
			assert.Contains(t, err.Error(), http.StatusText(tt.status))
		})
	}
}

func TestRedactURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://h/r?api-key=REDACTED&format=json", redactURL("https://h/r?api-key=abc&format=json"))
	assert.Equal(t, "https://h/r?format=json", redactURL("https://h/r?format=json"))
	assert.Equal(t, "::bad", redactURL("::bad"))
}
