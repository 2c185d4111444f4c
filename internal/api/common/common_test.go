package common

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCodeParam(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr string
	}{
		{name: "district code", path: "/up_lucknow", want: "up_lucknow"},
		{name: "state code", path: "/up", want: "up"},
		{name: "encoded underscore", path: "/up%5Fagra", want: "up_agra"},
		{name: "upper case", path: "/UP_LUCKNOW", wantErr: "lower case"},
		{name: "encoded space", path: "/up%20agra", wantErr: "lower case"},
		{name: "too short", path: "/u", wantErr: "lower case"},
		{name: "bad encoding", path: "/up%zz", wantErr: "invalid URL encoding"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var (
				got string
				err error
			)
			r := chi.NewRouter()
			r.Get("/{code}", func(_ http.ResponseWriter, req *http.Request) {
				got, err = GetCodeParam(req, "code")
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.URL.RawPath = tt.path
			req.URL.Path = tt.path
			r.ServeHTTP(httptest.NewRecorder(), req)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetCodeParamEmpty(t *testing.T) {
	t.Parallel()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := GetCodeParam(req, "code")
	require.ErrorContains(t, err, "cannot be empty")
}

func TestWriteErrorResponse(t *testing.T) {
	t.Parallel()
	rr := httptest.NewRecorder()
	WriteErrorResponse(rr, "boom", http.StatusTeapot)

	assert.Equal(t, http.StatusTeapot, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "boom", body.Error)
}

func TestDecodeJSONBody(t *testing.T) {
	t.Parallel()

	type point struct {
		Latitude float64 `json:"latitude"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "valid", body: `{"latitude": 26.8}`},
		{name: "unknown field", body: `{"lat": 26.8}`, wantErr: "unknown field"},
		{name: "trailing data", body: `{"latitude": 1}{}`, wantErr: "trailing"},
		{name: "not json", body: `latitude=1`, wantErr: "invalid JSON"},
		{name: "too large", body: `{"latitude": 1, "pad": "` + strings.Repeat("x", MaxBodyBytes) + `"}`, wantErr: "exceeds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var p point
			err := DecodeJSONBody(httptest.NewRecorder(), req, &p)
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, 26.8, p.Latitude, 1e-9)
		})
	}
}
