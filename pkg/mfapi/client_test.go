package mfapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rgehrsitz/sipgo/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePayload = `{
  "meta": {"fund_house": "PPFAS Mutual Fund", "scheme_code": 122640, "scheme_name": "Parag Parikh Flexi Cap Fund - Direct Plan - Growth"},
  "data": [
    {"date": "17-10-2025", "nav": "92.45670"},
    {"date": "16-10-2025", "nav": "91.99120"}
  ],
  "status": "SUCCESS"
}`

func TestClient_LatestNAV(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(samplePayload))
	}))
	defer srv.Close()

	nav, err := NewClient(srv.URL + "/").LatestNAV(context.Background(), "122640")
	require.NoError(t, err)

	assert.Equal(t, "/mf/122640", gotPath)
	assert.Equal(t, "122640", nav.SchemeCode)
	assert.Equal(t, "Parag Parikh Flexi Cap Fund - Direct Plan - Growth", nav.SchemeName)
	assert.True(t, nav.Value.Equal(decimal.RequireFromString("92.4567")), "got %s", nav.Value)
	assert.Equal(t, time.Date(2025, 10, 17, 0, 0, 0, 0, time.UTC), nav.Date)
}

func TestClient_LatestNAV_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"server error", http.StatusInternalServerError, "", "status 500"},
		{"empty data", http.StatusOK, `{"meta":{},"data":[]}`, "no NAV data"},
		{"bad json", http.StatusOK, `{"meta":`, "decoding mfapi response"},
		{"bad nav", http.StatusOK, `{"data":[{"date":"17-10-2025","nav":"N.A."}]}`, "invalid NAV"},
		{"bad date", http.StatusOK, `{"data":[{"date":"2025/10/17","nav":"10.0"}]}`, "invalid NAV date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			nav, err := NewClient(srv.URL).LatestNAV(context.Background(), "1")
			assert.Nil(t, nav)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrUpstream))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestClient_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(samplePayload))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(srv.URL).LatestNAV(ctx, "122640")
	assert.Error(t, err)
}

func TestNewClient_DefaultBaseURL(t *testing.T) {
	assert.Equal(t, DefaultBaseURL, NewClient("").baseURL)
}
