package nominatim

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MaximilianIsing/SNAPwise-NYC/internal/resilience"
)

func TestSearchPostalCode(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantErr   bool
		transient bool
		wantLen   int
	}{
		{
			name:    "success",
			status:  http.StatusOK,
			body:    `[{"lat": "40.7506", "lon": "-73.9935", "display_name": "New York, NY 10001"}]`,
			wantLen: 1,
		},
		{
			name:    "no_results",
			status:  http.StatusOK,
			body:    `[]`,
			wantLen: 0,
		},
		{
			name:      "rate_limited",
			status:    http.StatusTooManyRequests,
			body:      `{}`,
			wantErr:   true,
			transient: true,
		},
		{
			name:    "forbidden",
			status:  http.StatusForbidden,
			body:    `{}`,
			wantErr: true,
		},
		{
			name:    "malformed_response",
			status:  http.StatusOK,
			body:    `{not json`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/search", r.URL.Path)
				assert.Equal(t, "10001", r.URL.Query().Get("postalcode"))
				assert.Equal(t, "us", r.URL.Query().Get("country"))
				assert.Equal(t, "json", r.URL.Query().Get("format"))
				assert.NotEmpty(t, r.Header.Get("User-Agent"))

				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient(WithBaseURL(srv.URL), WithRateLimit(1000))

			places, err := c.SearchPostalCode(context.Background(), "10001", "us")
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.transient, resilience.IsTransient(err))
				return
			}
			require.NoError(t, err)
			assert.Len(t, places, tt.wantLen)
		})
	}
}

func TestPlace_Coordinate(t *testing.T) {
	p := Place{Lat: "40.7506", Lon: "-73.9935"}
	lat, lon, err := p.Coordinate()
	require.NoError(t, err)
	assert.Equal(t, 40.7506, lat)
	assert.Equal(t, -73.9935, lon)

	_, _, err = Place{Lat: "north", Lon: "-73.99"}.Coordinate()
	assert.Error(t, err)

	_, _, err = Place{Lat: "40.75", Lon: "west"}.Coordinate()
	assert.Error(t, err)
}
