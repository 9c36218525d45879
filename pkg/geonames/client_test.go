package geonames

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const foundXML = `<?xml version="1.0" encoding="UTF-8"?>
<geonames>
  <totalResultsCount>1</totalResultsCount>
  <code>
    <postalcode>10001</postalcode>
    <name>New York</name>
    <lat>40.75064</lat>
    <lng>-73.99728</lng>
  </code>
</geonames>`

const emptyXML = `<?xml version="1.0" encoding="UTF-8"?>
<geonames>
  <totalResultsCount>0</totalResultsCount>
</geonames>`

const errorXML = `<?xml version="1.0" encoding="UTF-8"?>
<geonames>
  <status message="user account not enabled to use the free webservice" value="10"/>
</geonames>`

func TestPostalCodeExists(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    bool
		wantErr string
	}{
		{name: "found", status: http.StatusOK, body: foundXML, want: true},
		{name: "not_found", status: http.StatusOK, body: emptyXML, want: false},
		{name: "api_error_in_200", status: http.StatusOK, body: errorXML, wantErr: "api error 10"},
		{name: "server_error", status: http.StatusInternalServerError, body: "", wantErr: "status 500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/postalCodeSearch", r.URL.Path)
				assert.Equal(t, "10001", r.URL.Query().Get("postalcode"))
				assert.Equal(t, "testuser", r.URL.Query().Get("username"))
				assert.Equal(t, "1", r.URL.Query().Get("maxRows"))

				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient("testuser", WithBaseURL(srv.URL))

			got, err := c.PostalCodeExists(context.Background(), "10001", "us")
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
