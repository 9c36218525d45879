// Package geonames is a client for the GeoNames postalCodeSearch XML API,
// used to confirm that a ZIP code exists.
package geonames

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"

	"github.com/MaximilianIsing/SNAPwise-NYC/internal/fetcher"
	"github.com/MaximilianIsing/SNAPwise-NYC/internal/resilience"
)

const defaultBaseURL = "http://api.geonames.org"

// Client validates postal codes against GeoNames.
type Client interface {
	// PostalCodeExists reports whether GeoNames knows the postal code for
	// the given country.
	PostalCodeExists(ctx context.Context, postalCode, country string) (bool, error)
}

// statusElem is the error indicator GeoNames embeds in otherwise-200 responses.
type statusElem struct {
	Message string `xml:"message,attr"`
	Value   int    `xml:"value,attr"`
}

// codeElem is one postal code entry in a search response.
type codeElem struct {
	PostalCode string  `xml:"postalcode"`
	Name       string  `xml:"name"`
	Lat        float64 `xml:"lat"`
	Lng        float64 `xml:"lng"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	baseURL  string
	username string
	http     *http.Client
	circuit  *resilience.CircuitBreaker
}

// NewClient creates a GeoNames client. The username identifies the account
// per GeoNames API terms.
func NewClient(username string, opts ...Option) Client {
	c := &httpClient{
		baseURL:  defaultBaseURL,
		username: username,
		http:     &http.Client{Timeout: 10 * time.Second},
		circuit:  resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{}),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) PostalCodeExists(ctx context.Context, postalCode, country string) (bool, error) {
	return resilience.Execute(ctx, c.circuit, func(ctx context.Context) (bool, error) {
		return c.postalCodeExists(ctx, postalCode, country)
	})
}

func (c *httpClient) postalCodeExists(ctx context.Context, postalCode, country string) (bool, error) {
	params := url.Values{
		"postalcode": {postalCode},
		"country":    {country},
		"maxRows":    {"1"},
		"username":   {c.username},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/postalCodeSearch?"+params.Encode(), nil)
	if err != nil {
		return false, eris.Wrap(err, "geonames: build request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false, eris.Wrap(err, "geonames: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		err := eris.Errorf("geonames: status %d", resp.StatusCode)
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return false, resilience.NewTransientError(err, resp.StatusCode)
		}
		return false, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, eris.Wrap(err, "geonames: read body")
	}

	// GeoNames reports errors inside a 200 response as a <status> element.
	statuses, err := fetcher.DecodeElements[statusElem](bytes.NewReader(body), "status")
	if err != nil {
		return false, err
	}
	if len(statuses) > 0 {
		st := statuses[0]
		return false, eris.Errorf("geonames: api error %d: %s", st.Value, st.Message)
	}

	codes, err := fetcher.DecodeElements[codeElem](bytes.NewReader(body), "code")
	if err != nil {
		return false, err
	}
	return len(codes) > 0, nil
}
