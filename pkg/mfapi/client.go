// Package mfapi is a small client for the public mfapi.in mutual fund NAV API.
package mfapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rgehrsitz/sipgo/internal/domain"
	"github.com/shopspring/decimal"
)

// DefaultBaseURL is the public API root
const DefaultBaseURL = "https://api.mfapi.in"

// dateLayout is the dd-mm-yyyy format the API publishes
const dateLayout = "02-01-2006"

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for baseURL; empty uses DefaultBaseURL
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SchemeResponse is the payload of GET /mf/<code>
type SchemeResponse struct {
	Meta struct {
		FundHouse      string `json:"fund_house"`
		SchemeType     string `json:"scheme_type"`
		SchemeCategory string `json:"scheme_category"`
		SchemeCode     int64  `json:"scheme_code"`
		SchemeName     string `json:"scheme_name"`
	} `json:"meta"`
	Data []struct {
		Date string `json:"date"`
		NAV  string `json:"nav"`
	} `json:"data"`
	Status string `json:"status"`
}

// Scheme fetches the full NAV history of a scheme, newest first
func (c *Client) Scheme(ctx context.Context, schemeCode string) (*SchemeResponse, error) {
	endpoint := fmt.Sprintf("%s/mf/%s", c.baseURL, url.PathEscape(schemeCode))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: mfapi request for %s: %v", domain.ErrUpstream, schemeCode, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: mfapi returned status %d for %s", domain.ErrUpstream, resp.StatusCode, schemeCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var scheme SchemeResponse
	if err := json.Unmarshal(body, &scheme); err != nil {
		return nil, fmt.Errorf("%w: decoding mfapi response for %s: %v", domain.ErrUpstream, schemeCode, err)
	}
	return &scheme, nil
}

// LatestNAV returns the most recent published NAV of a scheme
func (c *Client) LatestNAV(ctx context.Context, schemeCode string) (*domain.NAV, error) {
	scheme, err := c.Scheme(ctx, schemeCode)
	if err != nil {
		return nil, err
	}
	if len(scheme.Data) == 0 {
		return nil, fmt.Errorf("%w: no NAV data returned for scheme %s", domain.ErrUpstream, schemeCode)
	}

	latest := scheme.Data[0]
	value, err := decimal.NewFromString(latest.NAV)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid NAV %q for scheme %s", domain.ErrUpstream, latest.NAV, schemeCode)
	}
	date, err := time.Parse(dateLayout, latest.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid NAV date %q for scheme %s", domain.ErrUpstream, latest.Date, schemeCode)
	}

	return &domain.NAV{
		SchemeCode: schemeCode,
		SchemeName: scheme.Meta.SchemeName,
		Value:      value,
		Date:       date,
	}, nil
}
