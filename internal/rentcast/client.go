package rentcast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// CategorySold queries recently closed sales, the stronger comp
	// signal. CategoryActive queries current for-sale listings.
	CategorySold   = "sold"
	CategoryActive = "active"

	endpointResolve = "addresses/resolve"
	endpointSales   = "sales"
	endpointForSale = "listings/for-sale"
)

var (
	ErrAddressNotFound  = errors.New("address could not be resolved")
	ErrEndpointDisabled = errors.New("endpoint disabled for this session")
)

// ResolvedAddress is the geocoding result for the subject property.
type ResolvedAddress struct {
	Latitude       float64
	Longitude      float64
	DisplayAddress string
}

// Client is the thin adapter over the RentCast HTTP API. It performs
// no retries; a failed call is reported to the caller, and the comps
// aggregator treats such failures as empty result sets.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	session *Session
	logger  *logrus.Logger
}

func NewClient(baseURL, apiKey string, timeout time.Duration, session *Session, logger *logrus.Logger) *Client {
	if session == nil {
		session = NewSession()
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		session: session,
		logger:  logger,
	}
}

// ResolveAddress geocodes a free-text address to coordinates and a
// display form. Returns ErrAddressNotFound when the provider has no
// match.
func (c *Client) ResolveAddress(ctx context.Context, address string) (*ResolvedAddress, error) {
	params := url.Values{"address": []string{address}}

	var data struct {
		Latitude         float64 `json:"latitude"`
		Longitude        float64 `json:"longitude"`
		FormattedAddress string  `json:"formattedAddress"`
		AddressLine1     string  `json:"addressLine1"`
		City             string  `json:"city"`
		State            string  `json:"state"`
		ZipCode          string  `json:"zipCode"`
	}
	if err := c.get(ctx, endpointResolve, params, &data); err != nil {
		return nil, err
	}
	if data.Latitude == 0 && data.Longitude == 0 {
		return nil, ErrAddressNotFound
	}

	display := data.FormattedAddress
	if display == "" {
		display = fmt.Sprintf("%s, %s, %s %s", data.AddressLine1, data.City, data.State, data.ZipCode)
	}

	c.logger.WithFields(logrus.Fields{
		"address":   address,
		"latitude":  data.Latitude,
		"longitude": data.Longitude,
	}).Info("Resolved subject address")

	return &ResolvedAddress{
		Latitude:       data.Latitude,
		Longitude:      data.Longitude,
		DisplayAddress: display,
	}, nil
}

// QueryListings fetches raw comparable records near a point. Sold
// comps come from the sales endpoint, active comps from the for-sale
// endpoint; both are returned in the provider's own field shapes for
// the normalizer to canonicalize.
func (c *Client) QueryListings(ctx context.Context, lat, lon, radiusMiles float64, limit int, category string) ([]map[string]any, error) {
	endpoint := endpointSales
	params := url.Values{
		"latitude":  []string{strconv.FormatFloat(lat, 'f', -1, 64)},
		"longitude": []string{strconv.FormatFloat(lon, 'f', -1, 64)},
		"radius":    []string{strconv.FormatFloat(radiusMiles, 'f', -1, 64)},
		"sort":      []string{"distance"},
		"limit":     []string{strconv.Itoa(limit)},
	}
	if category == CategoryActive {
		endpoint = endpointForSale
		params.Set("status", "Active")
	}

	var records []map[string]any
	if err := c.get(ctx, endpoint, params, &records); err != nil {
		return nil, err
	}

	c.logger.WithFields(logrus.Fields{
		"category": category,
		"radius":   radiusMiles,
		"count":    len(records),
	}).Debug("Fetched comparable listings")

	return records, nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	if c.session.Disabled(endpoint) {
		return fmt.Errorf("%s: %w", endpoint, ErrEndpointDisabled)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.URL.RawQuery = params.Encode()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response from %s: %w", endpoint, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrAddressNotFound
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		// Credentials will not start working mid-session; stop hitting
		// this endpoint.
		c.session.Disable(endpoint)
		c.logger.WithFields(logrus.Fields{
			"endpoint": endpoint,
			"status":   resp.StatusCode,
		}).Warn("Endpoint disabled after authorization failure")
		return fmt.Errorf("%s returned status %d: %w", endpoint, resp.StatusCode, ErrEndpointDisabled)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%s returned status %d", endpoint, resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response from %s: %w", endpoint, err)
	}
	return nil
}
