// Package geoapi provides HTTP clients for the external geo services: the
// geocoder that resolves pickup and drop addresses, and the router that
// estimates distance and duration through the stop sequence.
package geoapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
)

const defaultTimeout = 10 * time.Second

// Geocoder resolves addresses to coordinates through the geocoding service.
type Geocoder struct {
	baseURL string
	client  *http.Client
}

// NewGeocoder creates a geocoding client for the given base URL.
func NewGeocoder(baseURL string) (*Geocoder, error) {
	if baseURL == "" {
		return nil, errs.NewValueIsRequiredError("baseURL")
	}

	return &Geocoder{
		baseURL: baseURL,
		client:  &http.Client{Timeout: defaultTimeout},
	}, nil
}

type geocodeResponse struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Geocode resolves one address. An address the service does not know yields
// an object-not-found error; service misbehavior yields an upstream-failure
// error so callers can tell a bad address from a bad day.
func (g *Geocoder) Geocode(ctx context.Context, address string) (kernel.GeoPoint, error) {
	if address == "" {
		return kernel.GeoPoint{}, errs.NewValueIsRequiredError("address")
	}

	endpoint := fmt.Sprintf("%s/geocode?address=%s", g.baseURL, url.QueryEscape(address))
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return kernel.GeoPoint{}, err
	}

	response, err := g.client.Do(request)
	if err != nil {
		return kernel.GeoPoint{}, errs.NewUpstreamFailureErrorWithCause("geocoding service", err)
	}
	defer response.Body.Close()

	switch {
	case response.StatusCode == http.StatusNotFound:
		return kernel.GeoPoint{}, errs.NewObjectNotFoundError("address", address)
	case response.StatusCode != http.StatusOK:
		return kernel.GeoPoint{}, errs.NewUpstreamFailureErrorWithCause("geocoding service",
			fmt.Errorf("unexpected status %d", response.StatusCode))
	}

	var body geocodeResponse
	if err := json.NewDecoder(response.Body).Decode(&body); err != nil {
		return kernel.GeoPoint{}, errs.NewUpstreamFailureErrorWithCause("geocoding service", err)
	}

	point, err := kernel.NewGeoPoint(body.Lat, body.Lng)
	if err != nil {
		return kernel.GeoPoint{}, errs.NewUpstreamFailureErrorWithCause("geocoding service", err)
	}

	return point, nil
}
