package geoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
)

// Router computes driving routes through the routing service.
type Router struct {
	baseURL string
	client  *http.Client
}

// NewRouter creates a routing client for the given base URL.
func NewRouter(baseURL string) (*Router, error) {
	if baseURL == "" {
		return nil, errs.NewValueIsRequiredError("baseURL")
	}

	return &Router{
		baseURL: baseURL,
		client:  &http.Client{Timeout: defaultTimeout},
	}, nil
}

type waypointPayload struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type routeRequest struct {
	Waypoints []waypointPayload `json:"waypoints"`
}

type routeResponse struct {
	DistanceKm  float64 `json:"distanceKm"`
	DurationMin float64 `json:"durationMin"`
	Polyline    string  `json:"polyline"`
}

// Route computes the route through the waypoints in order. At least two
// waypoints are required.
func (r *Router) Route(ctx context.Context, waypoints []kernel.GeoPoint) (ports.Route, error) {
	if len(waypoints) < 2 {
		return ports.Route{}, errs.NewValueIsInvalidErrorWithCause("waypoints",
			fmt.Errorf("need at least 2 waypoints, got %d", len(waypoints)))
	}

	payload := routeRequest{Waypoints: make([]waypointPayload, 0, len(waypoints))}
	for _, waypoint := range waypoints {
		payload.Waypoints = append(payload.Waypoints, waypointPayload{
			Lat: waypoint.Lat(),
			Lng: waypoint.Lng(),
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return ports.Route{}, err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost,
		r.baseURL+"/route", bytes.NewReader(body))
	if err != nil {
		return ports.Route{}, err
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := r.client.Do(request)
	if err != nil {
		return ports.Route{}, errs.NewUpstreamFailureErrorWithCause("routing service", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return ports.Route{}, errs.NewUpstreamFailureErrorWithCause("routing service",
			fmt.Errorf("unexpected status %d", response.StatusCode))
	}

	var result routeResponse
	if err := json.NewDecoder(response.Body).Decode(&result); err != nil {
		return ports.Route{}, errs.NewUpstreamFailureErrorWithCause("routing service", err)
	}

	if result.DistanceKm <= 0 {
		return ports.Route{}, errs.NewUpstreamFailureErrorWithCause("routing service",
			fmt.Errorf("non-positive distance %f", result.DistanceKm))
	}

	return ports.Route{
		DistanceKm:  result.DistanceKm,
		DurationMin: result.DurationMin,
		Polyline:    result.Polyline,
	}, nil
}
