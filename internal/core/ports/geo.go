package ports

import (
	"context"

	"freight/internal/core/domain/model/kernel"
)

// Geocoder resolves human-readable addresses to coordinates via an
// external service. Returns an object-not-found error for addresses the
// service cannot resolve and an upstream-failure error when the service
// itself misbehaves.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (kernel.GeoPoint, error)
}

// Route is the result of routing through an ordered list of waypoints.
type Route struct {
	DistanceKm  float64
	DurationMin float64
	Polyline    string
}

// Router computes the driving route through the given waypoints via an
// external routing service. At least two waypoints are required.
type Router interface {
	Route(ctx context.Context, waypoints []kernel.GeoPoint) (Route, error)
}
