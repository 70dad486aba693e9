// Package directions fetches driving routes from the Mapbox Directions API
// and normalizes them into coordinate paths with distance and duration.
package directions

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"

	"github.com/NERVsystems/inkmap/pkg/geo"
	"github.com/NERVsystems/inkmap/pkg/mapbox"
)

// Route is a normalized driving route. Geometry is the line path in
// longitude-first coordinates; Legs are passed through opaque for the
// presentation layer.
type Route struct {
	Geometry        []geo.Coordinate `json:"geometry"`
	DistanceMeters  float64          `json:"distance"`
	DurationSeconds float64          `json:"duration"`
	Legs            json.RawMessage  `json:"legs,omitempty"`
}

// RouteError is a typed failure from the routing provider: the response
// arrived but its code was not "Ok".
type RouteError struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *RouteError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("routing failed (%s): %s", e.Code, e.Message)
	}
	return fmt.Sprintf("routing failed (%s)", e.Code)
}

// Provider is the slice of the Mapbox client the fetcher needs.
type Provider interface {
	Directions(ctx context.Context, origin, destination geo.Coordinate) (*mapbox.DirectionsResponse, error)
}

// Fetcher requests single routes between two points. Unlike search,
// routing failures propagate to the caller: a route is a discrete user
// action with a visible failure state, and an empty route is not a
// meaningful degradation.
type Fetcher struct {
	provider Provider
	logger   *slog.Logger
}

// NewFetcher creates a route fetcher over the given provider.
func NewFetcher(provider Provider, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		provider: provider,
		logger:   logger.With("component", "directions"),
	}
}

// samePoint reports whether two coordinates coincide within floating
// tolerance.
func samePoint(a, b geo.Coordinate) bool {
	return math.Abs(a.Longitude-b.Longitude) < 1e-9 &&
		math.Abs(a.Latitude-b.Latitude) < 1e-9
}

// Route fetches a driving route from origin to destination. Identical
// endpoints short-circuit to a zero-length route without a network call.
func (f *Fetcher) Route(ctx context.Context, origin, destination geo.Coordinate) (*Route, error) {
	if err := origin.Validate(); err != nil {
		return nil, fmt.Errorf("origin: %w", err)
	}
	if err := destination.Validate(); err != nil {
		return nil, fmt.Errorf("destination: %w", err)
	}

	// Degenerate route: origin and destination coincide.
	if samePoint(origin, destination) {
		return &Route{Geometry: []geo.Coordinate{origin}}, nil
	}

	resp, err := f.provider.Directions(ctx, origin, destination)
	if err != nil {
		return nil, fmt.Errorf("fetch directions: %w", err)
	}

	if resp.Code != "Ok" {
		f.logger.Warn("routing service error", "code", resp.Code, "message", resp.Message)
		return nil, &RouteError{Code: resp.Code, Message: resp.Message}
	}
	if len(resp.Routes) == 0 {
		return nil, &RouteError{Code: "NoRoute", Message: "no routes in response"}
	}

	best := resp.Routes[0]
	geometry, err := mapbox.DecodeGeometry(best.Geometry)
	if err != nil {
		return nil, fmt.Errorf("decode route geometry: %w", err)
	}

	return &Route{
		Geometry:        geometry,
		DistanceMeters:  best.Distance,
		DurationSeconds: best.Duration,
		Legs:            best.Legs,
	}, nil
}
