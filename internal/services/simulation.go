package services

import (
	"context"
	"fmt"
	"math"

	"github.com/dpup/prefab/logging"

	"github.com/dpup/routesim/server/internal/lib/geo"
	"github.com/dpup/routesim/server/internal/lib/routing"
	"github.com/dpup/routesim/server/internal/lib/simulation"
)

// SimulateRequest is the input of a route simulation
type SimulateRequest struct {
	Origin      routing.Location `json:"origin"`
	Destination routing.Location `json:"destination"`
	SpeedKmh    float64          `json:"speedKmh"`
}

// Validate checks that all three inputs are present and the speed is usable
func (r SimulateRequest) Validate() error {
	if r.Origin.IsZero() {
		return &ValidationError{Field: "origin", Reason: ReasonRequired}
	}
	if r.Destination.IsZero() {
		return &ValidationError{Field: "destination", Reason: ReasonRequired}
	}
	if r.SpeedKmh == 0 {
		return &ValidationError{Field: "speedKmh", Reason: ReasonRequired}
	}
	if !(r.SpeedKmh > 0) || math.IsInf(r.SpeedKmh, 1) {
		return &ValidationError{Field: "speedKmh", Reason: "must be a positive number"}
	}
	return nil
}

// SimulationService turns a Google route into a simulated GPS trajectory
type SimulationService struct {
	provider routing.Provider
}

// NewSimulationService creates a new SimulationService
func NewSimulationService(provider routing.Provider) *SimulationService {
	return &SimulationService{provider: provider}
}

// Simulate fetches a route from the provider, decodes its overview polyline and resamples
// it at the requested speed. Each call makes exactly one provider request.
func (s *SimulationService) Simulate(ctx context.Context, req SimulateRequest) (*simulation.Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Callers outside the prefab server (CLI, tests) may not carry a logger
	ctx = logging.EnsureLogger(ctx)

	speedMps := simulation.KmhToMps(req.SpeedKmh)

	routes, err := s.provider.Routes(ctx, req.Origin, req.Destination)
	if err != nil {
		return nil, &CollaboratorError{Err: err}
	}
	if len(routes) == 0 {
		logging.Infow(ctx, "No route found",
			"origin", req.Origin.String(), "destination", req.Destination.String())
		return nil, ErrNoRouteFound
	}

	path, err := geo.DecodePolyline(routes[0].EncodedPolyline)
	if err != nil {
		return nil, err
	}

	result, err := simulation.Resample(path, speedMps)
	if err != nil {
		return nil, fmt.Errorf("failed to resample route: %w", err)
	}

	logging.Infow(ctx, "Route simulated",
		"origin", req.Origin.String(),
		"destination", req.Destination.String(),
		"speed_kmh", req.SpeedKmh,
		"vertices", len(path),
		"path_length_meters", math.Round(geo.PathLength(path)),
		"route_distance_meters", routes[0].DistanceMeters,
		"route_duration_seconds", routes[0].DurationSeconds,
		"simulated_duration_seconds", result.TotalDurationSeconds,
		"steps", len(result.Steps))

	return result, nil
}
