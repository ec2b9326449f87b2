package google

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"googlemaps.github.io/maps"

	"github.com/dpup/routesim/server/internal/lib/routing"
)

// DirectionsClient provides access to the legacy Google Directions API, which
// returns an overview polyline per route.
type DirectionsClient struct {
	client *maps.Client
	mode   maps.Mode
}

// NewDirectionsClient creates a Directions API client. baseURL may be empty to use Google's default.
func NewDirectionsClient(apiKey, baseURL string, timeout time.Duration) (*DirectionsClient, error) {
	return NewDirectionsClientWithHTTPClient(apiKey, baseURL, &http.Client{Timeout: timeout})
}

// NewDirectionsClientWithHTTPClient creates a Directions API client with a custom transport
func NewDirectionsClientWithHTTPClient(apiKey, baseURL string, httpClient *http.Client) (*DirectionsClient, error) {
	opts := []maps.ClientOption{
		maps.WithAPIKey(apiKey),
		maps.WithHTTPClient(httpClient),
	}
	if baseURL != "" {
		opts = append(opts, maps.WithBaseURL(strings.TrimRight(baseURL, "/")))
	}

	client, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create directions client: %w", err)
	}

	return &DirectionsClient{client: client, mode: maps.TravelModeDriving}, nil
}

// WithTravelMode maps Routes API travel modes onto Directions API modes
func (d *DirectionsClient) WithTravelMode(mode string) *DirectionsClient {
	switch strings.ToUpper(mode) {
	case "WALK":
		d.mode = maps.TravelModeWalking
	case "BICYCLE":
		d.mode = maps.TravelModeBicycling
	case "DRIVE", "TWO_WHEELER", "":
		d.mode = maps.TravelModeDriving
	}
	return d
}

// Routes requests directions between origin and destination
func (d *DirectionsClient) Routes(ctx context.Context, origin, destination routing.Location) ([]routing.Route, error) {
	req := &maps.DirectionsRequest{
		Origin:      origin.String(),
		Destination: destination.String(),
		Mode:        d.mode,
	}

	routes, _, err := d.client.Directions(ctx, req)
	if err != nil {
		// Older client versions surface ZERO_RESULTS as an error
		if strings.Contains(err.Error(), "ZERO_RESULTS") {
			return []routing.Route{}, nil
		}
		return nil, fmt.Errorf("directions request failed: %w", err)
	}

	result := make([]routing.Route, 0, len(routes))
	for _, r := range routes {
		route := routing.Route{EncodedPolyline: r.OverviewPolyline.Points}
		for _, leg := range r.Legs {
			route.DistanceMeters += int32(leg.Distance.Meters)
			route.DurationSeconds += int32(leg.Duration.Seconds())
		}
		result = append(result, route)
	}
	return result, nil
}
