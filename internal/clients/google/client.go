package google

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dpup/routesim/server/internal/lib/routing"
)

// DefaultRoutesBaseURL is the Google Routes API v2 endpoint
const DefaultRoutesBaseURL = "https://routes.googleapis.com"

// routesFieldMask limits the response to what the simulator consumes
const routesFieldMask = "routes.duration,routes.distanceMeters,routes.polyline.encodedPolyline"

// HTTPDoer is the subset of *http.Client used by the clients
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client provides access to Google Routes API v2
type Client struct {
	apiKey     string
	httpClient HTTPDoer
	baseURL    string
	travelMode string
}

// NewClientWithHTTPDoer creates a Google Routes API client. An empty baseURL uses Google's endpoint.
func NewClientWithHTTPDoer(apiKey, baseURL string, doer HTTPDoer) *Client {
	if baseURL == "" {
		baseURL = DefaultRoutesBaseURL
	}
	return &Client{
		apiKey:     apiKey,
		httpClient: doer,
		baseURL:    strings.TrimRight(baseURL, "/"),
		travelMode: "DRIVE",
	}
}

// WithTravelMode sets the Routes API travel mode (DRIVE, WALK, BICYCLE, TWO_WHEELER)
func (c *Client) WithTravelMode(mode string) *Client {
	if mode != "" {
		c.travelMode = mode
	}
	return c
}

// Routes computes routes between origin and destination. Locations given as
// addresses are passed through verbatim; Google geocodes them.
func (c *Client) Routes(ctx context.Context, origin, destination routing.Location) ([]routing.Route, error) {
	requestBody := map[string]interface{}{
		"origin":           waypoint(origin),
		"destination":      waypoint(destination),
		"travelMode":       c.travelMode,
		"polylineQuality":  "OVERVIEW",
		"polylineEncoding": "ENCODED_POLYLINE",
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/directions/v2:computeRoutes", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Field mask is required, the API rejects requests without one
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", routesFieldMask)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("rate limit exceeded")
	}
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))
	}

	var response GoogleRoutesResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	routes := make([]routing.Route, 0, len(response.Routes))
	for _, r := range response.Routes {
		route, err := processRoute(r)
		if err != nil {
			return nil, err
		}
		routes = append(routes, route)
	}
	return routes, nil
}

func waypoint(loc routing.Location) map[string]interface{} {
	if loc.Point != nil {
		return map[string]interface{}{
			"location": map[string]interface{}{
				"latLng": map[string]interface{}{
					"latitude":  loc.Point.Latitude,
					"longitude": loc.Point.Longitude,
				},
			},
		}
	}
	return map[string]interface{}{"address": loc.Address}
}

// processRoute converts a Google Routes API route to routing.Route
func processRoute(route GoogleRoute) (routing.Route, error) {
	var durationSeconds int32
	if route.Duration != "" {
		var err error
		durationSeconds, err = parseDuration(route.Duration)
		if err != nil {
			return routing.Route{}, fmt.Errorf("failed to parse duration: %w", err)
		}
	}

	return routing.Route{
		EncodedPolyline: route.Polyline.EncodedPolyline,
		DistanceMeters:  route.DistanceMeters,
		DurationSeconds: durationSeconds,
	}, nil
}

// parseDuration parses Google's duration format like "450s" to seconds
func parseDuration(durationStr string) (int32, error) {
	if durationStr == "" {
		return 0, fmt.Errorf("empty duration string")
	}

	durationStr = strings.TrimSuffix(durationStr, "s")

	var seconds int32
	_, err := fmt.Sscanf(durationStr, "%d", &seconds)
	return seconds, err
}

// GoogleRoutesResponse represents the API response structure
type GoogleRoutesResponse struct {
	Routes []GoogleRoute `json:"routes"`
}

// GoogleRoute represents a single route in the response
type GoogleRoute struct {
	Duration       string         `json:"duration"`
	DistanceMeters int32          `json:"distanceMeters"`
	Polyline       GooglePolyline `json:"polyline"`
}

// GooglePolyline represents the route polyline
type GooglePolyline struct {
	EncodedPolyline string `json:"encodedPolyline"`
}
