package google

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpup/routesim/server/internal/lib/routing"
)

func newDirectionsServer(t *testing.T, body string, captured *url.Values) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/maps/api/directions/json", r.URL.Path)
		if captured != nil {
			*captured = r.URL.Query()
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestDirections_Success(t *testing.T) {
	var query url.Values
	server := newDirectionsServer(t, loadTestFixture(t, "directions_angels_murphys.json"), &query)

	client, err := NewDirectionsClient("test-api-key", server.URL, 5*time.Second)
	require.NoError(t, err)

	routes, err := client.Routes(context.Background(), routing.AddressLocation("Angels Camp, CA"), murphys)
	require.NoError(t, err)
	require.Len(t, routes, 1)

	assert.Equal(t, "_p~iF~ps|U_ulLnnqC_mqNvxq`@", routes[0].EncodedPolyline)
	assert.Equal(t, int32(12874), routes[0].DistanceMeters)
	assert.Equal(t, int32(812), routes[0].DurationSeconds)

	assert.Equal(t, "Angels Camp, CA", query.Get("origin"))
	assert.Equal(t, "38.139100,-120.456100", query.Get("destination"))
	assert.Equal(t, "test-api-key", query.Get("key"))
	assert.Equal(t, "driving", query.Get("mode"))
}

func TestDirections_ZeroResults(t *testing.T) {
	server := newDirectionsServer(t, `{"geocoded_waypoints": [], "routes": [], "status": "ZERO_RESULTS"}`, nil)

	client, err := NewDirectionsClient("test-api-key", server.URL, 5*time.Second)
	require.NoError(t, err)

	routes, err := client.Routes(context.Background(), angelsCamp, murphys)
	require.NoError(t, err)
	assert.Empty(t, routes)
}

func TestDirections_RequestDenied(t *testing.T) {
	server := newDirectionsServer(t, `{"routes": [], "status": "REQUEST_DENIED", "error_message": "The provided API key is invalid."}`, nil)

	client, err := NewDirectionsClient("bad-key", server.URL, 5*time.Second)
	require.NoError(t, err)

	routes, err := client.Routes(context.Background(), angelsCamp, murphys)
	assert.Nil(t, routes)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REQUEST_DENIED")
}

func TestDirections_TravelMode(t *testing.T) {
	var query url.Values
	server := newDirectionsServer(t, loadTestFixture(t, "directions_angels_murphys.json"), &query)

	client, err := NewDirectionsClient("test-api-key", server.URL, 5*time.Second)
	require.NoError(t, err)
	client.WithTravelMode("WALK")

	_, err = client.Routes(context.Background(), angelsCamp, murphys)
	require.NoError(t, err)
	assert.Equal(t, "walking", query.Get("mode"))
}

func TestDirections_MissingAPIKey(t *testing.T) {
	_, err := NewDirectionsClient("", "", time.Second)
	assert.Error(t, err)
}
