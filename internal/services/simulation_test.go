package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dpup/prefab/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dpup/routesim/server/internal/lib/geo"
	"github.com/dpup/routesim/server/internal/lib/routing"
)

// MockProvider is a mock implementation of routing.Provider
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Routes(ctx context.Context, origin, destination routing.Location) ([]routing.Route, error) {
	args := m.Called(ctx, origin, destination)
	routes, _ := args.Get(0).([]routing.Route)
	return routes, args.Error(1)
}

var (
	origin      = routing.PointLocation(geo.Point{Latitude: 0, Longitude: 0})
	destination = routing.AddressLocation("somewhere east")
)

func TestSimulate_EquatorScenario(t *testing.T) {
	provider := &MockProvider{}
	provider.On("Routes", mock.Anything, origin, destination).Return(
		[]routing.Route{{EncodedPolyline: "???gE"}, {EncodedPolyline: "_p~iF~ps|U_ulLnnqC_mqNvxq`@"}}, nil).Once()

	service := NewSimulationService(provider)

	// 36 km/h is 10 m/s
	result, err := service.Simulate(context.Background(), SimulateRequest{Origin: origin, Destination: destination, SpeedKmh: 36})
	require.NoError(t, err)

	assert.Equal(t, 11, result.TotalDurationSeconds)
	require.Len(t, result.Steps, 12)
	assert.Equal(t, int64(10000), result.Steps[10].TimestampMs)
	final := result.Steps[11]
	assert.Equal(t, int64(11000), final.TimestampMs)
	assert.Equal(t, 0.0, final.Lat)
	assert.InDelta(t, 0.001, final.Lng, 1e-12)

	provider.AssertExpectations(t)
}

func TestSimulate_Deterministic(t *testing.T) {
	provider := &MockProvider{}
	provider.On("Routes", mock.Anything, origin, destination).Return(
		[]routing.Route{{EncodedPolyline: "_p~iF~ps|U_ulLnnqC_mqNvxq`@"}}, nil).Twice()

	service := NewSimulationService(provider)
	req := SimulateRequest{Origin: origin, Destination: destination, SpeedKmh: 900}

	first, err := service.Simulate(context.Background(), req)
	require.NoError(t, err)
	second, err := service.Simulate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	provider.AssertExpectations(t)
}

func TestSimulate_NoRoutes(t *testing.T) {
	provider := &MockProvider{}
	provider.On("Routes", mock.Anything, origin, destination).Return([]routing.Route{}, nil).Once()

	service := NewSimulationService(provider)

	result, err := service.Simulate(context.Background(), SimulateRequest{Origin: origin, Destination: destination, SpeedKmh: 50})
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrNoRouteFound)

	provider.AssertExpectations(t)
}

func TestSimulate_ProviderError(t *testing.T) {
	provider := &MockProvider{}
	provider.On("Routes", mock.Anything, origin, destination).Return(nil, errors.New("API error 403: key invalid")).Once()

	service := NewSimulationService(provider)

	result, err := service.Simulate(context.Background(), SimulateRequest{Origin: origin, Destination: destination, SpeedKmh: 50})
	assert.Nil(t, result)

	var collabErr *CollaboratorError
	require.True(t, errors.As(err, &collabErr))
	assert.Contains(t, collabErr.Err.Error(), "API error 403")

	provider.AssertExpectations(t)
}

func TestSimulate_MalformedPolyline(t *testing.T) {
	provider := &MockProvider{}
	provider.On("Routes", mock.Anything, origin, destination).Return(
		[]routing.Route{{EncodedPolyline: "_p~iF~ps|"}}, nil).Once()

	service := NewSimulationService(provider)

	result, err := service.Simulate(context.Background(), SimulateRequest{Origin: origin, Destination: destination, SpeedKmh: 50})
	assert.Nil(t, result)

	var decodeErr *geo.DecodeError
	assert.True(t, errors.As(err, &decodeErr))
}

func TestSimulate_ValidationMakesNoProviderCall(t *testing.T) {
	tests := []struct {
		name  string
		req   SimulateRequest
		field string
	}{
		{"missing origin", SimulateRequest{Destination: destination, SpeedKmh: 50}, "origin"},
		{"blank origin", SimulateRequest{Origin: routing.AddressLocation("  "), Destination: destination, SpeedKmh: 50}, "origin"},
		{"missing destination", SimulateRequest{Origin: origin, SpeedKmh: 50}, "destination"},
		{"missing speed", SimulateRequest{Origin: origin, Destination: destination}, "speedKmh"},
		{"negative speed", SimulateRequest{Origin: origin, Destination: destination, SpeedKmh: -10}, "speedKmh"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &MockProvider{}
			service := NewSimulationService(provider)

			result, err := service.Simulate(context.Background(), tt.req)
			assert.Nil(t, result)

			var validationErr *ValidationError
			require.True(t, errors.As(err, &validationErr))
			assert.Equal(t, tt.field, validationErr.Field)

			provider.AssertNotCalled(t, "Routes", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestSimulate_ContextPassedToProvider(t *testing.T) {
	type ctxKey struct{}
	ctx := context.WithValue(context.Background(), ctxKey{}, "req-1")

	provider := &MockProvider{}
	provider.On("Routes", mock.MatchedBy(func(c context.Context) bool {
		return c.Value(ctxKey{}) == "req-1"
	}), origin, destination).Return(nil, context.Canceled).Once()

	service := NewSimulationService(provider)

	_, err := service.Simulate(ctx, SimulateRequest{Origin: origin, Destination: destination, SpeedKmh: 50})
	assert.ErrorIs(t, err, context.Canceled)

	provider.AssertExpectations(t)
}

func TestSimulate_WithoutContextLogger(t *testing.T) {
	// Callers such as cmd/simulate pass a bare background context
	provider := &MockProvider{}
	provider.On("Routes", mock.Anything, origin, destination).Return([]routing.Route{}, nil).Once()
	provider.On("Routes", mock.Anything, origin, destination).Return(
		[]routing.Route{{EncodedPolyline: "???gE"}}, nil).Once()

	service := NewSimulationService(provider)
	req := SimulateRequest{Origin: origin, Destination: destination, SpeedKmh: 36}

	assert.NotPanics(t, func() {
		_, err := service.Simulate(context.Background(), req)
		assert.ErrorIs(t, err, ErrNoRouteFound)
	})
	assert.NotPanics(t, func() {
		result, err := service.Simulate(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 11, result.TotalDurationSeconds)
	})

	provider.AssertExpectations(t)
}

func TestSimulate_WithContextLogger(t *testing.T) {
	provider := &MockProvider{}
	provider.On("Routes", mock.Anything, origin, destination).Return(
		[]routing.Route{{EncodedPolyline: "???gE"}}, nil).Once()

	ctx := logging.With(context.Background(), logging.NewDevLogger())
	result, err := NewSimulationService(provider).Simulate(ctx, SimulateRequest{Origin: origin, Destination: destination, SpeedKmh: 36})
	require.NoError(t, err)
	assert.Len(t, result.Steps, 12)
}
