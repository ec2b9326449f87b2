package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dpup/routesim/server/internal/lib/geo"
)

// Location is a route endpoint: either a place name / address passed through
// verbatim to the routing provider, or a coordinate.
type Location struct {
	Address string
	Point   *geo.Point
}

// AddressLocation creates a Location from a place name or address
func AddressLocation(address string) Location {
	return Location{Address: address}
}

// PointLocation creates a Location from a coordinate
func PointLocation(p geo.Point) Location {
	return Location{Point: &p}
}

// IsZero reports whether the location is missing
func (l Location) IsZero() bool {
	return l.Point == nil && strings.TrimSpace(l.Address) == ""
}

// String returns the form used in Google waypoint strings and log lines
func (l Location) String() string {
	if l.Point != nil {
		return l.Point.String()
	}
	return l.Address
}

// UnmarshalJSON accepts a string, a {"lat","lng"} object or a {"latitude","longitude"} object
func (l *Location) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*l = Location{}

	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch data[0] {
	case '"':
		return json.Unmarshal(data, &l.Address)
	case '{':
		var raw struct {
			Lat       *float64 `json:"lat"`
			Lng       *float64 `json:"lng"`
			Latitude  *float64 `json:"latitude"`
			Longitude *float64 `json:"longitude"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("invalid coordinate: %w", err)
		}
		lat, lng := raw.Lat, raw.Lng
		if lat == nil {
			lat = raw.Latitude
		}
		if lng == nil {
			lng = raw.Longitude
		}
		if lat == nil || lng == nil {
			// Incomplete coordinates are treated as missing
			return nil
		}
		l.Point = &geo.Point{Latitude: *lat, Longitude: *lng}
		return nil
	default:
		return fmt.Errorf("location must be a string or a coordinate object")
	}
}

// MarshalJSON writes the address string or the coordinate object
func (l Location) MarshalJSON() ([]byte, error) {
	if l.Point != nil {
		return json.Marshal(l.Point)
	}
	return json.Marshal(l.Address)
}

// Route is a single route returned by a provider
type Route struct {
	EncodedPolyline string
	DistanceMeters  int32
	DurationSeconds int32
}

// Provider computes routes between two locations. It returns an empty slice, not an
// error, when the provider found no route.
type Provider interface {
	Routes(ctx context.Context, origin, destination Location) ([]Route, error)
}
