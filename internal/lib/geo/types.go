package geo

import "fmt"

// Point represents a geographic coordinate in decimal degrees
type Point struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// String formats the point as "lat,lng", the form Google accepts for waypoints
func (p Point) String() string {
	return fmt.Sprintf("%f,%f", p.Latitude, p.Longitude)
}

// DecodeError is returned when an encoded polyline is malformed
type DecodeError struct {
	Encoded string
	Err     error
}

func (e *DecodeError) Error() string {
	if e.Err == nil {
		return "failed to decode polyline"
	}
	return "failed to decode polyline: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
