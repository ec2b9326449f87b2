package geo

import (
	"errors"
	"fmt"
	"math"

	"github.com/twpayne/go-polyline"
)

// EarthRadiusMeters is the mean Earth radius used by the haversine formula
const EarthRadiusMeters = 6371000

// Distance calculates great-circle distance in meters between two points using the Haversine formula.
// Coordinates are not validated; out-of-range input yields a defined but meaningless result.
func Distance(p1, p2 Point) float64 {
	if p1 == p2 {
		return 0
	}

	lat1 := p1.Latitude * math.Pi / 180
	lat2 := p2.Latitude * math.Pi / 180
	dlat := (p2.Latitude - p1.Latitude) * math.Pi / 180
	dlon := (p2.Longitude - p1.Longitude) * math.Pi / 180

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

// Interpolate returns the point at fraction t along the straight line from start to end.
// Latitude and longitude are interpolated independently; t=0 returns start, t=1 returns end.
func Interpolate(start, end Point, t float64) Point {
	return Point{
		Latitude:  start.Latitude + (end.Latitude-start.Latitude)*t,
		Longitude: start.Longitude + (end.Longitude-start.Longitude)*t,
	}
}

// PathLength sums the segment distances of a path in meters
func PathLength(points []Point) float64 {
	total := 0.0
	for i := 0; i < len(points)-1; i++ {
		total += Distance(points[i], points[i+1])
	}
	return total
}

// DecodePolyline decodes a Google encoded polyline (1e5 precision) into its vertices
func DecodePolyline(encoded string) ([]Point, error) {
	if encoded == "" {
		return nil, &DecodeError{Encoded: encoded, Err: errors.New("encoded polyline string is empty")}
	}

	coords, rest, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, &DecodeError{Encoded: encoded, Err: err}
	}
	if len(rest) > 0 {
		return nil, &DecodeError{Encoded: encoded, Err: fmt.Errorf("%d trailing bytes", len(rest))}
	}
	if len(coords) == 0 {
		return nil, &DecodeError{Encoded: encoded, Err: errors.New("no coordinates decoded")}
	}

	points := make([]Point, len(coords))
	for i, coord := range coords {
		points[i] = Point{
			Latitude:  coord[0],
			Longitude: coord[1],
		}
	}

	return points, nil
}
