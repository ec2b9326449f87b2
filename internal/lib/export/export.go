// Package export renders simulated trajectories in formats map tools understand.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/twpayne/go-kml"

	"github.com/dpup/routesim/server/internal/lib/simulation"
)

// Format identifies an output encoding
type Format string

const (
	FormatJSON    Format = "json"
	FormatGeoJSON Format = "geojson"
	FormatKML     Format = "kml"
)

// ParseFormat parses a format name; empty means JSON
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatJSON, nil
	case FormatJSON, FormatGeoJSON, FormatKML:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format %q", s)
	}
}

// ContentType returns the HTTP content type for the format
func (f Format) ContentType() string {
	switch f {
	case FormatGeoJSON:
		return "application/geo+json"
	case FormatKML:
		return "application/vnd.google-earth.kml+xml"
	default:
		return "application/json"
	}
}

// GeoJSON builds a FeatureCollection holding the traversed line and one point feature per step
func GeoJSON(result *simulation.Result) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	if len(result.Steps) >= 2 {
		line := make(orb.LineString, 0, len(result.Steps))
		for _, step := range result.Steps {
			line = append(line, orb.Point{step.Lng, step.Lat})
		}
		f := geojson.NewFeature(line)
		f.Properties["totalDurationSeconds"] = result.TotalDurationSeconds
		f.Properties["steps"] = len(result.Steps)
		fc.Append(f)
	}

	for i, step := range result.Steps {
		f := geojson.NewFeature(orb.Point{step.Lng, step.Lat})
		f.Properties["index"] = i
		f.Properties["timestamp"] = step.TimestampMs
		fc.Append(f)
	}

	return fc
}

// WriteKML writes the trajectory as a KML document. Steps are stamped relative to start.
func WriteKML(w io.Writer, result *simulation.Result, start time.Time) error {
	coords := make([]kml.Coordinate, 0, len(result.Steps))
	for _, step := range result.Steps {
		coords = append(coords, kml.Coordinate{Lon: step.Lng, Lat: step.Lat})
	}

	elements := []kml.Element{
		kml.Name("Simulated route"),
		kml.Description(fmt.Sprintf("%d steps, %d seconds", len(result.Steps), result.TotalDurationSeconds)),
		kml.Placemark(
			kml.Name("Route"),
			kml.LineString(
				kml.Tessellate(true),
				kml.Coordinates(coords...),
			),
		),
	}

	for i, step := range result.Steps {
		at := start.Add(time.Duration(step.TimestampMs) * time.Millisecond).UTC()
		elements = append(elements, kml.Placemark(
			kml.Name(fmt.Sprintf("Step %d", i)),
			kml.TimeStamp(kml.When(at)),
			kml.Point(kml.Coordinates(kml.Coordinate{Lon: step.Lng, Lat: step.Lat})),
		))
	}

	return kml.KML(kml.Document(elements...)).WriteIndent(w, "", "  ")
}
