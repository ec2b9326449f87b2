// Package simulation turns a decoded route into a once-per-second trajectory.
package simulation

import (
	"math"

	"github.com/dpup/routesim/server/internal/lib/geo"
)

// trajectory is the accumulator threaded through each segment
type trajectory struct {
	elapsedSeconds int
	steps          []Step
}

// Resample walks the path at a constant speed, emitting one interpolated sample per
// elapsed second and a final sample at the exact last vertex.
func Resample(path []geo.Point, speedMps float64) (*Result, error) {
	if !(speedMps > 0) || math.IsInf(speedMps, 1) {
		return nil, &InvalidSpeedError{SpeedMps: speedMps}
	}
	if len(path) == 0 {
		return nil, ErrEmptyPath
	}

	acc := trajectory{}
	for i := 0; i < len(path)-1; i++ {
		acc = advanceSegment(acc, path[i], path[i+1], speedMps)
	}

	last := path[len(path)-1]
	acc.steps = append(acc.steps, Step{
		Lat:         last.Latitude,
		Lng:         last.Longitude,
		TimestampMs: timestampMs(acc.elapsedSeconds),
	})

	return &Result{
		TotalDurationSeconds: acc.elapsedSeconds,
		Steps:                acc.steps,
	}, nil
}

// advanceSegment emits the samples that fall within [start, end) and returns the updated accumulator.
// A segment shorter than half a second of travel emits nothing and leaves the clock alone.
func advanceSegment(acc trajectory, start, end geo.Point, speedMps float64) trajectory {
	duration := geo.Distance(start, end) / speedMps
	n := int(math.Round(duration))

	for j := 0; j < n; j++ {
		p := geo.Interpolate(start, end, float64(j)/float64(n))
		acc.steps = append(acc.steps, Step{
			Lat:         p.Latitude,
			Lng:         p.Longitude,
			TimestampMs: timestampMs(acc.elapsedSeconds),
		})
		acc.elapsedSeconds++
	}

	return acc
}

func timestampMs(elapsedSeconds int) int64 {
	return int64(math.Round(float64(elapsedSeconds) * 1000))
}

// KmhToMps converts a speed in km/h to m/s
func KmhToMps(speedKmh float64) float64 {
	return speedKmh * 1000 / 3600
}
