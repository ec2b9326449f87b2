package simulation

import (
	"errors"
	"fmt"
)

// Step is a single simulated GPS fix. TimestampMs is relative to the trip start.
type Step struct {
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	TimestampMs int64   `json:"timestamp"`
}

// Result is a complete simulated trajectory
type Result struct {
	TotalDurationSeconds int    `json:"totalDurationSeconds"`
	Steps                []Step `json:"steps"`
}

// ErrEmptyPath is returned when there is nothing to resample
var ErrEmptyPath = errors.New("path has no points")

// InvalidSpeedError is returned for a speed that would make segment durations undefined
type InvalidSpeedError struct {
	SpeedMps float64
}

func (e *InvalidSpeedError) Error() string {
	return fmt.Sprintf("invalid speed %v m/s: must be positive", e.SpeedMps)
}
