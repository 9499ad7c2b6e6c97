// Package forecast fits a seasonal-additive exponential smoother to an
// annual funding series and projects it one period forward. The model
// carries a level, an additive trend, and an additive seasonal component
// with a fixed season length.
package forecast

import (
	"errors"
	"fmt"
	"math"
)

// DefaultSeasonLength is the seasonal period of the funding series.
const DefaultSeasonLength = 4

// MovingAverageWindow is the trailing window of the auxiliary smoothing
// signal.
const MovingAverageWindow = 3

// ErrInsufficientHistory reports that the series is too short to fit the
// seasonal model. Callers must handle it explicitly; a silently missing
// forecast is a presentation decision, not a core one.
var ErrInsufficientHistory = errors.New("insufficient history to fit seasonal model")

// Point is the one-step-ahead estimate: the period immediately following the
// last observed period and its forecast value.
type Point struct {
	Period int     `json:"period"`
	Value  float64 `json:"value"`
}

// Config holds the smoothing coefficients and season length.
type Config struct {
	Alpha        float64 // level
	Beta         float64 // trend
	Gamma        float64 // seasonal
	SeasonLength int
}

// DefaultConfig returns the coefficients used when the caller does not
// override them.
func DefaultConfig() Config {
	return Config{Alpha: 0.5, Beta: 0.3, Gamma: 0.3, SeasonLength: DefaultSeasonLength}
}

// Forecast fits the additive Holt-Winters model to values, a time-ordered
// series of consecutive periods ending at lastPeriod, and returns the single
// point for lastPeriod+1. The fit needs at least two full seasonal cycles;
// shorter input returns ErrInsufficientHistory.
func Forecast(values []float64, lastPeriod int, cfg Config) (Point, error) {
	m := cfg.SeasonLength
	if m <= 1 {
		return Point{}, fmt.Errorf("invalid season length %d", m)
	}
	if len(values) < 2*m {
		return Point{}, fmt.Errorf("%d observations with season length %d: %w",
			len(values), m, ErrInsufficientHistory)
	}

	// Initial state from the first two cycles: the level is the first-cycle
	// mean, the trend averages the cycle-over-cycle change per period, and
	// the seasonal offsets are the first cycle's deviations from the level.
	var level float64
	for _, v := range values[:m] {
		level += v
	}
	level /= float64(m)

	var trend float64
	for i := 0; i < m; i++ {
		trend += (values[m+i] - values[i]) / float64(m)
	}
	trend /= float64(m)

	seasonal := make([]float64, m)
	for i := 0; i < m; i++ {
		seasonal[i] = values[i] - level
	}

	for t := m; t < len(values); t++ {
		v := values[t]
		s := t % m
		prevLevel := level
		level = cfg.Alpha*(v-seasonal[s]) + (1-cfg.Alpha)*(level+trend)
		trend = cfg.Beta*(level-prevLevel) + (1-cfg.Beta)*trend
		seasonal[s] = cfg.Gamma*(v-level) + (1-cfg.Gamma)*seasonal[s]
	}

	return Point{
		Period: lastPeriod + 1,
		Value:  level + trend + seasonal[len(values)%m],
	}, nil
}

// MovingAverage returns the trailing simple moving average of values,
// aligned with the input. Positions before the window fills are NaN.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	for i := range out {
		if i < window-1 {
			out[i] = math.NaN()
			continue
		}
		var sum float64
		for j := i - window + 1; j <= i; j++ {
			sum += values[j]
		}
		out[i] = sum / float64(window)
	}
	return out
}
