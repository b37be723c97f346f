package core

import "math"

// Interval is a half-open range [Min, Max) of ray parameters
type Interval struct {
	Min, Max float64
}

// NewInterval creates a new interval
func NewInterval(minVal, maxVal float64) Interval {
	return Interval{Min: minVal, Max: maxVal}
}

// Forward returns the interval [tMin, +Inf), the usual search range for a fresh ray
func Forward(tMin float64) Interval {
	return Interval{Min: tMin, Max: math.Inf(1)}
}

// Contains reports whether Min <= t < Max
func (i Interval) Contains(t float64) bool {
	return i.Min <= t && t < i.Max
}

// Surrounds reports whether Min < t < Max
func (i Interval) Surrounds(t float64) bool {
	return i.Min < t && t < i.Max
}

// Clamp limits t to [Min, Max]
func (i Interval) Clamp(t float64) float64 {
	if t < i.Min {
		return i.Min
	}
	if t > i.Max {
		return i.Max
	}
	return t
}

// WithMax returns a copy of the interval with a new upper bound
func (i Interval) WithMax(maxVal float64) Interval {
	return Interval{Min: i.Min, Max: maxVal}
}
