package types

import "fmt"

// Seconds is a float64 wrapper representing a duration in seconds.
type Seconds float64

// Humanized returns a human-readable string with automatic unit
// (h, min, s, ms, µs, ns). Negative durations come back in raw seconds.
func (s Seconds) Humanized() string {
	v := float64(s)
	switch {
	case v < 0:
		return fmt.Sprintf("%g s", v)
	case v >= 3600:
		return fmt.Sprintf("%.2f h", v/3600)
	case v >= 60:
		return fmt.Sprintf("%.2f min", v/60)
	case v >= 1:
		return fmt.Sprintf("%.3f s", v)
	case v >= 1e-3:
		return fmt.Sprintf("%.3f ms", v*1e3)
	case v >= 1e-6:
		return fmt.Sprintf("%.3f µs", v*1e6)
	default:
		return fmt.Sprintf("%.0f ns", v*1e9)
	}
}

// Ms returns the duration in milliseconds.
func (s Seconds) Ms() float64 { return float64(s) * 1e3 }

// Us returns the duration in microseconds.
func (s Seconds) Us() float64 { return float64(s) * 1e6 }

// Minutes returns the duration in minutes.
func (s Seconds) Minutes() float64 { return float64(s) / 60 }
