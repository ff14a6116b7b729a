package scaling

import "errors"

var (
	// ErrResolution indicates a grid resolution outside the model's domain
	// (the work and sync terms are undefined for resolution <= 0).
	ErrResolution = errors.New("scaling: resolution must be > 0")

	// ErrThreads indicates a non-positive thread count.
	ErrThreads = errors.New("scaling: threads must be >= 1")

	// ErrTime indicates an observation with a non-positive measured time.
	ErrTime = errors.New("scaling: observed time must be > 0")

	// ErrNoObservations indicates Fit was called with an empty data set.
	ErrNoObservations = errors.New("scaling: no observations to fit")

	// ErrNonConvergence indicates the bounded solver failed; the fit result
	// is not usable unless the caller opted into the fallback policy.
	ErrNonConvergence = errors.New("scaling: fit did not converge")

	// ErrNoOptimum indicates the closed-form optimal thread count is
	// undefined (the sync term vanishes or turns negative for resolution >= 1).
	ErrNoOptimum = errors.New("scaling: no optimal thread count for resolution >= 1")

	// ErrEfficiencyRange indicates an isoefficiency target outside (0, 1).
	ErrEfficiencyRange = errors.New("scaling: target efficiency must be in (0, 1)")

	// ErrBounds indicates a fitting box with an empty or inverted interval.
	ErrBounds = errors.New("scaling: invalid parameter bounds")
)
