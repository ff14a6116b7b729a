package scaling

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

// Bounds boxes each coefficient during fitting.
type Bounds struct {
	Lo Params
	Hi Params
}

// DefaultBounds returns the physically plausible box the fit searches in.
func DefaultBounds() Bounds {
	return Bounds{
		Lo: Params{K: 0.01, UnitCost: 1e-8, TaskOverhead: 1e-8, SyncCost: 1e-8},
		Hi: Params{K: 1.0, UnitCost: 1e-4, TaskOverhead: 1e-4, SyncCost: 1e-3},
	}
}

// Contains reports whether every coefficient of p lies inside the box.
func (b Bounds) Contains(p Params) bool {
	lo, hi := b.Lo.vector(), b.Hi.vector()
	for i, v := range p.vector() {
		if v < lo[i] || v > hi[i] {
			return false
		}
	}
	return true
}

func (b Bounds) validate() error {
	lo, hi := b.Lo.vector(), b.Hi.vector()
	for i := range lo {
		if !(lo[i] < hi[i]) {
			return ErrBounds
		}
	}
	return nil
}

// encode maps coefficients into unconstrained solver coordinates through
// the logit transform; decode is its inverse. Every point the solver can
// visit decodes to a coefficient set inside the box.
func (b Bounds) encode(p Params) []float64 {
	lo, hi := b.Lo.vector(), b.Hi.vector()
	x := p.vector()
	u := make([]float64, len(x))
	for i := range x {
		t := (x[i] - lo[i]) / (hi[i] - lo[i])
		// keep strictly inside the box so the logit stays finite
		t = math.Min(math.Max(t, 1e-9), 1-1e-9)
		u[i] = math.Log(t / (1 - t))
	}
	return u
}

func (b Bounds) decode(u []float64) Params {
	lo, hi := b.Lo.vector(), b.Hi.vector()
	x := make([]float64, len(u))
	for i := range u {
		s := 1 / (1 + math.Exp(-u[i]))
		x[i] = lo[i] + (hi[i]-lo[i])*s
	}
	return paramsFromVector(x)
}

// FitOptions tunes Fit. A nil options value selects the default bounds and
// the strict non-convergence policy.
type FitOptions struct {
	// Bounds boxes the search; nil selects DefaultBounds.
	Bounds *Bounds
	// Fallback turns solver failures from an error into a FitResult that
	// carries the initial guess, flagged as such.
	Fallback bool
	// MaxEvaluations caps objective evaluations; 0 lets the solver run
	// until function convergence.
	MaxEvaluations int
}

// FitResult reports a completed coefficient fit, or a failed one when the
// fallback policy is on.
type FitResult struct {
	// Params are the fitted coefficients, inside bounds by construction.
	Params Params
	// Fallback is true when the solver failed and Params echoes the
	// initial guess; Reason then records the cause.
	Fallback bool
	Reason   error
	// SSE is the sum of squared residuals of Params over the observations.
	SSE float64
	// StdErr estimates per-coefficient standard errors from the Jacobian
	// at the solution. Entries are NaN when the estimate is undefined: no
	// spare degrees of freedom, or a singular normal matrix.
	StdErr Params
	// Evaluations counts objective evaluations spent by the solver.
	Evaluations int
}

// Fit estimates model coefficients from measured runs by bounded nonlinear
// least squares. The solver is Nelder-Mead running over logit-transformed
// coordinates, so candidates respect the bounds at every step rather than
// being clipped afterwards.
//
// Non-convergence is an error by default. Opting into FitOptions.Fallback
// instead yields a FitResult holding the initial guess with Fallback set,
// so a batch analysis can degrade to the a-priori coefficients without
// losing the failure cause.
func Fit(obs []Observation, init Params, opts *FitOptions) (*FitResult, error) {
	if len(obs) == 0 {
		return nil, ErrNoObservations
	}
	for i, ob := range obs {
		switch {
		case ob.Threads < 1:
			return nil, fmt.Errorf("observation %d: %w", i, ErrThreads)
		case !(ob.Resolution > 0) || math.IsInf(ob.Resolution, 0):
			return nil, fmt.Errorf("observation %d: %w", i, ErrResolution)
		case !(ob.Time > 0) || math.IsInf(ob.Time, 0):
			return nil, fmt.Errorf("observation %d: %w", i, ErrTime)
		}
	}

	var o FitOptions
	if opts != nil {
		o = *opts
	}
	bounds := DefaultBounds()
	if o.Bounds != nil {
		bounds = *o.Bounds
	}
	if err := bounds.validate(); err != nil {
		return nil, err
	}

	objective := func(p Params) float64 {
		m := Model{params: p}
		var sse float64
		for _, ob := range obs {
			t, _ := m.Time(ob.Threads, ob.Resolution)
			d := t - ob.Time
			sse += d * d
		}
		return sse
	}

	fail := func(cause error) (*FitResult, error) {
		reason := fmt.Errorf("%w: %v", ErrNonConvergence, cause)
		if !o.Fallback {
			return nil, reason
		}
		return &FitResult{
			Params:   init,
			Fallback: true,
			Reason:   reason,
			SSE:      objective(init),
			StdErr:   nanParams(),
		}, nil
	}

	if !bounds.Contains(init) {
		return fail(errors.New("initial guess outside bounds"))
	}

	problem := optimize.Problem{
		Func: func(u []float64) float64 { return objective(bounds.decode(u)) },
	}
	settings := &optimize.Settings{
		Converger: &optimize.FunctionConverge{Absolute: 1e-12, Iterations: 50},
	}
	if o.MaxEvaluations > 0 {
		settings.FuncEvaluations = o.MaxEvaluations
	}

	res, err := optimize.Minimize(problem, bounds.encode(init), settings, &optimize.NelderMead{})
	if err != nil {
		return fail(err)
	}

	fitted := bounds.decode(res.X)
	return &FitResult{
		Params:      fitted,
		SSE:         res.F,
		StdErr:      stdErr(obs, fitted, res.F),
		Evaluations: res.Stats.FuncEvaluations,
	}, nil
}

// stdErr estimates standard errors through the usual least-squares
// covariance, cov = (J^T J)^-1 * SSE/(n-k), with J the finite-difference
// Jacobian of the predictions at the solution.
func stdErr(obs []Observation, p Params, sse float64) Params {
	out := nanParams()
	x := p.vector()
	dof := len(obs) - len(x)
	if dof <= 0 {
		return out
	}

	base := predictAll(obs, p)
	jac := mat.NewDense(len(obs), len(x), nil)
	for c := range x {
		h := 1e-6 * math.Abs(x[c])
		if h == 0 {
			h = 1e-12
		}
		shifted := append([]float64(nil), x...)
		shifted[c] += h
		pred := predictAll(obs, paramsFromVector(shifted))
		for r := range obs {
			jac.Set(r, c, (pred[r]-base[r])/h)
		}
	}

	var normal mat.Dense
	normal.Mul(jac.T(), jac)
	var cov mat.Dense
	if err := cov.Inverse(&normal); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return out
		}
		// ill-conditioned but invertible: keep the honestly huge estimate
	}

	s2 := sse / float64(dof)
	se := make([]float64, len(x))
	for i := range se {
		v := cov.At(i, i) * s2
		if math.IsInf(v, 0) {
			se[i] = math.NaN()
			continue
		}
		se[i] = math.Sqrt(v)
	}
	return paramsFromVector(se)
}

func predictAll(obs []Observation, p Params) []float64 {
	m := Model{params: p}
	out := make([]float64, len(obs))
	for i, ob := range obs {
		t, _ := m.Time(ob.Threads, ob.Resolution)
		out[i] = t
	}
	return out
}

func nanParams() Params {
	nan := math.NaN()
	return Params{K: nan, UnitCost: nan, TaskOverhead: nan, SyncCost: nan}
}
