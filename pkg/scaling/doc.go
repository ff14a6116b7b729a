// Package scaling models the parallel scalability of octree-based marching
// cubes surface extraction and fits the model to measured run times.
//
// Model
//
// A run over a grid of resolution r on p threads is predicted as the sum of
// three terms:
//
//	work(r)  = K * (1/r)^3
//	Time     = work*UnitCost/p + work*TaskOverhead/7 + 3*log8(1/r)*SyncCost
//
// The compute term shrinks with p, the task overhead term is amortized over
// the ~n/7 internal nodes of the 8-ary subdivision tree, and the sync term
// pays once per tree level regardless of p. Derived metrics follow from
// Time:
//
//	Speedup(p, r)    = Time(1, r) / Time(p, r)
//	Efficiency(p, r) = Speedup(p, r) / p
//
// Closed forms answer the two capacity-planning questions:
//
//   - OptimalThreads(r): thread count where the compute term stops paying
//     for the sync term, sqrt(7*work*UnitCost / (3*log8(1/r)*SyncCost)).
//   - Isoefficiency(p, E): work needed to hold efficiency E on p threads,
//     K*p*TaskOverhead/(7*(1-E)); linear in p.
//
// Fitting
//
// Fit estimates the four coefficients from Observations by bounded
// nonlinear least squares. The search space is the box of DefaultBounds
// (overridable through FitOptions.Bounds); candidates are kept inside it by
// a logit reparameterization rather than by clipping. The result carries
// the residual sum of squares and per-coefficient standard errors.
//
// Only the products K*UnitCost and K*TaskOverhead are identifiable from
// timing data: scaling K up and both costs down leaves every prediction
// unchanged. Fitted coefficients are therefore useful for prediction, not
// for physical interpretation one by one.
//
// Errors (errs.go)
//
//	ErrResolution     : resolution <= 0
//	ErrThreads        : threads < 1
//	ErrTime           : observation with time <= 0
//	ErrNoObservations : Fit over an empty data set
//	ErrNonConvergence : solver failure (wrapped with the cause)
//	ErrNoOptimum      : OptimalThreads at resolution >= 1
//	ErrEfficiencyRange: isoefficiency target outside (0, 1)
//	ErrBounds         : empty or inverted fitting box
//
// Example
//
//	/*
//	res, err := scaling.Fit(obs, scaling.DefaultParams(), nil)
//	if err != nil { log.Fatal(err) }
//
//	m := scaling.New(&res.Params)
//	for _, p := range []int{1, 2, 4, 8, 16} {
//	    t, _ := m.Time(p, 0.05)
//	    s, _ := m.Speedup(p, 0.05)
//	    fmt.Printf("p=%-2d T=%.3fs S=%.2f\n", p, t, s)
//	}
//	*/
//
// Package import path: github.com/ocubes/mcscale/pkg/scaling
package scaling
