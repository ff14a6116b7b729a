package scaling

import "math"

// Octree constants. Each subdivision splits a cube into 8 children, so a
// full tree over n leaf cubes holds ~n/7 internal task nodes, and a grid of
// (1/r)^3 cubes is reached after 3*log8(1/r) levels.
const (
	octreeFanout  = 8.0
	taskTreeRatio = 7.0
)

// Model predicts execution time, speedup and efficiency of the parallel
// surface extraction for a fixed set of coefficients.
type Model struct {
	params Params
}

// New creates a Model from the given coefficients. A nil p selects the
// built-in defaults; non-positive fields fall back to their defaults
// individually.
func New(p *Params) *Model {
	if p == nil {
		p = _defaultParams
	}

	merged := *p
	if merged.K <= 0 {
		merged.K = _defaultParams.K
	}
	if merged.UnitCost <= 0 {
		merged.UnitCost = _defaultParams.UnitCost
	}
	if merged.TaskOverhead <= 0 {
		merged.TaskOverhead = _defaultParams.TaskOverhead
	}
	if merged.SyncCost <= 0 {
		merged.SyncCost = _defaultParams.SyncCost
	}

	return &Model{params: merged}
}

// Params returns the coefficients the model evaluates with.
func (m *Model) Params() Params {
	return m.params
}

// Work returns the expected number of surface cubes at the given grid
// resolution, K*(1/r)^3.
func (m *Model) Work(resolution float64) (float64, error) {
	if !(resolution > 0) || math.IsInf(resolution, 0) {
		return 0, ErrResolution
	}
	return m.params.K * math.Pow(1/resolution, 3), nil
}

// Breakdown splits the predicted execution time into its compute, task
// overhead and synchronization terms.
func (m *Model) Breakdown(threads int, resolution float64) (Breakdown, error) {
	if threads < 1 {
		return Breakdown{}, ErrThreads
	}
	work, err := m.Work(resolution)
	if err != nil {
		return Breakdown{}, err
	}
	return Breakdown{
		Compute:  work * m.params.UnitCost / float64(threads),
		Overhead: work * m.params.TaskOverhead / taskTreeRatio,
		Sync:     treeDepth(resolution) * m.params.SyncCost,
	}, nil
}

// Time predicts the wall time in seconds of one extraction run.
func (m *Model) Time(threads int, resolution float64) (float64, error) {
	b, err := m.Breakdown(threads, resolution)
	if err != nil {
		return 0, err
	}
	return b.Total(), nil
}

// Speedup predicts the speedup over the single-threaded run at the same
// resolution. Speedup(1, r) is exactly 1.
func (m *Model) Speedup(threads int, resolution float64) (float64, error) {
	parallel, err := m.Time(threads, resolution)
	if err != nil {
		return 0, err
	}
	serial, err := m.Time(1, resolution)
	if err != nil {
		return 0, err
	}
	return serial / parallel, nil
}

// Efficiency predicts the parallel efficiency, Speedup(p, r)/p.
func (m *Model) Efficiency(threads int, resolution float64) (float64, error) {
	s, err := m.Speedup(threads, resolution)
	if err != nil {
		return 0, err
	}
	return s / float64(threads), nil
}

// OptimalThreads returns the thread count that balances the compute term
// against the synchronization term,
//
//	p_opt = sqrt(7 * K * (1/r)^3 * UnitCost / (3 * log8(1/r) * SyncCost)).
//
// The task overhead term does not depend on p and is left out, so this is
// the point of diminishing returns rather than a strict minimizer of Time.
// The result is fractional; callers round to a practical thread count.
func (m *Model) OptimalThreads(resolution float64) (float64, error) {
	work, err := m.Work(resolution)
	if err != nil {
		return 0, err
	}
	sync := treeDepth(resolution) * m.params.SyncCost
	if sync <= 0 {
		return 0, ErrNoOptimum
	}
	return math.Sqrt(taskTreeRatio * work * m.params.UnitCost / sync), nil
}

// Isoefficiency returns the work needed to hold the given efficiency when
// running on p threads, W = K*p*TaskOverhead/(7*(1-E)). It grows linearly
// in p, which classifies the algorithm as well scalable in the
// isoefficiency sense.
func (m *Model) Isoefficiency(threads int, efficiency float64) (float64, error) {
	if threads < 1 {
		return 0, ErrThreads
	}
	if !(efficiency > 0 && efficiency < 1) {
		return 0, ErrEfficiencyRange
	}
	return m.params.K * float64(threads) * m.params.TaskOverhead /
		(taskTreeRatio * (1 - efficiency)), nil
}

// treeDepth returns the subdivision depth 3*log8(1/r); negative above r=1.
func treeDepth(resolution float64) float64 {
	return 3 * math.Log(1/resolution) / math.Log(octreeFanout)
}
