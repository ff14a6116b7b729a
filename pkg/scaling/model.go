package scaling

// Params holds the coefficients of the execution-time model.
type Params struct {
	// K is the spatial efficiency factor: the fraction of grid cubes that
	// intersect the surface and therefore carry real work.
	K float64
	// UnitCost is the processing cost of one surface cube, in seconds.
	UnitCost float64
	// TaskOverhead is the creation cost of one subdivision task, in seconds.
	TaskOverhead float64
	// SyncCost is the synchronization cost of one tree level, in seconds.
	SyncCost float64
}

// _defaultParams were estimated from the bundled measurement campaign and
// serve as the initial guess for Fit.
var _defaultParams = &Params{
	K:            0.2,  // ~20% of cubes touch the surface
	UnitCost:     1e-6, // 1 us per cube
	TaskOverhead: 1e-6, // 1 us per task
	SyncCost:     1e-5, // 10 us per level
}

// DefaultParams returns a copy of the built-in coefficient estimates.
func DefaultParams() Params {
	return *_defaultParams
}

// vector flattens the coefficients in fitting order.
func (p Params) vector() []float64 {
	return []float64{p.K, p.UnitCost, p.TaskOverhead, p.SyncCost}
}

func paramsFromVector(v []float64) Params {
	return Params{K: v[0], UnitCost: v[1], TaskOverhead: v[2], SyncCost: v[3]}
}

// Breakdown is the additive decomposition of a predicted execution time.
// All terms are in seconds.
type Breakdown struct {
	// Compute is the surface work divided across threads.
	Compute float64
	// Overhead is the task-creation cost over the subdivision tree.
	Overhead float64
	// Sync is the per-level synchronization cost; it does not shrink with
	// more threads and dominates at high thread counts.
	Sync float64
}

// Total returns the predicted wall time, the sum of the three terms.
func (b Breakdown) Total() float64 {
	return b.Compute + b.Overhead + b.Sync
}

// Observation is a single measured run: the wall time observed for one
// thread count and grid resolution.
type Observation struct {
	Threads    int
	Resolution float64
	// Time is the measured wall time in seconds.
	Time float64
}
