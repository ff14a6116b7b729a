// Package dataset loads, validates and aggregates the scalability
// measurements the model is fitted against.
package dataset

import (
	"fmt"
	"math"
	"sort"

	"github.com/ocubes/mcscale/pkg/scaling"
	"golang.org/x/perf/benchmath"
)

// Record is one measured run as stored in the measurement CSV.
type Record struct {
	Resolution float64
	Threads    int
	// Time is the measured wall time in seconds.
	Time float64
	// Speedup and Efficiency are carried from the file when present and
	// NaN otherwise; Aggregate derives them from mean times in that case.
	Speedup    float64
	Efficiency float64
}

func (r Record) validate() error {
	switch {
	case !(r.Resolution > 0) || math.IsInf(r.Resolution, 0):
		return fmt.Errorf("%w: resolution %g", ErrRecord, r.Resolution)
	case r.Threads < 1:
		return fmt.Errorf("%w: threads %d", ErrRecord, r.Threads)
	case !(r.Time > 0) || math.IsInf(r.Time, 0):
		return fmt.Errorf("%w: time %g", ErrRecord, r.Time)
	}
	return nil
}

// Table is the embedded campaign layout: one time series per resolution,
// all indexed by the shared thread list.
type Table struct {
	Threads     []int
	Resolutions []float64
	Times       map[float64][]float64
}

// Reference returns the bundled measurement campaign: marching cubes over a
// trabecular bone volume at four grid resolutions on 1 to 16 threads.
func Reference() *Table {
	return &Table{
		Threads:     []int{1, 2, 4, 8, 16},
		Resolutions: []float64{0.2, 0.1, 0.05, 0.025},
		Times: map[float64][]float64{
			0.2:   {2.442, 1.25, 0.65, 0.227, 0.225},
			0.1:   {5.100, 2.60, 1.35, 1.080, 1.070},
			0.05:  {22.230, 11.5, 6.2, 5.279, 5.492},
			0.025: {120.325, 62.0, 33.5, 30.738, 30.842},
		},
	}
}

func (t *Table) validate() error {
	if len(t.Threads) == 0 || len(t.Resolutions) == 0 {
		return ErrNoRecords
	}
	for _, r := range t.Resolutions {
		times, ok := t.Times[r]
		if !ok || len(times) != len(t.Threads) {
			return fmt.Errorf("%w: resolution %g", ErrTableShape, r)
		}
	}
	return nil
}

// Records flattens the table into per-run records. Speedup and efficiency
// are taken against the table's lowest thread count.
func (t *Table) Records() ([]Record, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}

	base := 0
	for i, p := range t.Threads {
		if p < t.Threads[base] {
			base = i
		}
	}

	var out []Record
	for _, r := range t.Resolutions {
		times := t.Times[r]
		for i, p := range t.Threads {
			s := times[base] / times[i]
			rec := Record{
				Resolution: r,
				Threads:    p,
				Time:       times[i],
				Speedup:    s,
				Efficiency: s / float64(p),
			}
			if err := rec.validate(); err != nil {
				return nil, err
			}
			out = append(out, rec)
		}
	}
	return out, nil
}

// Observations converts the table into fitting observations.
func (t *Table) Observations() ([]scaling.Observation, error) {
	records, err := t.Records()
	if err != nil {
		return nil, err
	}
	obs := make([]scaling.Observation, len(records))
	for i, rec := range records {
		obs[i] = scaling.Observation{
			Threads:    rec.Threads,
			Resolution: rec.Resolution,
			Time:       rec.Time,
		}
	}
	return obs, nil
}

// Series is one resolution's aggregated view, thread counts ascending.
type Series struct {
	Resolution float64
	Threads    []int
	// Time holds the mean wall time per thread count; TimeLo and TimeHi
	// bracket it when a point has repeated runs and equal it otherwise.
	Time   []float64
	TimeLo []float64
	TimeHi []float64
	// Runs counts the measurements behind each point.
	Runs       []int
	Speedup    []float64
	Efficiency []float64
}

// Observations flattens the aggregated points back into fitting
// observations, one per thread count.
func (s Series) Observations() []scaling.Observation {
	obs := make([]scaling.Observation, len(s.Threads))
	for i, p := range s.Threads {
		obs[i] = scaling.Observation{Threads: p, Resolution: s.Resolution, Time: s.Time[i]}
	}
	return obs
}

// Aggregate groups records by resolution and thread count, averaging
// repeated measurements. Points with more than one run also get a range
// summary for error bars. Speedup and efficiency columns missing from the
// input are derived from the mean times against the lowest thread count.
// Series come back ordered by ascending resolution.
func Aggregate(records []Record) ([]Series, error) {
	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	byRes := make(map[float64]map[int][]Record)
	for _, rec := range records {
		if err := rec.validate(); err != nil {
			return nil, err
		}
		group, ok := byRes[rec.Resolution]
		if !ok {
			group = make(map[int][]Record)
			byRes[rec.Resolution] = group
		}
		group[rec.Threads] = append(group[rec.Threads], rec)
	}

	resolutions := make([]float64, 0, len(byRes))
	for r := range byRes {
		resolutions = append(resolutions, r)
	}
	sort.Float64s(resolutions)

	thresholds := benchmath.DefaultThresholds
	out := make([]Series, 0, len(resolutions))
	for _, r := range resolutions {
		group := byRes[r]
		threads := make([]int, 0, len(group))
		for p := range group {
			threads = append(threads, p)
		}
		sort.Ints(threads)

		s := Series{Resolution: r, Threads: threads}
		for _, p := range threads {
			runs := group[p]
			times := make([]float64, len(runs))
			for i, rec := range runs {
				times[i] = rec.Time
			}
			mean := meanOf(times)

			lo, hi := mean, mean
			if len(times) > 1 {
				sample := benchmath.NewSample(times, &thresholds)
				summary := benchmath.AssumeNothing.Summary(sample, 0.95)
				lo, hi = summary.Lo, summary.Hi
			}

			s.Time = append(s.Time, mean)
			s.TimeLo = append(s.TimeLo, lo)
			s.TimeHi = append(s.TimeHi, hi)
			s.Runs = append(s.Runs, len(runs))
			s.Speedup = append(s.Speedup, meanPresent(runs, func(rec Record) float64 { return rec.Speedup }))
			s.Efficiency = append(s.Efficiency, meanPresent(runs, func(rec Record) float64 { return rec.Efficiency }))
		}

		// derive ratios the file did not carry
		base := s.Time[0]
		for i := range s.Threads {
			if math.IsNaN(s.Speedup[i]) {
				s.Speedup[i] = base / s.Time[i]
			}
			if math.IsNaN(s.Efficiency[i]) {
				s.Efficiency[i] = s.Speedup[i] / float64(s.Threads[i])
			}
		}
		out = append(out, s)
	}
	return out, nil
}

func meanOf(v []float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x
	}
	return sum / float64(len(v))
}

// meanPresent averages f over records where it is set, NaN when none are.
func meanPresent(runs []Record, f func(Record) float64) float64 {
	var sum float64
	var n int
	for _, rec := range runs {
		v := f(rec)
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}
