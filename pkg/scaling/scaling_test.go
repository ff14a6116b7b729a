package scaling

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// expectTime recomputes the prediction from the closed form, independently
// of Breakdown.
func expectTime(p Params, threads int, r float64) float64 {
	work := p.K * math.Pow(1/r, 3)
	comp := work * p.UnitCost / float64(threads)
	over := work * p.TaskOverhead / 7
	sync := 3 * math.Log(1/r) / math.Log(8) * p.SyncCost
	return comp + over + sync
}

func TestModel_Time_MatchesClosedForm_WithLogs(t *testing.T) {
	m := New(nil)
	p := m.Params()

	t.Logf("#   r,  p |    T_pred(s)")
	for _, r := range []float64{0.2, 0.1, 0.05, 0.025} {
		for _, threads := range []int{1, 2, 4, 8, 16} {
			got, err := m.Time(threads, r)
			require.NoError(t, err)
			require.InDelta(t, expectTime(p, threads, r), got, 1e-15,
				"time mismatch at r=%g p=%d", r, threads)
			require.Greater(t, got, 0.0)
			t.Logf("%5.3f, %2d | %12.6e", r, threads, got)
		}
	}
}

func TestModel_Time_KnownValue(t *testing.T) {
	m := New(nil)

	// defaults at r=0.2, p=1: 25 cubes of work,
	// 2.5e-5 + 25e-6/7 + 3*log8(5)*1e-5
	got, err := m.Time(1, 0.2)
	require.NoError(t, err)
	assert.InDelta(t, 5.179070952030222e-05, got, 1e-12)
}

func TestModel_Breakdown_TermBehavior(t *testing.T) {
	m := New(nil)
	const r = 0.05

	b1, err := m.Breakdown(1, r)
	require.NoError(t, err)
	b2, err := m.Breakdown(2, r)
	require.NoError(t, err)

	// compute halves when threads double; the other terms do not move
	assert.InDelta(t, b1.Compute/2, b2.Compute, 1e-15)
	assert.Equal(t, b1.Overhead, b2.Overhead)
	assert.Equal(t, b1.Sync, b2.Sync)

	for _, b := range []Breakdown{b1, b2} {
		assert.Greater(t, b.Compute, 0.0)
		assert.Greater(t, b.Overhead, 0.0)
		assert.Greater(t, b.Sync, 0.0)
	}

	total, err := m.Time(2, r)
	require.NoError(t, err)
	assert.Equal(t, b2.Total(), total, "Time should be the breakdown sum")
}

func TestModel_Time_DecreasingInThreads(t *testing.T) {
	m := New(nil)
	for _, r := range []float64{0.2, 0.1, 0.05, 0.025} {
		prev := math.Inf(1)
		for _, threads := range []int{1, 2, 4, 8, 16, 32} {
			got, err := m.Time(threads, r)
			require.NoError(t, err)
			assert.Less(t, got, prev, "time should drop at r=%g p=%d", r, threads)
			prev = got
		}
	}
}

func TestModel_Speedup_UnityAtOneThread(t *testing.T) {
	m := New(nil)
	for _, r := range []float64{0.2, 0.1, 0.05, 0.025} {
		s, err := m.Speedup(1, r)
		require.NoError(t, err)
		// same division top and bottom, so exactly 1
		assert.Equal(t, 1.0, s, "r=%g", r)
	}
}

func TestModel_Speedup_BelowIdeal_WithLogs(t *testing.T) {
	m := New(nil)

	t.Logf("#   r,  p |  speedup   efficiency")
	for _, r := range []float64{0.2, 0.1, 0.05, 0.025} {
		prev := 0.0
		for _, threads := range []int{1, 2, 4, 8, 16} {
			s, err := m.Speedup(threads, r)
			require.NoError(t, err)
			e, err := m.Efficiency(threads, r)
			require.NoError(t, err)

			assert.Greater(t, s, prev, "speedup should grow at r=%g p=%d", r, threads)
			if threads > 1 {
				assert.Less(t, s, float64(threads), "overhead keeps speedup sub-ideal")
			}
			assert.Greater(t, e, 0.0)
			assert.LessOrEqual(t, e, 1.0)
			assert.InDelta(t, s/float64(threads), e, 1e-15)

			prev = s
			t.Logf("%5.3f, %2d | %8.4f   %10.4f", r, threads, s, e)
		}
	}
}

func TestModel_Work_CubicGrowth(t *testing.T) {
	m := New(nil)

	w, err := m.Work(0.2)
	require.NoError(t, err)
	assert.InDelta(t, 25.0, w, 1e-9) // 0.2 * 5^3

	half, err := m.Work(0.1)
	require.NoError(t, err)
	assert.InDelta(t, 8.0, half/w, 1e-12, "halving r should give 8x the work")
}

func TestModel_OptimalThreads_WithLogs(t *testing.T) {
	m := New(nil)
	p := m.Params()

	t.Logf("#   r | p_opt")
	prev := 0.0
	for _, r := range []float64{0.2, 0.1, 0.05, 0.025} {
		got, err := m.OptimalThreads(r)
		require.NoError(t, err)

		work := p.K * math.Pow(1/r, 3)
		want := math.Sqrt(7 * work * p.UnitCost / (3 * math.Log(1/r) / math.Log(8) * p.SyncCost))
		require.InDelta(t, want, got, 1e-12, "p_opt mismatch at r=%g", r)

		// finer grids justify more threads
		assert.Greater(t, got, prev, "r=%g", r)
		prev = got
		t.Logf("%5.3f | %5.1f", r, got)
	}

	_, err := m.OptimalThreads(1)
	assert.ErrorIs(t, err, ErrNoOptimum)
	_, err = m.OptimalThreads(2)
	assert.ErrorIs(t, err, ErrNoOptimum)
}

func TestModel_Isoefficiency_LinearInThreads(t *testing.T) {
	m := New(nil)
	p := m.Params()

	for _, e := range []float64{0.5, 0.7, 0.8, 0.9} {
		w8, err := m.Isoefficiency(8, e)
		require.NoError(t, err)
		w16, err := m.Isoefficiency(16, e)
		require.NoError(t, err)

		want := p.K * 8 * p.TaskOverhead / (7 * (1 - e))
		require.InDelta(t, want, w8, 1e-18, "E=%g", e)
		assert.InDelta(t, 2.0, w16/w8, 1e-12, "doubling p should double the work")
	}

	// tighter targets demand more work
	w5, err := m.Isoefficiency(8, 0.5)
	require.NoError(t, err)
	w9, err := m.Isoefficiency(8, 0.9)
	require.NoError(t, err)
	assert.Greater(t, w9, w5)
}

func TestModel_DomainErrors(t *testing.T) {
	m := New(nil)

	cases := []struct {
		name string
		run  func() error
		want error
	}{
		{"time_zero_threads", func() error { _, err := m.Time(0, 0.1); return err }, ErrThreads},
		{"time_negative_threads", func() error { _, err := m.Time(-2, 0.1); return err }, ErrThreads},
		{"time_zero_resolution", func() error { _, err := m.Time(4, 0); return err }, ErrResolution},
		{"time_negative_resolution", func() error { _, err := m.Time(4, -0.1); return err }, ErrResolution},
		{"work_nan_resolution", func() error { _, err := m.Work(math.NaN()); return err }, ErrResolution},
		{"work_inf_resolution", func() error { _, err := m.Work(math.Inf(1)); return err }, ErrResolution},
		{"speedup_bad_resolution", func() error { _, err := m.Speedup(4, 0); return err }, ErrResolution},
		{"efficiency_bad_threads", func() error { _, err := m.Efficiency(0, 0.1); return err }, ErrThreads},
		{"breakdown_bad_threads", func() error { _, err := m.Breakdown(0, 0.1); return err }, ErrThreads},
		{"optimal_bad_resolution", func() error { _, err := m.OptimalThreads(-1); return err }, ErrResolution},
		{"iso_bad_threads", func() error { _, err := m.Isoefficiency(0, 0.8); return err }, ErrThreads},
		{"iso_zero_target", func() error { _, err := m.Isoefficiency(8, 0); return err }, ErrEfficiencyRange},
		{"iso_unit_target", func() error { _, err := m.Isoefficiency(8, 1); return err }, ErrEfficiencyRange},
		{"iso_above_unit", func() error { _, err := m.Isoefficiency(8, 1.2); return err }, ErrEfficiencyRange},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.run(), tc.want)
		})
	}
}

func TestNew_DefaultsAndMerge(t *testing.T) {
	def := DefaultParams()

	assert.Equal(t, def, New(nil).Params())
	assert.Equal(t, def, New(&Params{}).Params())

	// positive fields win, non-positive fall back individually
	m := New(&Params{K: 0.5, SyncCost: -1})
	assert.Equal(t, 0.5, m.Params().K)
	assert.Equal(t, def.UnitCost, m.Params().UnitCost)
	assert.Equal(t, def.TaskOverhead, m.Params().TaskOverhead)
	assert.Equal(t, def.SyncCost, m.Params().SyncCost)
}

func ExampleModel() {
	m := New(nil)
	for _, threads := range []int{1, 4, 16} {
		s, _ := m.Speedup(threads, 0.05)
		fmt.Printf("p=%-2d S=%.2f\n", threads, s)
	}
}
