package render

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/ocubes/mcscale/pkg/dataset"
	"github.com/ocubes/mcscale/pkg/scaling"
)

// TimeChart plots measured wall time against thread count, one series per
// resolution, with the model's prediction dashed alongside when m is
// non-nil. The Y axis is logarithmic: the campaign spans three orders of
// magnitude.
func TimeChart(series []dataset.Series, m *scaling.Model, st Style) (*plot.Plot, error) {
	st = st.merged()
	if len(series) == 0 {
		return nil, ErrNoSeries
	}

	p := newPlot(st, "Execution Time: Measured vs Model", "Threads", "Execution Time (s)")
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	p.X.Tick.Marker = threadTicks(series)

	var model func(int, float64) (float64, error)
	if m != nil {
		model = m.Time
	}
	measured := func(s dataset.Series) ([]float64, []float64, []float64) {
		return s.Time, s.TimeLo, s.TimeHi
	}
	if err := addComparison(p, st, series, measured, model); err != nil {
		return nil, err
	}
	return p, nil
}

// SpeedupChart plots measured speedup per resolution against the model and
// the ideal diagonal.
func SpeedupChart(series []dataset.Series, m *scaling.Model, st Style) (*plot.Plot, error) {
	st = st.merged()
	if len(series) == 0 {
		return nil, ErrNoSeries
	}

	p := newPlot(st, "Speedup: Measured vs Model", "Threads", "Speedup")
	p.X.Tick.Marker = threadTicks(series)

	var model func(int, float64) (float64, error)
	if m != nil {
		model = m.Speedup
	}
	measured := func(s dataset.Series) ([]float64, []float64, []float64) {
		return s.Speedup, nil, nil
	}
	if err := addComparison(p, st, series, measured, model); err != nil {
		return nil, err
	}

	limit := float64(maxThreadOf(series))
	return p, addRefLine(p, st, "Ideal Speedup",
		plotter.XYs{{X: 1, Y: 1}, {X: limit, Y: limit}})
}

// EfficiencyChart plots measured efficiency per resolution against the
// model, with the unit-efficiency line for reference. The Y axis is pinned
// to [0, 1.5] so efficiency collapse reads at a glance.
func EfficiencyChart(series []dataset.Series, m *scaling.Model, st Style) (*plot.Plot, error) {
	st = st.merged()
	if len(series) == 0 {
		return nil, ErrNoSeries
	}

	p := newPlot(st, "Efficiency: Measured vs Model", "Threads", "Efficiency")
	p.X.Tick.Marker = threadTicks(series)

	var model func(int, float64) (float64, error)
	if m != nil {
		model = m.Efficiency
	}
	measured := func(s dataset.Series) ([]float64, []float64, []float64) {
		return s.Efficiency, nil, nil
	}
	if err := addComparison(p, st, series, measured, model); err != nil {
		return nil, err
	}

	limit := float64(maxThreadOf(series))
	if err := addRefLine(p, st, "Ideal Efficiency",
		plotter.XYs{{X: 1, Y: 1}, {X: limit, Y: 1}}); err != nil {
		return nil, err
	}
	p.Y.Min = 0
	p.Y.Max = 1.5
	return p, nil
}

// IsoefficiencyChart draws the work required to hold each efficiency target
// as threads grow, with the campaign's work levels scattered for reference,
// log Y. Targets default to 0.5, 0.7, 0.8 and 0.9, the thread axis to 32.
func IsoefficiencyChart(m *scaling.Model, series []dataset.Series, targets []float64, maxThreads int, st Style) (*plot.Plot, error) {
	st = st.merged()
	if m == nil {
		return nil, ErrNoModel
	}
	if maxThreads < 2 {
		maxThreads = 32
	}
	if len(targets) == 0 {
		targets = []float64{0.5, 0.7, 0.8, 0.9}
	}

	p := newPlot(st, "Scalability: Isoefficiency Function", "Threads", "Required Work (s)")
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}

	colors, err := seriesColors(st, len(targets)+len(series))
	if err != nil {
		return nil, err
	}

	for i, e := range targets {
		w1, err := m.Isoefficiency(1, e)
		if err != nil {
			return nil, err
		}
		wN, err := m.Isoefficiency(maxThreads, e)
		if err != nil {
			return nil, err
		}
		// linear in p, so two points draw the whole function
		line, err := plotter.NewLine(plotter.XYs{{X: 1, Y: w1}, {X: float64(maxThreads), Y: wN}})
		if err != nil {
			return nil, err
		}
		line.LineStyle.Width = st.LineWidth
		line.LineStyle.Color = colors[i]
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("Isoefficiency E=%g", e), line)
	}

	unit := m.Params().UnitCost
	for j, s := range series {
		w, err := m.Work(s.Resolution)
		if err != nil {
			return nil, err
		}
		xy := make(plotter.XYs, len(s.Threads))
		for i, threads := range s.Threads {
			xy[i] = plotter.XY{X: float64(threads), Y: w * unit}
		}
		scatter, err := plotter.NewScatter(xy)
		if err != nil {
			return nil, err
		}
		scatter.GlyphStyle.Shape = glyphs[j%len(glyphs)]
		scatter.GlyphStyle.Radius = st.MarkerSize
		scatter.GlyphStyle.Color = colors[len(targets)+j]
		p.Add(scatter)
		p.Legend.Add(fmt.Sprintf("Work r=%g", s.Resolution), scatter)
	}
	return p, nil
}

// DecompositionChart splits the predicted time at one resolution into its
// compute, overhead and sync terms across 1..maxThreads, log Y. It shows
// which term a thread count is paying for.
func DecompositionChart(m *scaling.Model, resolution float64, maxThreads int, st Style) (*plot.Plot, error) {
	st = st.merged()
	if m == nil {
		return nil, ErrNoModel
	}
	if maxThreads < 2 {
		maxThreads = 16
	}
	// the sync term is positive only below r=1, and the log axis needs it so
	if !(resolution > 0 && resolution < 1) {
		return nil, fmt.Errorf("%w: resolution %g", ErrChartDomain, resolution)
	}

	p := newPlot(st, fmt.Sprintf("Time Decomposition (r=%g)", resolution), "Threads", "Time (s)")
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}

	colors, err := seriesColors(st, 3)
	if err != nil {
		return nil, err
	}

	compute := make(plotter.XYs, maxThreads)
	overhead := make(plotter.XYs, maxThreads)
	syncTerm := make(plotter.XYs, maxThreads)
	total := make(plotter.XYs, maxThreads)
	for i := 0; i < maxThreads; i++ {
		threads := i + 1
		b, err := m.Breakdown(threads, resolution)
		if err != nil {
			return nil, err
		}
		x := float64(threads)
		compute[i] = plotter.XY{X: x, Y: b.Compute}
		overhead[i] = plotter.XY{X: x, Y: b.Overhead}
		syncTerm[i] = plotter.XY{X: x, Y: b.Sync}
		total[i] = plotter.XY{X: x, Y: b.Total()}
	}

	parts := []struct {
		label string
		xys   plotter.XYs
	}{
		{"Compute Time", compute},
		{"Task Overhead", overhead},
		{"Sync Time", syncTerm},
	}
	for i, part := range parts {
		line, err := plotter.NewLine(part.xys)
		if err != nil {
			return nil, err
		}
		line.LineStyle.Width = st.LineWidth
		line.LineStyle.Color = colors[i]
		p.Add(line)
		p.Legend.Add(part.label, line)
	}
	return p, addRefLine(p, st, "Total Time", total)
}

// WeakScalingChart tracks predicted efficiency when the grid refines with
// the thread count, r = p^(-1/3), so per-thread work stays constant. The
// thread axis is logarithmic.
func WeakScalingChart(m *scaling.Model, minRes, maxRes, target float64, st Style) (*plot.Plot, error) {
	st = st.merged()
	if m == nil {
		return nil, ErrNoModel
	}
	if minRes == 0 && maxRes == 0 {
		minRes, maxRes = 0.01, 0.3
	}
	if !(minRes > 0 && minRes < maxRes && maxRes < 1) {
		return nil, fmt.Errorf("%w: resolution range [%g, %g]", ErrChartDomain, minRes, maxRes)
	}
	if !(target > 0 && target < 1) {
		return nil, fmt.Errorf("%w: target efficiency %g", ErrChartDomain, target)
	}

	const samples = 50
	xy := make(plotter.XYs, 0, samples)
	xmin, xmax := math.Inf(1), math.Inf(-1)
	for i := 0; i < samples; i++ {
		r := minRes + (maxRes-minRes)*float64(i)/float64(samples-1)
		threads := int(math.Round(math.Pow(r, -3)))
		if threads < 1 {
			threads = 1
		}
		e, err := m.Efficiency(threads, r)
		if err != nil {
			return nil, err
		}
		x := float64(threads)
		xy = append(xy, plotter.XY{X: x, Y: e})
		xmin = math.Min(xmin, x)
		xmax = math.Max(xmax, x)
	}

	p := newPlot(st, "Weak Scaling: Constant Work per Thread", "Threads", "Efficiency")
	p.X.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}

	colors, err := seriesColors(st, 1)
	if err != nil {
		return nil, err
	}
	line, err := plotter.NewLine(xy)
	if err != nil {
		return nil, err
	}
	line.LineStyle.Width = st.LineWidth
	line.LineStyle.Color = colors[0]
	p.Add(line)
	p.Legend.Add("Weak Scaling Efficiency", line)

	label := fmt.Sprintf("Target Efficiency (%.0f%%)", target*100)
	return p, addRefLine(p, st, label, plotter.XYs{{X: xmin, Y: target}, {X: xmax, Y: target}})
}

func addComparison(p *plot.Plot, st Style, series []dataset.Series,
	measured func(dataset.Series) ([]float64, []float64, []float64),
	model func(int, float64) (float64, error)) error {
	colors, err := seriesColors(st, len(series))
	if err != nil {
		return err
	}
	for i, s := range series {
		ys, lo, hi := measured(s)
		label := fmt.Sprintf("Measured r=%g", s.Resolution)
		if err := addSeries(p, st, label, colors[i], glyphs[i%len(glyphs)], s.Threads, ys, lo, hi); err != nil {
			return err
		}
		if model == nil {
			continue
		}
		xy := make(plotter.XYs, len(s.Threads))
		for j, threads := range s.Threads {
			v, err := model(threads, s.Resolution)
			if err != nil {
				return err
			}
			xy[j] = plotter.XY{X: float64(threads), Y: v}
		}
		if err := addModelLine(p, st, fmt.Sprintf("Model r=%g", s.Resolution), colors[i], xy); err != nil {
			return err
		}
	}
	return nil
}

// addSeries draws measured points connected by a solid line, with range
// bars wherever a point aggregates repeated runs.
func addSeries(p *plot.Plot, st Style, label string, c color.Color, g draw.GlyphDrawer, threads []int, ys, lo, hi []float64) error {
	xy := make(plotter.XYs, len(threads))
	for i, t := range threads {
		xy[i] = plotter.XY{X: float64(t), Y: ys[i]}
	}

	line, err := plotter.NewLine(xy)
	if err != nil {
		return err
	}
	line.LineStyle.Width = st.LineWidth
	line.LineStyle.Color = c

	scatter, err := plotter.NewScatter(xy)
	if err != nil {
		return err
	}
	scatter.GlyphStyle.Shape = g
	scatter.GlyphStyle.Radius = st.MarkerSize
	scatter.GlyphStyle.Color = c

	p.Add(line, scatter)
	p.Legend.Add(label, line, scatter)

	if !hasSpread(ys, lo, hi) {
		return nil
	}
	ep := errPoints{XYs: xy, YErrors: make(plotter.YErrors, len(xy))}
	for i := range xy {
		ep.YErrors[i].Low = math.Max(0, ys[i]-lo[i])
		ep.YErrors[i].High = math.Max(0, hi[i]-ys[i])
	}
	bars, err := plotter.NewYErrorBars(ep)
	if err != nil {
		return err
	}
	bars.LineStyle.Color = c
	p.Add(bars)
	return nil
}

func addModelLine(p *plot.Plot, st Style, label string, c color.Color, xy plotter.XYs) error {
	line, err := plotter.NewLine(xy)
	if err != nil {
		return err
	}
	line.LineStyle.Width = st.LineWidth
	line.LineStyle.Color = c
	line.LineStyle.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}
	p.Add(line)
	p.Legend.Add(label, line)
	return nil
}

// addRefLine draws a black dashed reference such as the ideal diagonal.
func addRefLine(p *plot.Plot, st Style, label string, xy plotter.XYs) error {
	line, err := plotter.NewLine(xy)
	if err != nil {
		return err
	}
	line.LineStyle.Width = st.LineWidth / 2
	line.LineStyle.Color = color.Black
	line.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	p.Add(line)
	p.Legend.Add(label, line)
	return nil
}

func hasSpread(ys, lo, hi []float64) bool {
	if lo == nil || hi == nil {
		return false
	}
	for i := range ys {
		if lo[i] != ys[i] || hi[i] != ys[i] {
			return true
		}
	}
	return false
}

// errPoints pairs points with range offsets for NewYErrorBars.
type errPoints struct {
	plotter.XYs
	plotter.YErrors
}
