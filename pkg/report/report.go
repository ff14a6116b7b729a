// Package report renders fit results and measured-versus-model comparisons
// as console text and as a standalone HTML page.
package report

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/ocubes/mcscale/pkg/dataset"
	"github.com/ocubes/mcscale/pkg/scaling"
)

// Params writes the fitted coefficients as a bullet list, with standard
// errors where they could be estimated. A fallback result is prefixed with a
// warning so the reader knows the numbers echo the initial guess.
func Params(w io.Writer, res scaling.FitResult) {
	if res.Fallback {
		cause := "unknown cause"
		if res.Reason != nil {
			cause = res.Reason.Error()
		}
		fmt.Fprintf(w, "WARNING: fit did not converge (%s); parameters below are the initial guess.\n", cause)
	}

	p, se := res.Params, res.StdErr
	fmt.Fprintln(w, "Fitted model parameters:")
	fmt.Fprintf(w, "- k (spatial efficiency factor): %.6f%s\n", p.K, fmtStdErr(se.K))
	fmt.Fprintf(w, "- unit cost:     %.2e s/cube%s\n", p.UnitCost, fmtStdErr(se.UnitCost))
	fmt.Fprintf(w, "- task overhead: %.2e s/task%s\n", p.TaskOverhead, fmtStdErr(se.TaskOverhead))
	fmt.Fprintf(w, "- sync cost:     %.2e s/level%s\n", p.SyncCost, fmtStdErr(se.SyncCost))
	fmt.Fprintf(w, "- residual SSE:  %.3e over %d evaluations\n", res.SSE, res.Evaluations)
}

func fmtStdErr(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return fmt.Sprintf(" ± %.1e", v)
}

// OptimalThreads writes the thread count that minimizes predicted wall time
// for every resolution present in the series.
func OptimalThreads(w io.Writer, m *scaling.Model, series []dataset.Series) error {
	if m == nil {
		return ErrNoModel
	}
	if len(series) == 0 {
		return ErrNoSeries
	}

	fmt.Fprintln(w, "Optimal thread count per resolution:")
	for _, s := range series {
		opt, err := m.OptimalThreads(s.Resolution)
		if err != nil {
			return fmt.Errorf("r=%g: %w", s.Resolution, err)
		}
		fmt.Fprintf(w, "- r=%g: p_opt = %.1f threads\n", s.Resolution, opt)
	}
	return nil
}

// Classification writes a scalability verdict derived from the best terminal
// efficiency across the series, the efficiency each resolution ends at on
// its highest measured thread count.
func Classification(w io.Writer, series []dataset.Series) error {
	term, res, threads, ok := bestTerminal(series)
	if !ok {
		return ErrNoSeries
	}

	fmt.Fprintln(w, "Scalability analysis:")
	fmt.Fprintf(w, "- best terminal efficiency: %.3f (r=%g, %d threads)\n", term, res, threads)
	fmt.Fprintf(w, "- classification: %s\n", classify(term))
	fmt.Fprintln(w, "- isoefficiency function: W = k*p*task_overhead / (7*(1-E))")
	return nil
}

func bestTerminal(series []dataset.Series) (eff, resolution float64, threads int, ok bool) {
	eff = math.NaN()
	for _, s := range series {
		n := len(s.Efficiency)
		if n == 0 || n != len(s.Threads) {
			continue
		}
		e := s.Efficiency[n-1]
		if math.IsNaN(e) {
			continue
		}
		if !ok || e > eff {
			eff, resolution, threads, ok = e, s.Resolution, s.Threads[n-1], true
		}
	}
	return eff, resolution, threads, ok
}

func classify(terminalEfficiency float64) string {
	switch {
	case terminalEfficiency >= 0.75:
		return "GOOD"
	case terminalEfficiency >= 0.4:
		return "GOOD TO MODERATE"
	case terminalEfficiency >= 0.2:
		return "MODERATE"
	default:
		return "POOR"
	}
}

// Comparison writes the measured and predicted time, speedup and efficiency
// for every (resolution, threads) point as an aligned table.
func Comparison(w io.Writer, series []dataset.Series, m *scaling.Model) error {
	if m == nil {
		return ErrNoModel
	}
	if len(series) == 0 {
		return ErrNoSeries
	}

	fmt.Fprintln(w, "Measured vs model:")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RESOLUTION\tTHREADS\tT_EXP (s)\tT_MODEL (s)\tS_EXP\tS_MODEL\tE_EXP\tE_MODEL")
	fmt.Fprintln(tw, "----------\t-------\t---------\t-----------\t-----\t-------\t-----\t-------")

	for _, s := range series {
		for i, p := range s.Threads {
			tm, err := m.Time(p, s.Resolution)
			if err != nil {
				return err
			}
			sm, err := m.Speedup(p, s.Resolution)
			if err != nil {
				return err
			}
			em, err := m.Efficiency(p, s.Resolution)
			if err != nil {
				return err
			}
			fmt.Fprintf(tw, "%.3f\t%d\t%.3f\t%.3f\t%.2f\t%.2f\t%.3f\t%.3f\n",
				s.Resolution, p, s.Time[i], tm, s.Speedup[i], sm, s.Efficiency[i], em)
		}
	}
	return tw.Flush()
}

// Console writes the full text report: parameters, optimal thread counts,
// the scalability verdict and the comparison table, in that order.
func Console(w io.Writer, res scaling.FitResult, series []dataset.Series) error {
	p := res.Params
	m := scaling.New(&p)

	Params(w, res)
	fmt.Fprintln(w)
	if err := OptimalThreads(w, m, series); err != nil {
		return err
	}
	fmt.Fprintln(w)
	if err := Classification(w, series); err != nil {
		return err
	}
	fmt.Fprintln(w)
	return Comparison(w, series, m)
}
