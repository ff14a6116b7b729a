package report

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/ocubes/mcscale/pkg/dataset"
	"github.com/ocubes/mcscale/pkg/scaling"
	"github.com/ocubes/mcscale/pkg/types"
)

type paramLine struct {
	Label string
	Value string
	Err   string
}

type optLine struct {
	Resolution float64
	Threads    float64
}

type cmpRow struct {
	Resolution               float64
	Threads                  int
	TimeExp, TimeModel       float64
	SpeedupExp, SpeedupModel float64
	EffExp, EffModel         float64
}

// WriteHTML renders the whole report as a single self-contained HTML page.
// Chart paths are embedded as <img> references relative to the page, so the
// page and the chart files are expected to live in the same directory.
func WriteHTML(w io.Writer, res scaling.FitResult, series []dataset.Series, charts []string) error {
	if len(series) == 0 {
		return ErrNoSeries
	}

	p := res.Params
	m := scaling.New(&p)
	se := res.StdErr

	params := []paramLine{
		{"k (spatial efficiency factor)", fmt.Sprintf("%.6f", p.K), fmtStdErr(se.K)},
		{"unit cost", fmt.Sprintf("%.2e s/cube (%s per cube)", p.UnitCost, types.Seconds(p.UnitCost).Humanized()), fmtStdErr(se.UnitCost)},
		{"task overhead", fmt.Sprintf("%.2e s/task (%s per task)", p.TaskOverhead, types.Seconds(p.TaskOverhead).Humanized()), fmtStdErr(se.TaskOverhead)},
		{"sync cost", fmt.Sprintf("%.2e s/level (%s per level)", p.SyncCost, types.Seconds(p.SyncCost).Humanized()), fmtStdErr(se.SyncCost)},
	}

	var optimal []optLine
	for _, s := range series {
		opt, err := m.OptimalThreads(s.Resolution)
		if err != nil {
			continue
		}
		optimal = append(optimal, optLine{Resolution: s.Resolution, Threads: opt})
	}

	var rows []cmpRow
	for _, s := range series {
		for i, threads := range s.Threads {
			tm, err := m.Time(threads, s.Resolution)
			if err != nil {
				return err
			}
			sm, err := m.Speedup(threads, s.Resolution)
			if err != nil {
				return err
			}
			em, err := m.Efficiency(threads, s.Resolution)
			if err != nil {
				return err
			}
			rows = append(rows, cmpRow{
				Resolution: s.Resolution,
				Threads:    threads,
				TimeExp:    s.Time[i], TimeModel: tm,
				SpeedupExp: s.Speedup[i], SpeedupModel: sm,
				EffExp: s.Efficiency[i], EffModel: em,
			})
		}
	}

	term, termRes, termThreads, hasVerdict := bestTerminal(series)

	reason := ""
	if res.Reason != nil {
		reason = res.Reason.Error()
	}

	data := struct {
		GeneratedAt     string
		Fallback        bool
		Reason          string
		SSE             float64
		Evaluations     int
		Params          []paramLine
		Optimal         []optLine
		Rows            []cmpRow
		HasVerdict      bool
		Terminal        float64
		TerminalRes     float64
		TerminalThreads int
		Class           string
		Charts          []string
	}{
		GeneratedAt:     time.Now().Format("2006-01-02 15:04:05"),
		Fallback:        res.Fallback,
		Reason:          reason,
		SSE:             res.SSE,
		Evaluations:     res.Evaluations,
		Params:          params,
		Optimal:         optimal,
		Rows:            rows,
		HasVerdict:      hasVerdict,
		Terminal:        term,
		TerminalRes:     termRes,
		TerminalThreads: termThreads,
		Class:           classify(term),
		Charts:          charts,
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

var tpl = template.Must(template.New("rep").Parse(`<!doctype html>
<html lang="en"><meta charset="utf-8">
<title>Marching Cubes Scalability Report</title>
<style>
body{font-family:system-ui,Segoe UI,Roboto,Helvetica,Arial,sans-serif;margin:20px}
h1,h2{margin:0 0 8px}
table{border-collapse:collapse;width:100%;font-size:14px}
th,td{border:1px solid #ddd;padding:6px 8px;text-align:right}
th:first-child,td:first-child{text-align:left}
ul{margin:6px 0 14px;padding-left:20px}
code{background:#f5f5f5;padding:2px 4px;border-radius:4px}
img{max-width:100%;border:1px solid #eee;margin:6px 0}
.small{color:#555}
.warn{background:#fff3cd;border:1px solid #e0c36a;padding:8px 10px;border-radius:6px}
</style>

<h1>Marching Cubes Scalability Report</h1>

<p class="small">
Generated {{.GeneratedAt}} &nbsp;|&nbsp;
SSE: {{printf "%.3e" .SSE}} &nbsp;|&nbsp;
Evaluations: {{.Evaluations}}
</p>

{{if .Fallback}}
<p class="warn">Fit did not converge ({{.Reason}}). Parameters below are the initial guess.</p>
{{end}}

<h2>Fitted parameters</h2>
<ul>
{{range .Params}}
  <li>{{.Label}}: <code>{{.Value}}{{.Err}}</code></li>
{{end}}
</ul>

{{if .Optimal}}
<h2>Optimal thread count</h2>
<ul>
{{range .Optimal}}
  <li>r={{.Resolution}}: p_opt = {{printf "%.1f" .Threads}} threads</li>
{{end}}
</ul>
{{end}}

{{if .HasVerdict}}
<h2>Scalability</h2>
<p>Best terminal efficiency {{printf "%.3f" .Terminal}} at r={{.TerminalRes}} on {{.TerminalThreads}} threads: <b>{{.Class}}</b></p>
<p>Isoefficiency function: <code>W = k*p*task_overhead / (7*(1-E))</code></p>
{{end}}

<h2>Measured vs model</h2>
<table>
<thead>
<tr>
<th>resolution</th><th>threads</th>
<th>T exp (s)</th><th>T model (s)</th>
<th>S exp</th><th>S model</th>
<th>E exp</th><th>E model</th>
</tr>
</thead>
<tbody>
{{range .Rows}}
<tr>
<td>{{printf "%.3f" .Resolution}}</td>
<td>{{.Threads}}</td>
<td>{{printf "%.3f" .TimeExp}}</td>
<td>{{printf "%.3f" .TimeModel}}</td>
<td>{{printf "%.2f" .SpeedupExp}}</td>
<td>{{printf "%.2f" .SpeedupModel}}</td>
<td>{{printf "%.3f" .EffExp}}</td>
<td>{{printf "%.3f" .EffModel}}</td>
</tr>
{{end}}
</tbody>
</table>

{{if .Charts}}
<h2>Charts</h2>
{{range .Charts}}
<p><img src="{{.}}" alt="{{.}}"></p>
{{end}}
{{end}}
</html>`))
