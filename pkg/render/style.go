// Package render draws the scalability charts with gonum/plot.
package render

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/ocubes/mcscale/pkg/dataset"
)

// Style configures chart rendering. Renderers take it by value, so two
// charts in one process can be styled independently instead of through
// process-wide plotting state.
type Style struct {
	// Width and Height size the canvas.
	Width  vg.Length
	Height vg.Length
	// Palette names a qualitative ColorBrewer palette.
	Palette string
	// Format selects the output encoding: png or svg.
	Format string

	LineWidth  vg.Length
	MarkerSize vg.Length
}

var _defaultStyle = Style{
	Width:      10 * vg.Inch,
	Height:     6 * vg.Inch,
	Palette:    "Set1",
	Format:     "png",
	LineWidth:  vg.Points(2),
	MarkerSize: vg.Points(3.5),
}

// DefaultStyle returns the style the command-line tool renders with.
func DefaultStyle() Style {
	return _defaultStyle
}

// merged fills zero fields from the defaults, field by field.
func (s Style) merged() Style {
	if s.Width <= 0 {
		s.Width = _defaultStyle.Width
	}
	if s.Height <= 0 {
		s.Height = _defaultStyle.Height
	}
	if s.Palette == "" {
		s.Palette = _defaultStyle.Palette
	}
	if s.Format == "" {
		s.Format = _defaultStyle.Format
	}
	if s.LineWidth <= 0 {
		s.LineWidth = _defaultStyle.LineWidth
	}
	if s.MarkerSize <= 0 {
		s.MarkerSize = _defaultStyle.MarkerSize
	}
	return s
}

func (s Style) validFormat() error {
	switch s.Format {
	case "png", "svg":
		return nil
	}
	return fmt.Errorf("%w: %q", ErrFormat, s.Format)
}

// Save renders p into dir as name with the style's format extension,
// creating dir as needed, and returns the written path.
func Save(p *plot.Plot, st Style, dir, name string) (string, error) {
	st = st.merged()
	if err := st.validFormat(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("render: %w", err)
	}
	path := filepath.Join(dir, name+"."+st.Format)
	if err := p.Save(st.Width, st.Height, path); err != nil {
		return "", fmt.Errorf("render: save %s: %w", path, err)
	}
	return path, nil
}

func newPlot(st Style, title, xlabel, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	p.Legend.Top = true
	p.Legend.Padding = vg.Millimeter
	p.Add(plotter.NewGrid())
	return p
}

// seriesColors picks n distinct colors from the style's palette. Brewer
// palettes start at three entries, so smaller requests borrow from the
// three-color set.
func seriesColors(st Style, n int) ([]color.Color, error) {
	if n < 1 {
		return nil, nil
	}
	req := n
	if req < 3 {
		req = 3
	}
	pal, err := brewer.GetPalette(brewer.TypeQualitative, st.Palette, req)
	if err != nil {
		return nil, fmt.Errorf("render: palette %q: %w", st.Palette, err)
	}
	return pal.Colors()[:n], nil
}

// marker shapes cycle per series
var glyphs = []draw.GlyphDrawer{
	draw.CircleGlyph{},
	draw.SquareGlyph{},
	draw.TriangleGlyph{},
	draw.PlusGlyph{},
}

func threadTicks(series []dataset.Series) plot.ConstantTicks {
	seen := make(map[int]struct{})
	var ticks []plot.Tick
	for _, s := range series {
		for _, p := range s.Threads {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			ticks = append(ticks, plot.Tick{Value: float64(p), Label: strconv.Itoa(p)})
		}
	}
	sort.Slice(ticks, func(i, j int) bool { return ticks[i].Value < ticks[j].Value })
	return plot.ConstantTicks(ticks)
}

func maxThreadOf(series []dataset.Series) int {
	max := 1
	for _, s := range series {
		for _, p := range s.Threads {
			if p > max {
				max = p
			}
		}
	}
	return max
}
