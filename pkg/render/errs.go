package render

import "errors"

var (
	// ErrNoSeries indicates a chart was asked to draw zero series.
	ErrNoSeries = errors.New("render: no series to draw")

	// ErrNoModel indicates a model-only chart got a nil model.
	ErrNoModel = errors.New("render: chart requires a model")

	// ErrFormat indicates an output format other than png or svg.
	ErrFormat = errors.New("render: unsupported format")

	// ErrChartDomain indicates inputs a log-scaled chart cannot place, such
	// as a resolution at or above 1.
	ErrChartDomain = errors.New("render: input outside chart domain")
)
