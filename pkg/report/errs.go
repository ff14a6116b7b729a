package report

import "errors"

var (
	// ErrNoSeries is returned when a report is requested for an empty dataset.
	ErrNoSeries = errors.New("report: no series data")

	// ErrNoModel is returned when a report section needs model predictions
	// but no model was supplied.
	ErrNoModel = errors.New("report: model required")
)
