package dataset

import "errors"

var (
	// ErrHeader indicates the CSV is missing one of the required columns.
	ErrHeader = errors.New("dataset: missing required column")

	// ErrNoRecords indicates an empty file or table.
	ErrNoRecords = errors.New("dataset: no data rows")

	// ErrRecord indicates a row with out-of-domain values.
	ErrRecord = errors.New("dataset: invalid record")

	// ErrTableShape indicates a table whose time series do not line up with
	// its thread list.
	ErrTableShape = errors.New("dataset: table shape mismatch")
)
