package config

import "errors"

var (
	// ErrInvalid is returned when a configuration value is out of range.
	ErrInvalid = errors.New("config: invalid value")

	// ErrLoad is returned when a configuration source cannot be read.
	ErrLoad = errors.New("config: load failed")
)
