package core

import "errors"

var (
	// ErrInsufficientData indicates the input record is too short for the
	// requested processing step.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrInvalidParameter indicates an out-of-range acquisition parameter
	// such as a non-positive sample rate or RPM.
	ErrInvalidParameter = errors.New("invalid parameter")
)
