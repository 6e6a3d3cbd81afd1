package service

import "errors"

var (
	ErrInputTooLarge     = errors.New("input too large")
	ErrMissingSource     = errors.New("source is required")
	ErrInvalidSubstitute = errors.New("substitute must be a single character")
	ErrUnknownDirection  = errors.New("unknown direction")
)
