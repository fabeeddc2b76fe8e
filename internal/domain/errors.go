package domain

import "errors"

var (
	// ErrInvalidRepository is returned when a repository URL does not yield both an owner and a name.
	ErrInvalidRepository = errors.New("invalid repository reference")

	// ErrMalformedDate marks a date filter that could not be parsed; the bound is dropped.
	ErrMalformedDate = errors.New("malformed date filter")

	// ErrContradictoryRange marks a "to" date earlier than the "from" date.
	ErrContradictoryRange = errors.New("to date is earlier than from date")
)
