package core

import "errors"

var (
	ErrUnknownNetwork    = errors.New("unknown network")
	ErrMissingSecret     = errors.New("missing secret")
	ErrInvalidDescriptor = errors.New("invalid descriptor")
)
