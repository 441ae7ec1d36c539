package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrDuplicateJob    = errors.New("duplicate job id")
	ErrInvalidRequest  = errors.New("invalid request")
	ErrProviderFailure = errors.New("provider failure")
	ErrInvalidContent  = errors.New("invalid generated content")
)
