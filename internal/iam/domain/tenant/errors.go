package tenant

import "errors"

var (
	ErrNotFound     = errors.New("escola not found")
	ErrInvalidInput = errors.New("invalid input data")
)
