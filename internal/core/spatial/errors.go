package spatial

import "errors"

// Configuration errors. Engine operations themselves never fail.
var (
	ErrInvalidConfig = errors.New("invalid spatial configuration")
)
