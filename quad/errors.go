package quad

import "errors"

// Sentinel errors for the quad package.
// Use errors.Is to check: errors.Is(err, quad.ErrNonConvergence)
var (
	ErrNonConvergence = errors.New("quad: integral failed to converge within panel budget")
	ErrInvalidInput   = errors.New("quad: invalid input")
)
