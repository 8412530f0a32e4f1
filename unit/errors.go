package unit

import "errors"

// Sentinel errors for the unit package.
// Use errors.Is to check: errors.Is(err, unit.ErrDimensionMismatch)
var (
	ErrDimensionMismatch = errors.New("unit: dimension mismatch")
	ErrShapeMismatch     = errors.New("unit: shape mismatch")
)
