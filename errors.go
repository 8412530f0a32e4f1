package xrts

import "errors"

// Sentinel errors for the xrts package.
// Use errors.Is to check: errors.Is(err, xrts.ErrUnknownVariant)
var (
	ErrUnknownVariant     = errors.New("xrts: unknown model variant")
	ErrInvalidPlasmaState = errors.New("xrts: invalid plasma state")
	ErrInvalidGeometry    = errors.New("xrts: invalid geometry")
	ErrInvalidGrid        = errors.New("xrts: invalid energy grid")
	ErrInvalidSpectrum    = errors.New("xrts: invalid spectrum")
	ErrNonDifferentiable  = errors.New("xrts: model variant is not differentiable")
)
