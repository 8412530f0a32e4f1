// Package fit estimates plasma parameters from a measured scattering
// spectrum by gradient descent on a chi-square loss.
//
// It provides:
//
//   - [Fitter.Fit], which minimizes the reduced chi-square between a
//     measured spectrum and the forward model using the [Adam] optimizer
//     with a [CosineAnnealing] learning rate schedule. Loss gradients are
//     exact, assembled from the forward-mode spectrum derivatives; positive
//     parameters are optimized in log space.
//
//   - [CheckGradient], which validates the analytic loss gradient against
//     central finite differences.
//
// # Usage
//
//	f, err := fit.NewFitter(synth, fit.Config{})
//	res, err := f.Fit(ctx, data, geom, initial)
//
// Fitting requires at least as many grid points as free parameters and a
// data grid identical to the synthesis grid.
package fit
