package fit

import "math"

// chiSquare computes the reduced chi-square
//
//	χ²/N = (1/N) Σ_i w_i·(model_i - data_i)²
//
// with per-point weights w_i = 1/σ_i².
func chiSquare(model, data, weight []float64) float64 {
	var sum float64
	for i := range model {
		r := model[i] - data[i]
		sum += weight[i] * r * r
	}
	return sum / float64(len(model))
}

// chiSquareGrad computes dχ²/dp for one parameter from the model residuals
// and the per-point model derivative dmodel/dp.
func chiSquareGrad(model, data, weight, deriv []float64) float64 {
	var sum float64
	for i := range model {
		sum += weight[i] * (model[i] - data[i]) * deriv[i]
	}
	return 2 * sum / float64(len(model))
}

// relDiff is the symmetric relative difference used by gradient checks.
func relDiff(a, b float64) float64 {
	scale := math.Max(math.Abs(a), math.Abs(b))
	if scale == 0 {
		return 0
	}
	return math.Abs(a-b) / scale
}
