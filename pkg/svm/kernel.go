package svm

import (
	"math"
	"strconv"

	"loganalytics-pipeline/pkg/errors"
)

func validateKernel(kernel string) error {
	switch kernel {
	case KernelLinear, KernelRBF, KernelPoly, KernelSigmoid:
		return nil
	default:
		return errors.InvalidInput("svm", "Fit", "unknown kernel: "+kernel)
	}
}

// resolveGamma computes gamma_value from the configured gamma setting:
// "auto" -> 1/n_features, "scale" -> 1/(n_features * var(X)), or the
// setting parsed as a positive number.
func resolveGamma(gamma string, x [][]float64, nFeatures int) (float64, error) {
	switch gamma {
	case "", GammaAuto:
		if nFeatures == 0 {
			return 0, errors.InvalidInput("svm", "Fit", "cannot compute gamma for zero features")
		}
		return 1.0 / float64(nFeatures), nil
	case GammaScale:
		variance := datasetVariance(x)
		if variance <= 0 || nFeatures == 0 {
			return 0, errors.InvalidInput("svm", "Fit", "cannot compute scale gamma: zero variance or zero features")
		}
		return 1.0 / (float64(nFeatures) * variance), nil
	default:
		val, err := strconv.ParseFloat(gamma, 64)
		if err != nil || val <= 0 {
			return 0, errors.InvalidInput("svm", "Fit", "gamma must be \"auto\", \"scale\", or a positive number")
		}
		return val, nil
	}
}

// datasetVariance computes the variance of every value in x taken as one
// flat list, matching the scikit-learn "scale" convention of
// var(X.flatten()).
func datasetVariance(x [][]float64) float64 {
	var count int
	var sum float64
	for _, row := range x {
		for _, v := range row {
			sum += v
			count++
		}
	}
	if count == 0 {
		return 0
	}
	mean := sum / float64(count)

	var sqDiff float64
	for _, row := range x {
		for _, v := range row {
			d := v - mean
			sqDiff += d * d
		}
	}
	return sqDiff / float64(count)
}

// kernelFunc returns the K(a, b) function for the given kernel name.
func kernelFunc(kernel string, gamma float64, degree int, coef0 float64) func(a, b []float64) float64 {
	switch kernel {
	case KernelLinear:
		return func(a, b []float64) float64 { return dot(a, b) }
	case KernelRBF:
		return func(a, b []float64) float64 {
			return math.Exp(-gamma * sqDist(a, b))
		}
	case KernelPoly:
		return func(a, b []float64) float64 {
			return math.Pow(gamma*dot(a, b)+coef0, float64(degree))
		}
	case KernelSigmoid:
		return func(a, b []float64) float64 {
			return math.Tanh(gamma*dot(a, b) + coef0)
		}
	default:
		return func(a, b []float64) float64 { return dot(a, b) }
	}
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func sqDist(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
