// Package svm implements a one-class support vector machine trained by a
// simplified two-variable sequential minimal optimization loop, for
// unsupervised outlier scoring over feature vectors.
package svm

import (
	"math"
	"math/rand"

	"loganalytics-pipeline/pkg/errors"
)

// Kernel names accepted by Config.Kernel.
const (
	KernelLinear  = "linear"
	KernelRBF     = "rbf"
	KernelPoly    = "poly"
	KernelSigmoid = "sigmoid"
)

// Gamma names accepted by Config.Gamma in addition to a positive number.
const (
	GammaAuto  = "auto"
	GammaScale = "scale"
)

// Config configures training.
type Config struct {
	Kernel  string
	Nu      float64
	Degree  int
	Coef0   float64
	Gamma   string // "auto", "scale", or a decimal number as a string
	Tol     float64
	MaxIter int
}

// Model is a trained one-class SVM: support vectors, their dual weights,
// and the decision threshold rho.
type Model struct {
	cfg            Config
	gammaValue     float64
	supportVectors [][]float64
	alpha          []float64
	rho            float64
}

func defaultTol(tol float64) float64 {
	if tol <= 0 {
		return 1e-3
	}
	return tol
}

func defaultMaxIter(maxIter int) int {
	if maxIter <= 0 {
		return 100
	}
	return maxIter
}

// Fit trains a one-class SVM on X (rows = samples, columns = features).
func Fit(x [][]float64, cfg Config) (*Model, error) {
	if err := validateKernel(cfg.Kernel); err != nil {
		return nil, err
	}
	if cfg.Nu <= 0 || cfg.Nu > 1 {
		return nil, errors.InvalidInput("svm", "Fit", "nu must be in (0, 1]")
	}
	if len(x) == 0 {
		return nil, errors.InvalidInput("svm", "Fit", "training data must not be empty")
	}
	degree := cfg.Degree
	if degree < 1 {
		degree = 1
	}

	nFeatures := len(x[0])
	gammaValue, err := resolveGamma(cfg.Gamma, x, nFeatures)
	if err != nil {
		return nil, err
	}

	kernelFn := kernelFunc(cfg.Kernel, gammaValue, degree, cfg.Coef0)

	n := len(x)
	k := make([][]float64, n)
	for i := 0; i < n; i++ {
		k[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			k[i][j] = kernelFn(x[i], x[j])
		}
	}

	alpha := trainSMO(k, cfg.Nu, defaultTol(cfg.Tol), defaultMaxIter(cfg.MaxIter))

	tol := defaultTol(cfg.Tol)
	nuN := cfg.Nu * float64(n)

	f := make([]float64, n)
	for i := range f {
		var sum float64
		for j := 0; j < n; j++ {
			sum += alpha[j] * k[i][j]
		}
		f[i] = sum
	}

	var rhoSum float64
	var rhoCount int
	for i, a := range alpha {
		if a > tol && a < nuN-tol {
			rhoSum += f[i]
			rhoCount++
		}
	}
	if rhoCount == 0 {
		for i, a := range alpha {
			if a > tol {
				rhoSum += f[i]
				rhoCount++
			}
		}
	}
	rho := 0.0
	if rhoCount > 0 {
		rho = rhoSum / float64(rhoCount)
	}

	var supportVectors [][]float64
	var supportAlpha []float64
	for i, a := range alpha {
		if a > tol {
			supportVectors = append(supportVectors, x[i])
			supportAlpha = append(supportAlpha, a)
		}
	}
	if len(supportVectors) == 0 {
		return nil, errors.InvalidInput("svm", "Fit", "no support vectors found")
	}

	return &Model{
		cfg:            cfg,
		gammaValue:     gammaValue,
		supportVectors: supportVectors,
		alpha:          supportAlpha,
		rho:            rho,
	}, nil
}

// trainSMO runs the simplified two-variable SMO loop over a precomputed
// kernel matrix and returns the dual variables for every training point.
func trainSMO(k [][]float64, nu, tol float64, maxIter int) []float64 {
	n := len(k)
	nuN := nu * float64(n)

	alpha := make([]float64, n)
	if n >= 2 {
		alpha[0] = nuN / 2
		alpha[1] = nuN / 2
	} else if n == 1 {
		alpha[0] = nuN
	}

	f := make([]float64, n)
	for i := 0; i < n; i++ {
		var sum float64
		for j := 0; j < n; j++ {
			sum += alpha[j] * k[i][j]
		}
		f[i] = sum
	}

	for epoch := 0; epoch < maxIter; epoch++ {
		changed := false

		for i := 0; i < n; i++ {
			if !violatesKKT(alpha[i], f[i], nuN, tol) {
				continue
			}

			j := randomOtherIndex(i, n)
			if j < 0 {
				continue
			}

			eta := 2*k[i][j] - k[i][i] - k[j][j]
			if eta >= 0 {
				continue
			}

			alphaIOld, alphaJOld := alpha[i], alpha[j]
			sum := alphaIOld + alphaJOld

			lo := math.Max(0, sum-nuN)
			hi := math.Min(nuN, sum)
			if lo >= hi {
				continue
			}

			alphaJNew := alphaJOld - (f[i]-f[j])/eta
			if alphaJNew > hi {
				alphaJNew = hi
			} else if alphaJNew < lo {
				alphaJNew = lo
			}

			if math.Abs(alphaJNew-alphaJOld) < 1e-12 {
				continue
			}

			alphaINew := sum - alphaJNew

			deltaI := alphaINew - alphaIOld
			deltaJ := alphaJNew - alphaJOld
			for idx := 0; idx < n; idx++ {
				f[idx] += deltaI*k[i][idx] + deltaJ*k[j][idx]
			}

			alpha[i] = alphaINew
			alpha[j] = alphaJNew
			changed = true
		}

		if !changed {
			break
		}
	}

	return alpha
}

// violatesKKT reports whether alpha[i]'s decision value f[i] violates the
// KKT stationarity condition for a one-class SVM beyond tol.
func violatesKKT(a, fi, nuN, tol float64) bool {
	if a < nuN-tol && fi < -tol {
		return true
	}
	if a > tol && fi > tol {
		return true
	}
	return false
}

func randomOtherIndex(i, n int) int {
	if n < 2 {
		return -1
	}
	j := rand.Intn(n - 1)
	if j >= i {
		j++
	}
	return j
}

// Score returns the signed decision value for x: positive/zero is inlier,
// negative is outlier.
func (m *Model) Score(x []float64) float64 {
	kernelFn := kernelFunc(m.cfg.Kernel, m.gammaValue, maxInt(m.cfg.Degree, 1), m.cfg.Coef0)
	var sum float64
	for j, sv := range m.supportVectors {
		sum += m.alpha[j] * kernelFn(sv, x)
	}
	return sum - m.rho
}

// Predict returns +1 for inliers (score >= 0) and -1 for outliers.
func (m *Model) Predict(x []float64) int {
	if m.Score(x) >= 0 {
		return 1
	}
	return -1
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
