// Package gmm implements the 5-component full-covariance Gaussian mixture
// model GrabCut fits once per color class (background, foreground). The
// parameter layout and learning algorithm mirror OpenCV's GMM class
// (grabcut.cpp) exactly: a flat 13*K float64 vector of component weights,
// means, and row-major covariances, with an inverse-covariance/determinant
// cache recomputed after every learning pass.
package gmm

import (
	"math"

	"grabcut-engine/internal/gcerrors"
)

// Components is the fixed number of Gaussian components per class (K).
const Components = 5

const (
	modelSize = 13 // 1 weight + 3 mean + 9 covariance, per component
	epsilon   = 2.220446049250313e-16
	// whiteNoise is added to the diagonal of a singular covariance to make
	// it invertible again, matching the reference's regularization step.
	whiteNoise = 0.01
)

// Color is an RGB (or BGR — the core never reinterprets channel order)
// triple in float64.
type Color [3]float64

// Model is one class's GMM: a caller-owned 13*K parameter buffer plus a
// derived inverse-covariance/determinant cache that lives on the same
// value, never behind a separate aliased view.
type Model struct {
	weights []float64 // len 13*Components; coefs | means | covariances

	invCov [Components][3][3]float64
	det    [Components]float64

	// learning accumulators, reset by BeginLearning
	sums   [Components][3]float64
	prods  [Components][3][3]float64
	counts [Components]int
	totalN int
}

// New creates a Model from a caller-owned parameter buffer. A nil or empty
// slice yields a fresh zeroed model (all components inactive); any other
// length is a shape error.
func New(weights []float64) (*Model, error) {
	if len(weights) == 0 {
		weights = make([]float64, modelSize*Components)
	} else if len(weights) != modelSize*Components {
		return nil, gcerrors.ErrInvalidModel
	}

	m := &Model{weights: weights}
	for k := 0; k < Components; k++ {
		if m.coef(k) > 0 {
			if err := m.refreshInverseAndDet(k); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// Weights returns the underlying parameter buffer, so callers can persist
// it across Segment calls.
func (m *Model) Weights() []float64 { return m.weights }

func (m *Model) coef(k int) float64 { return m.weights[k] }

func (m *Model) mean(k int) []float64 {
	off := Components + 3*k
	return m.weights[off : off+3]
}

func (m *Model) cov(k int) []float64 {
	off := Components + 3*Components + 9*k
	return m.weights[off : off+9]
}

// Evaluate returns the mixture likelihood P(c) = sum_k pi_k * N(c; mu_k,
// Sigma_k).
func (m *Model) Evaluate(c Color) float64 {
	res := 0.0
	for k := 0; k < Components; k++ {
		res += m.coef(k) * m.EvaluateComponent(k, c)
	}
	return res
}

// EvaluateComponent returns component k's Gaussian density N(c; mu_k,
// Sigma_k), or 0 if the component is inactive (pi_k == 0). The weight pi_k
// is not applied here; Evaluate applies it.
func (m *Model) EvaluateComponent(k int, c Color) float64 {
	if m.coef(k) <= 0 {
		return 0
	}
	if m.det[k] <= epsilon {
		panic("gmm: EvaluateComponent called on component with non-positive determinant")
	}

	mean := m.mean(k)
	diff := [3]float64{c[0] - mean[0], c[1] - mean[1], c[2] - mean[2]}
	inv := &m.invCov[k]

	mult := diff[0]*(diff[0]*inv[0][0]+diff[1]*inv[1][0]+diff[2]*inv[2][0]) +
		diff[1]*(diff[0]*inv[0][1]+diff[1]*inv[1][1]+diff[2]*inv[2][1]) +
		diff[2]*(diff[0]*inv[0][2]+diff[1]*inv[1][2]+diff[2]*inv[2][2])

	return 1.0 / math.Sqrt(m.det[k]) * math.Exp(-0.5*mult)
}

// ArgmaxComponent returns the component index maximizing the unweighted
// density N_k(c) (pi_k is not applied; inactive components score 0), ties
// broken by smallest index. Matches the reference convention exactly: the
// running maximum starts at 0 and only strictly-greater densities replace
// it, so an all-zero result (e.g. every component inactive) yields 0.
func (m *Model) ArgmaxComponent(c Color) int {
	best := 0
	max := 0.0
	for k := 0; k < Components; k++ {
		p := m.EvaluateComponent(k, c)
		if p > max {
			best = k
			max = p
		}
	}
	return best
}

// BeginLearning zeroes the per-component running sums ahead of a fresh
// AddSample/EndLearning pass.
func (m *Model) BeginLearning() {
	for k := 0; k < Components; k++ {
		m.sums[k] = [3]float64{}
		m.prods[k] = [3][3]float64{}
		m.counts[k] = 0
	}
	m.totalN = 0
}

// AddSample accumulates one observed color into component k's running
// statistics.
func (m *Model) AddSample(k int, c Color) {
	m.sums[k][0] += c[0]
	m.sums[k][1] += c[1]
	m.sums[k][2] += c[2]

	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m.prods[k][i][j] += c[i] * c[j]
		}
	}
	m.counts[k]++
	m.totalN++
}

// EndLearning re-estimates pi_k, mu_k, and Sigma_k from the accumulated
// samples for every component with at least one sample, regularizing and
// refreshing the inverse-covariance cache. Components with zero samples get
// pi_k = 0 and are left inactive. Returns gcerrors.ErrSingularCovariance if
// a covariance is still singular after white-noise regularization.
func (m *Model) EndLearning() error {
	for k := 0; k < Components; k++ {
		n := m.counts[k]
		if n == 0 {
			m.weights[k] = 0
			continue
		}

		m.weights[k] = float64(n) / float64(m.totalN)

		mean := m.mean(k)
		for i := 0; i < 3; i++ {
			mean[i] = m.sums[k][i] / float64(n)
		}

		cov := m.cov(k)
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				cov[3*i+j] = m.prods[k][i][j]/float64(n) - mean[i]*mean[j]
			}
		}

		if determinant3x3(cov) <= epsilon {
			cov[0] += whiteNoise
			cov[4] += whiteNoise
			cov[8] += whiteNoise
		}

		if err := m.refreshInverseAndDet(k); err != nil {
			return err
		}
	}
	return nil
}

// refreshInverseAndDet recomputes the determinant and inverse of
// component k's covariance via the explicit 3x3 adjugate formula, as the
// reference implementation does — a general solver would be overkill for a
// fixed 3x3 matrix and the spec calls out this exact formula.
func (m *Model) refreshInverseAndDet(k int) error {
	c := m.cov(k)
	dtrm := determinant3x3(c)
	m.det[k] = dtrm
	if dtrm <= epsilon {
		return gcerrors.ErrSingularCovariance
	}

	inv := &m.invCov[k]
	inv[0][0] = (c[4]*c[8] - c[5]*c[7]) / dtrm
	inv[1][0] = -(c[3]*c[8] - c[5]*c[6]) / dtrm
	inv[2][0] = (c[3]*c[7] - c[4]*c[6]) / dtrm
	inv[0][1] = -(c[1]*c[8] - c[2]*c[7]) / dtrm
	inv[1][1] = (c[0]*c[8] - c[2]*c[6]) / dtrm
	inv[2][1] = -(c[0]*c[7] - c[1]*c[6]) / dtrm
	inv[0][2] = (c[1]*c[5] - c[2]*c[4]) / dtrm
	inv[1][2] = -(c[0]*c[5] - c[2]*c[3]) / dtrm
	inv[2][2] = (c[0]*c[4] - c[1]*c[3]) / dtrm
	return nil
}

// determinant3x3 computes det of a row-major 3x3 matrix stored as a 9-slice.
func determinant3x3(c []float64) float64 {
	return c[0]*(c[4]*c[8]-c[5]*c[7]) - c[1]*(c[3]*c[8]-c[5]*c[6]) + c[2]*(c[3]*c[7]-c[4]*c[6])
}
