package gmm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grabcut-engine/internal/gcerrors"
)

func TestNewRejectsWrongShape(t *testing.T) {
	_, err := New(make([]float64, 5))
	assert.ErrorIs(t, err, gcerrors.ErrInvalidModel)
}

func TestNewAcceptsNilOrEmpty(t *testing.T) {
	m, err := New(nil)
	require.NoError(t, err)
	assert.Len(t, m.Weights(), modelSize*Components)

	m2, err := New([]float64{})
	require.NoError(t, err)
	assert.Len(t, m2.Weights(), modelSize*Components)
}

func TestFreshModelEvaluatesToZero(t *testing.T) {
	m, err := New(nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, m.Evaluate(Color{10, 20, 30}))
	assert.Equal(t, 0, m.ArgmaxComponent(Color{10, 20, 30}))
}

// clustered returns n samples split evenly between two well-separated
// clusters in color space.
func clustered(n int) []Color {
	out := make([]Color, 0, n)
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			out = append(out, Color{10, 10, 10})
		} else {
			out = append(out, Color{200, 200, 200})
		}
	}
	return out
}

func TestLearningCycleProducesActiveComponents(t *testing.T) {
	m, err := New(nil)
	require.NoError(t, err)

	samples := clustered(40)
	m.BeginLearning()
	for i, c := range samples {
		m.AddSample(i%Components, c)
	}
	require.NoError(t, m.EndLearning())

	// i%Components cycles through 0..4, so every component receives
	// samples, each a mix of both colors; check the mixture assigns nonzero
	// density near a seen sample.
	p := m.Evaluate(Color{10, 10, 10})
	assert.Greater(t, p, 0.0)
}

func TestEndLearningLeavesEmptyComponentsInactive(t *testing.T) {
	m, err := New(nil)
	require.NoError(t, err)

	m.BeginLearning()
	// Only ever touch component 0.
	for i := 0; i < 10; i++ {
		m.AddSample(0, Color{float64(i), float64(i), float64(i)})
	}
	require.NoError(t, m.EndLearning())

	assert.Equal(t, 0.0, m.EvaluateComponent(1, Color{5, 5, 5}))
	assert.Equal(t, 0, m.ArgmaxComponent(Color{5, 5, 5}))
}

func TestEndLearningRegularizesSingularCovariance(t *testing.T) {
	m, err := New(nil)
	require.NoError(t, err)

	m.BeginLearning()
	// Every sample identical: raw covariance is the zero matrix, which
	// EndLearning must regularize with white noise instead of returning
	// ErrSingularCovariance.
	for i := 0; i < 5; i++ {
		m.AddSample(0, Color{50, 50, 50})
	}
	require.NoError(t, m.EndLearning())

	assert.Greater(t, m.EvaluateComponent(0, Color{50, 50, 50}), 0.0)
}

func TestArgmaxComponentPrefersDenserComponent(t *testing.T) {
	m, err := New(nil)
	require.NoError(t, err)

	m.BeginLearning()
	for i := 0; i < 20; i++ {
		m.AddSample(0, Color{0, 0, 0})
	}
	for i := 0; i < 20; i++ {
		m.AddSample(1, Color{255, 255, 255})
	}
	require.NoError(t, m.EndLearning())

	assert.Equal(t, 0, m.ArgmaxComponent(Color{1, 1, 1}))
	assert.Equal(t, 1, m.ArgmaxComponent(Color{254, 254, 254}))
}
