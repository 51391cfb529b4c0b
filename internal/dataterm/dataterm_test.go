package dataterm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"grabcut-engine/internal/gmm"
)

func seededModel(t *testing.T, color gmm.Color) *gmm.Model {
	t.Helper()
	m, err := gmm.New(nil)
	require.NoError(t, err)
	m.BeginLearning()
	for i := 0; i < 10; i++ {
		m.AddSample(0, color)
	}
	require.NoError(t, m.EndLearning())
	return m
}

func TestSourceWeightHardLabels(t *testing.T) {
	bgd := seededModel(t, gmm.Color{0, 0, 0})
	fgd := seededModel(t, gmm.Color{255, 255, 255})
	const lambda = 450.0

	if got := SourceWeight(FG, gmm.Color{1, 1, 1}, bgd, fgd, lambda); got != lambda {
		t.Fatalf("SourceWeight(FG) = %v, want lambda %v", got, lambda)
	}
	if got := SourceWeight(BG, gmm.Color{1, 1, 1}, bgd, fgd, lambda); got != 0 {
		t.Fatalf("SourceWeight(BG) = %v, want 0", got)
	}
}

func TestSinkWeightHardLabels(t *testing.T) {
	bgd := seededModel(t, gmm.Color{0, 0, 0})
	fgd := seededModel(t, gmm.Color{255, 255, 255})
	const lambda = 450.0

	if got := SinkWeight(BG, gmm.Color{1, 1, 1}, bgd, fgd, lambda); got != lambda {
		t.Fatalf("SinkWeight(BG) = %v, want lambda %v", got, lambda)
	}
	if got := SinkWeight(FG, gmm.Color{1, 1, 1}, bgd, fgd, lambda); got != 0 {
		t.Fatalf("SinkWeight(FG) = %v, want 0", got)
	}
}

func TestUndeterminedLabelsEvaluateModels(t *testing.T) {
	bgd := seededModel(t, gmm.Color{0, 0, 0})
	fgd := seededModel(t, gmm.Color{255, 255, 255})
	const lambda = 450.0

	// A background-like color should be cheap to cut from the source
	// (SourceWeight, -log P_bg, is low) and expensive to cut from the sink
	// (SinkWeight, -log P_fg, is high).
	color := gmm.Color{1, 1, 1}
	srcW := SourceWeight(PrBG, color, bgd, fgd, lambda)
	sinkW := SinkWeight(PrBG, color, bgd, fgd, lambda)
	if srcW >= sinkW {
		t.Fatalf("background-like color: SourceWeight=%v should be less than SinkWeight=%v", srcW, sinkW)
	}
}

func TestLabelConstantsMatchOpenCVEncoding(t *testing.T) {
	if BG != 0 || FG != 1 || PrBG != 2 || PrFG != 3 {
		t.Fatalf("label encoding drifted from OpenCV convention: BG=%d FG=%d PrBG=%d PrFG=%d", BG, FG, PrBG, PrFG)
	}
}
