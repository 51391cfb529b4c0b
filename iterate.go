package grabcut

import (
	"math"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/floats"

	"grabcut-engine/internal/dataterm"
	"grabcut-engine/internal/gcerrors"
	"grabcut-engine/internal/gmm"
	"grabcut-engine/internal/raster"
	"grabcut-engine/internal/sampling"
)

func colorAt(img gocv.Mat, x, y int) gmm.Color {
	v := img.GetVecbAt(y, x)
	return gmm.Color{float64(v[0]), float64(v[1]), float64(v[2])}
}

// seedModels partitions img's colors by mask and runs k-means once per
// class to give both GMMs their initial component assignment, then feeds
// the clustered samples through BeginLearning/AddSample/EndLearning.
func seedModels(img, mask gocv.Mat, state *State) error {
	bgSamples, fgSamples := sampling.Collect(img, mask)

	bgLabels, err := sampling.Seed(bgSamples, gmm.Components)
	if err != nil {
		return gcerrors.Wrap(err, "grabcut")
	}
	fgLabels, err := sampling.Seed(fgSamples, gmm.Components)
	if err != nil {
		return gcerrors.Wrap(err, "grabcut")
	}

	state.Background.BeginLearning()
	for i, s := range bgSamples {
		state.Background.AddSample(int(bgLabels[i]), gmm.Color{float64(s.X), float64(s.Y), float64(s.Z)})
	}
	if err := state.Background.EndLearning(); err != nil {
		return gcerrors.Wrap(err, "grabcut")
	}

	state.Foreground.BeginLearning()
	for i, s := range fgSamples {
		state.Foreground.AddSample(int(fgLabels[i]), gmm.Color{float64(s.X), float64(s.Y), float64(s.Z)})
	}
	if err := state.Foreground.EndLearning(); err != nil {
		return gcerrors.Wrap(err, "grabcut")
	}
	return nil
}

// assignComponents picks, for every pixel, the component of whichever GMM
// its current trimap label routes it to (BG/PR_BG -> background, FG/PR_FG
// -> foreground) that maximizes the mixture density there.
func assignComponents(img, mask gocv.Mat, state *State) *raster.Grid[int32] {
	rows, cols := img.Rows(), img.Cols()
	idx := raster.NewGrid[int32](cols, rows)

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			c := colorAt(img, x, y)
			var k int
			switch dataterm.Label(mask.GetUCharAt(y, x)) {
			case dataterm.BG, dataterm.PrBG:
				k = state.Background.ArgmaxComponent(c)
			default:
				k = state.Foreground.ArgmaxComponent(c)
			}
			idx.Set(x, y, int32(k))
		}
	}
	return idx
}

// learnGMMs re-estimates both GMMs from the current component assignment:
// every pixel's color is added to its class's model under the component
// assignComponents already picked for it.
func learnGMMs(img, mask gocv.Mat, compIdx *raster.Grid[int32], state *State) error {
	state.Background.BeginLearning()
	state.Foreground.BeginLearning()

	rows, cols := img.Rows(), img.Cols()
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			c := colorAt(img, x, y)
			k := int(compIdx.At(x, y))
			switch dataterm.Label(mask.GetUCharAt(y, x)) {
			case dataterm.BG, dataterm.PrBG:
				state.Background.AddSample(k, c)
			default:
				state.Foreground.AddSample(k, c)
			}
		}
	}

	if err := state.Background.EndLearning(); err != nil {
		return gcerrors.Wrap(err, "grabcut")
	}
	if err := state.Foreground.EndLearning(); err != nil {
		return gcerrors.Wrap(err, "grabcut")
	}
	return nil
}

// dataEnergy sums the current mask's per-pixel data term under the
// class its label routes it to: -log P_bg(c) for BG/PR_BG, -log P_fg(c)
// for FG/PR_FG. Segment logs this once per iteration as a diagnostic; it
// should be non-increasing as the GMMs and the cut converge.
func dataEnergy(img, mask gocv.Mat, state *State) float64 {
	rows, cols := img.Rows(), img.Cols()
	terms := make([]float64, 0, rows*cols)

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			c := colorAt(img, x, y)
			switch dataterm.Label(mask.GetUCharAt(y, x)) {
			case dataterm.BG, dataterm.PrBG:
				terms = append(terms, -math.Log(state.Background.Evaluate(c)))
			default:
				terms = append(terms, -math.Log(state.Foreground.Evaluate(c)))
			}
		}
	}
	return floats.Sum(terms)
}
