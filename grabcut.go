package grabcut

import (
	"image"
	"time"

	"gocv.io/x/gocv"

	"grabcut-engine/internal/gcerrors"
	"grabcut-engine/internal/graph"
	"grabcut-engine/internal/maxflow"
	"grabcut-engine/internal/segment"
	"grabcut-engine/internal/weights"
)

// Segment runs (or continues) a GrabCut segmentation. mask is read and
// written in place; on InitWithRect it is replaced outright, on
// InitWithMask and Eval it must already hold a valid trimap.
//
// mode selects what happens before the iteration loop:
//   - InitWithRect: mask is rebuilt from rect (BG outside, PR_FG inside,
//     clipped to img's bounds) and both GMMs are seeded from it.
//   - InitWithMask: mask is validated as-is and both GMMs are seeded from it.
//   - Eval: mask and state.Background/Foreground are reused unchanged from a
//     previous call.
//
// iterCount <= 0 performs initialization only and returns before touching
// the graph. state must not be nil.
func Segment(img gocv.Mat, mask *gocv.Mat, rect image.Rectangle, state *State, iterCount int, mode Mode) error {
	log := state.logger()
	start := time.Now()

	if img.Empty() {
		return report(log, gcerrors.ErrEmptyImage)
	}
	if img.Type() != gocv.MatTypeCV8UC3 {
		return report(log, gcerrors.ErrInvalidImageType)
	}

	switch mode {
	case InitWithRect:
		initMaskWithRect(mask, img.Cols(), img.Rows(), rect)
	case InitWithMask:
		if err := checkMask(img, *mask); err != nil {
			return report(log, err)
		}
	}

	if mode == InitWithRect || mode == InitWithMask {
		if err := seedModels(img, *mask, state); err != nil {
			return report(log, err)
		}
		log.Debug("grabcut", "gmm seeded", nil)
	}

	if iterCount <= 0 {
		return nil
	}

	if mode == Eval {
		if err := checkMask(img, *mask); err != nil {
			return report(log, err)
		}
	}

	beta := weights.Beta(img)
	tables := weights.Compute(img, beta)
	log.Debug("grabcut", "weight tables built", map[string]interface{}{"beta": beta})

	rows, cols := img.Rows(), img.Cols()
	for i := 0; i < iterCount; i++ {
		iterStart := time.Now()

		compIdx := assignComponents(img, *mask, state)
		if err := learnGMMs(img, *mask, compIdx, state); err != nil {
			return report(log, err)
		}

		g := maxflow.NewGraph(rows*cols, 4*rows*cols)
		result := graph.BuildSlim(img, *mask, tables, state.Background, state.Foreground, weights.Lambda, g)
		flow := g.MaxFlow() + result.S2TW
		segment.Update(mask, result.PixelToVertex, g)

		log.Debug("grabcut", "iteration complete", map[string]interface{}{
			"iteration": i,
			"flow":      flow,
			"duration":  time.Since(iterStart).String(),
			"energy":    dataEnergy(img, *mask, state),
		})
	}

	log.Info("grabcut", "segment complete", map[string]interface{}{
		"iterations": iterCount,
		"duration":   time.Since(start).String(),
	})
	return nil
}

func report(log Logger, err error) error {
	log.Error("grabcut", err, nil)
	return err
}
