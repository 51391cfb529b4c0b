// Package dataterm computes GrabCut's terminal-edge (t-link) weights: how
// costly it is to cut a pixel from the source or the sink, given its
// trimap label and the two color models.
package dataterm

import (
	"math"

	"grabcut-engine/internal/gmm"
)

// Label is a trimap pixel label, using the conventional OpenCV encoding.
type Label uint8

const (
	BG Label = iota
	FG
	PrBG
	PrFG
)

// SourceWeight returns the "from source" terminal capacity for a pixel
// with the given label and color. Hard foreground pixels get the
// near-infinite lambda; hard background pixels get 0; undetermined pixels
// get -log P_bg(c), which is small for background-like colors and large for
// foreground-like ones. A pixel pays this capacity when the cut puts it on
// the sink (background) side, so background-like colors are cheap to cut
// from the source.
func SourceWeight(label Label, color gmm.Color, bgd, fgd *gmm.Model, lambda float64) float64 {
	switch label {
	case FG:
		return lambda
	case PrBG, PrFG:
		return -math.Log(bgd.Evaluate(color))
	default: // BG
		return 0
	}
}

// SinkWeight returns the "to sink" terminal capacity for a pixel with the
// given label and color. Hard background pixels get lambda; hard
// foreground pixels get 0; undetermined pixels get -log P_fg(c). This is
// deliberately asymmetric with SourceWeight — the sign convention swaps
// which model is evaluated, not just which hard label maps to lambda.
func SinkWeight(label Label, color gmm.Color, bgd, fgd *gmm.Model, lambda float64) float64 {
	switch label {
	case BG:
		return lambda
	case PrBG, PrFG:
		return -math.Log(fgd.Evaluate(color))
	default: // FG
		return 0
	}
}
