// Package segment reads a solved min-cut graph back into the trimap. It
// is the last step of every iteration: everything upstream of it (GMM,
// weights, data terms, graph construction, max-flow) exists only to
// produce the vertex/terminal classification this package writes back.
package segment

import (
	"gocv.io/x/gocv"

	"grabcut-engine/internal/dataterm"
	"grabcut-engine/internal/graph"
	"grabcut-engine/internal/maxflow"
	"grabcut-engine/internal/raster"
)

// Update writes the min-cut result into mask for every PR_BG/PR_FG pixel:
// pixels collapsed directly into a terminal take that terminal's probable
// label; everything else takes PR_FG if its vertex is reachable from the
// source in the residual graph after MaxFlow, PR_BG otherwise. BG/FG
// pixels are left untouched. Works for both the naive graph (whose
// pixelToVertex never holds a sentinel) and the slim graph.
func Update(mask *gocv.Mat, pixelToVertex *raster.Grid[int32], g *maxflow.Graph) {
	rows, cols := mask.Rows(), mask.Cols()
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			label := dataterm.Label(mask.GetUCharAt(y, x))
			if label != dataterm.PrBG && label != dataterm.PrFG {
				continue
			}

			v := pixelToVertex.At(x, y)
			switch {
			case v == graph.JoinedBG:
				mask.SetUCharAt(y, x, uint8(dataterm.PrBG))
			case v == graph.JoinedFG:
				mask.SetUCharAt(y, x, uint8(dataterm.PrFG))
			case g.InSourceSegment(int(v)):
				mask.SetUCharAt(y, x, uint8(dataterm.PrFG))
			default:
				mask.SetUCharAt(y, x, uint8(dataterm.PrBG))
			}
		}
	}
}
