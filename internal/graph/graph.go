// Package graph builds the min-cut energy graph GrabCut hands to the
// max-flow solver: a naive one-node-per-pixel builder (used as the ground
// truth for the slim/naive cut-value equivalence test) and the reduced
// "slim" builder that collapses pixels whose terminal weight already
// dominates their local neighborhood into a terminal or into an adjacent
// super-node before max-flow ever runs. Both are grounded on the reference
// implementation's constructGCGraph / constructGCGraph_slim.
package graph

import (
	"gocv.io/x/gocv"

	"grabcut-engine/internal/dataterm"
	"grabcut-engine/internal/gmm"
	"grabcut-engine/internal/maxflow"
	"grabcut-engine/internal/raster"
	"grabcut-engine/internal/weights"
)

// Sentinel PixelToVertex values meaning "this pixel was collapsed directly
// into a terminal rather than allocated a graph node".
const (
	JoinedBG int32 = -1
	JoinedFG int32 = -2
)

// noVertex is SearchJoin's "nothing fires" result; it never appears in a
// PixelToVertex grid, only as a return value from searchJoin.
const noVertex int32 = -10

// MaxFlowGraph is the capability surface the naive builder needs from a
// max-flow graph. It is deliberately smaller than *maxflow.Graph's full
// surface — the naive builder never merges edges or reads back a vertex's
// pixel chain, only the slim builder does, so those extras stay on the
// concrete type instead of bloating this interface.
type MaxFlowGraph interface {
	AddVtx() int
	AddTermWeights(v int, fromSource, toSink float64)
	AddEdges(u, v int, capUV, capVU float64)
}

func colorAt(img gocv.Mat, x, y int) gmm.Color {
	v := img.GetVecbAt(y, x)
	return gmm.Color{float64(v[0]), float64(v[1]), float64(v[2])}
}

// BuildNaive allocates one graph vertex per pixel and wires every
// predecessor-direction smoothness edge and terminal weight directly,
// with no reduction. It exists to give the slim builder something to be
// checked against, not for production use.
func BuildNaive(img, mask gocv.Mat, tables *weights.Tables, bgd, fgd *gmm.Model, lambda float64, g MaxFlowGraph) *raster.Grid[int32] {
	rows, cols := img.Rows(), img.Cols()
	pixelToVertex := raster.NewGrid[int32](cols, rows)

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			vtx := g.AddVtx()
			pixelToVertex.Set(x, y, int32(vtx))

			label := dataterm.Label(mask.GetUCharAt(y, x))
			c := colorAt(img, x, y)
			g.AddTermWeights(vtx,
				dataterm.SourceWeight(label, c, bgd, fgd, lambda),
				dataterm.SinkWeight(label, c, bgd, fgd, lambda))

			if x > 0 {
				n := pixelToVertex.At(x-1, y)
				g.AddEdges(vtx, int(n), tables.Left.At(x, y), tables.Left.At(x, y))
			}
			if x > 0 && y > 0 {
				n := pixelToVertex.At(x-1, y-1)
				g.AddEdges(vtx, int(n), tables.UpLeft.At(x, y), tables.UpLeft.At(x, y))
			}
			if y > 0 {
				n := pixelToVertex.At(x, y-1)
				g.AddEdges(vtx, int(n), tables.Up.At(x, y), tables.Up.At(x, y))
			}
			if x < cols-1 && y > 0 {
				n := pixelToVertex.At(x+1, y-1)
				g.AddEdges(vtx, int(n), tables.UpRight.At(x, y), tables.UpRight.At(x, y))
			}
		}
	}
	return pixelToVertex
}

// SlimResult is what BuildSlim hands to the segmentation updater: the
// per-pixel vertex/sentinel map and the accumulated source-to-sink
// constant that must be added back to the slim max-flow value to compare
// it against the naive graph's.
type SlimResult struct {
	PixelToVertex *raster.Grid[int32]
	S2TW          float64
}

// computeSigmaW returns, for every pixel, the total weight of every edge
// that would touch it in the un-reduced (naive) graph: all eight
// directional smoothness weights plus both terminal weights. It is
// computed once up front and never updated, mirroring the reference
// initSigmaW.
func computeSigmaW(img, mask gocv.Mat, tables *weights.Tables, bgd, fgd *gmm.Model, lambda float64) *raster.Grid[float64] {
	rows, cols := img.Rows(), img.Cols()
	sigma := raster.NewGrid[float64](cols, rows)

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			s := tables.Left.At(x, y) + tables.UpLeft.At(x, y) + tables.Up.At(x, y) + tables.UpRight.At(x, y)
			if x < cols-1 {
				s += tables.Left.At(x+1, y)
			}
			if x < cols-1 && y < rows-1 {
				s += tables.UpLeft.At(x+1, y+1)
			}
			if y < rows-1 {
				s += tables.Up.At(x, y+1)
			}
			if x > 0 && y < rows-1 {
				s += tables.UpRight.At(x-1, y+1)
			}

			label := dataterm.Label(mask.GetUCharAt(y, x))
			c := colorAt(img, x, y)
			s += dataterm.SourceWeight(label, c, bgd, fgd, lambda) + dataterm.SinkWeight(label, c, bgd, fgd, lambda)
			sigma.Set(x, y, s)
		}
	}
	return sigma
}

// pendingSumW returns the weight of the smoothness edges touching the
// already-visited pixel pxl that are not yet in the graph while probe pixel
// p is being scanned: the edges reaching pxl from p itself or from pixels
// after p in scan order. This lets a super-node's total incident weight be
// projected forward without waiting for the scan to reach those pixels.
func pendingSumW(p, pxl raster.Point, tables *weights.Tables) float64 {
	rows, cols := tables.Left.Height(), tables.Left.Width()
	s := 0.0

	if (pxl.Y == p.Y && pxl.X < p.X) || (pxl.Y == p.Y-1 && pxl.X >= p.X) {
		if pxl.X == p.X-1 {
			s += tables.Left.At(pxl.X+1, pxl.Y)
		}
		if pxl.Y < rows-1 {
			s += tables.Up.At(pxl.X, pxl.Y+1)
			if pxl.X > 0 && pxl.X != p.X {
				s += tables.UpRight.At(pxl.X-1, pxl.Y+1)
			}
			if pxl.X < cols-1 {
				s += tables.UpLeft.At(pxl.X+1, pxl.Y+1)
			}
		}
	}
	if pxl.Y == p.Y-1 && pxl.X == p.X-1 {
		s += tables.UpLeft.At(p.X, p.Y)
	}
	return s
}

// pendingChainSum walks a terminal's joined-pixel chain from the tail
// backward, accumulating pendingSumW against probe pixel p, and stops
// once a pixel is strictly above-and-left of p-1 — no earlier pixel can
// still have a pending edge reaching p. The reference's equivalent loop
// (a postfix-decrement `for` with no body-side update) skips one endpoint
// of the chain on every call; this walks the full tail.
func pendingChainSum(chain []raster.Point, p raster.Point, tables *weights.Tables) float64 {
	s := 0.0
	for i := len(chain) - 1; i >= 0; i-- {
		pxl := chain[i]
		s += pendingSumW(p, pxl, tables)
		if pxl.Before(raster.Point{X: p.X - 1, Y: p.Y}) {
			break
		}
	}
	return s
}

// slimSumW returns vertex v's total incident weight including every
// pixel already joined to it: the graph's own bookkeeping (SumW) plus the
// pending contribution of every pixel in v's chain. The reference walks
// this chain with an update expression that dereferences the outer probe
// pixel instead of the current chain node, so it only ever visits the
// chain head; this walks the real linked chain via vtxToPxl.
func slimSumW(v int32, p raster.Point, g *maxflow.Graph, tables *weights.Tables, vtxToPxl *raster.Grid[raster.Point]) float64 {
	s := g.SumW(int(v))
	for pxl := g.GetFirstP(int(v)); pxl != raster.NoPoint; pxl = vtxToPxl.AtPoint(pxl) {
		s += pendingSumW(p, pxl, tables)
	}
	return s
}

type neighbor struct {
	present bool
	id      int32
	w       float64
}

// searchJoin decides whether pixel p can be collapsed into an existing
// super-node or terminal instead of allocating a fresh graph vertex. It
// returns a vertex id (>=0), JoinedBG/JoinedFG, or noVertex.
func searchJoin(
	p raster.Point, pixelToVertex *raster.Grid[int32], tables *weights.Tables, sigmaW *raster.Grid[float64],
	g *maxflow.Graph, vtxToPxl *raster.Grid[raster.Point],
	fromSource, toSink float64, sinkChain, sourceChain []raster.Point,
) int32 {
	var nb [4]neighbor
	if p.X > 0 {
		nb[0] = neighbor{true, pixelToVertex.At(p.X-1, p.Y), tables.Left.At(p.X, p.Y)}
	}
	if p.X > 0 && p.Y > 0 {
		nb[1] = neighbor{true, pixelToVertex.At(p.X-1, p.Y-1), tables.UpLeft.At(p.X, p.Y)}
	}
	if p.Y > 0 {
		nb[2] = neighbor{true, pixelToVertex.At(p.X, p.Y-1), tables.Up.At(p.X, p.Y)}
	}
	if p.Y > 0 && p.X < tables.Left.Width()-1 {
		nb[3] = neighbor{true, pixelToVertex.At(p.X+1, p.Y-1), tables.UpRight.At(p.X, p.Y)}
	}

	s := [4]float64{}
	for i := 0; i < 4; i++ {
		if !nb[i].present {
			continue
		}
		for j := 0; j < 4; j++ {
			if nb[j].present && nb[j].id == nb[i].id {
				s[i] += nb[j].w
			}
		}
		if nb[i].id == JoinedBG {
			s[i] += toSink
		}
		if nb[i].id == JoinedFG {
			s[i] += fromSource
		}
	}

	half := 0.5 * sigmaW.AtPoint(p)
	if toSink >= half {
		return JoinedBG
	}
	if fromSource >= half {
		return JoinedFG
	}

	for i := 0; i < 4; i++ {
		if nb[i].present && s[i] >= half {
			return nb[i].id
		}
	}

	for i := 0; i < 4; i++ {
		if !nb[i].present {
			continue
		}
		id := nb[i].id

		if id >= 0 {
			if s[i] >= 0.5*slimSumW(id, p, g, tables, vtxToPxl) {
				return id
			}
			continue
		}
		if id == JoinedBG {
			if toSink >= 0.5*(g.SinkSigmaW+pendingChainSum(sinkChain, p, tables)) {
				return id
			}
		} else {
			if fromSource >= 0.5*(g.SourceSigmaW+pendingChainSum(sourceChain, p, tables)) {
				return id
			}
		}
	}

	return noVertex
}

// applyMixedEdge folds the edge weight w — one side already collapsed
// into a terminal, the other a live vertex — into the live vertex's
// terminal weight: an edge to a source-joined pixel raises fromSource
// (this vertex now behaves more like its foreground-pinned neighbor
// would have), an edge to a sink-joined pixel raises toSink.
func applyMixedEdge(g *maxflow.Graph, realVtx, terminalOther int32, w float64) {
	fromSource, toSink := 0.0, 0.0
	switch terminalOther {
	case JoinedFG:
		fromSource = w
	case JoinedBG:
		toSink = w
	}
	g.AddTermWeights(int(realVtx), fromSource, toSink)
}

func addSlimEdge(g *maxflow.Graph, vtx, n int32, w float64, s2tw *float64) {
	switch {
	case n >= 0 && vtx >= 0:
		if vtx != n {
			g.AddWeight(int(vtx), int(n), w)
		}
	case n >= 0 && vtx < 0:
		applyMixedEdge(g, n, vtx, w)
	case n < 0 && vtx >= 0:
		applyMixedEdge(g, vtx, n, w)
	default:
		if vtx != n {
			*s2tw += w
		}
	}
}

// BuildSlim raster-scans the image, joining every undetermined pixel into
// a neighboring super-node or terminal wherever SearchJoin allows it, and
// otherwise allocating a fresh vertex. Hard BG/FG pixels are always
// collapsed into their terminal directly. Returns the pixel/vertex map
// and the accumulated source-to-sink constant S2TW that must be added to
// the resulting max-flow value before comparing it to the naive graph's.
func BuildSlim(img, mask gocv.Mat, tables *weights.Tables, bgd, fgd *gmm.Model, lambda float64, g *maxflow.Graph) *SlimResult {
	rows, cols := img.Rows(), img.Cols()
	sigmaW := computeSigmaW(img, mask, tables, bgd, fgd, lambda)

	pixelToVertex := raster.NewGrid[int32](cols, rows)
	vtxToPxl := raster.NewGrid[raster.Point](cols, rows)
	vtxToPxl.Fill(raster.NoPoint)

	var sinkChain, sourceChain []raster.Point
	s2tw := 0.0

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			p := raster.Point{X: x, Y: y}
			label := dataterm.Label(mask.GetUCharAt(y, x))
			c := colorAt(img, x, y)
			var vtx int32

			switch label {
			case dataterm.BG:
				vtx = JoinedBG
				sinkChain = append(sinkChain, p)
				g.SinkSigmaW += sigmaW.AtPoint(p)

			case dataterm.FG:
				vtx = JoinedFG
				sourceChain = append(sourceChain, p)
				g.SourceSigmaW += sigmaW.AtPoint(p)

			default:
				fromSource := dataterm.SourceWeight(label, c, bgd, fgd, lambda)
				toSink := dataterm.SinkWeight(label, c, bgd, fgd, lambda)

				joined := searchJoin(p, pixelToVertex, tables, sigmaW, g, vtxToPxl, fromSource, toSink, sinkChain, sourceChain)

				switch {
				case joined == noVertex:
					v := g.AddVtx()
					vtx = int32(v)
					g.SetFirstP(v, p)
					g.AddTermWeights(v, fromSource, toSink)

				case joined >= 0:
					v := int(joined)
					vtxToPxl.SetPoint(p, g.GetFirstP(v))
					g.SetFirstP(v, p)
					vtx = joined
					g.AddTermWeights(v, fromSource, toSink)

				case joined == JoinedBG:
					vtx = JoinedBG
					sinkChain = append(sinkChain, p)
					g.SinkSigmaW += sigmaW.AtPoint(p)
					s2tw += fromSource

				default: // JoinedFG
					vtx = JoinedFG
					sourceChain = append(sourceChain, p)
					g.SourceSigmaW += sigmaW.AtPoint(p)
					s2tw += toSink
				}
			}

			pixelToVertex.SetPoint(p, vtx)

			if x > 0 {
				addSlimEdge(g, vtx, pixelToVertex.At(x-1, y), tables.Left.At(x, y), &s2tw)
			}
			if x > 0 && y > 0 {
				addSlimEdge(g, vtx, pixelToVertex.At(x-1, y-1), tables.UpLeft.At(x, y), &s2tw)
			}
			if y > 0 {
				addSlimEdge(g, vtx, pixelToVertex.At(x, y-1), tables.Up.At(x, y), &s2tw)
			}
			if x < cols-1 && y > 0 {
				addSlimEdge(g, vtx, pixelToVertex.At(x+1, y-1), tables.UpRight.At(x, y), &s2tw)
			}
		}
	}

	return &SlimResult{PixelToVertex: pixelToVertex, S2TW: s2tw}
}
