// Package maxflow implements the two-terminal max-flow/min-cut solver the
// GrabCut graph builders hand their constructed energy graph to. There is
// no ecosystem library in this module's dependency graph that exposes the
// accumulative terminal-weight, per-vertex pixel-chain-head contract the
// slim graph builder needs (see DESIGN.md), so this is a from-scratch
// implementation: an Edmonds-Karp (BFS shortest augmenting path) solver
// over an explicit two-terminal residual graph. It is treated as the
// "external collaborator" the segmentation core assumes is available; its
// only dependency inside this module is internal/raster, for the Point type
// of the per-vertex pixel-chain head.
package maxflow

import "grabcut-engine/internal/raster"

const epsilon = 1e-12

// edge is one directed residual arc. Arcs are always allocated in reverse
// pairs: edges[2i] and edges[2i+1] are each other's residual reverse.
type edge struct {
	to  int
	cap float64
}

// Graph is a two-terminal capacitated graph with accumulative terminal and
// edge weights, matching the contract SPEC_FULL.md §6 requires.
type Graph struct {
	edges []edge
	adj   [][]int

	fromSource []float64
	toSink     []float64
	firstP     []raster.Point

	// pairIndex maps an unordered vertex pair to the index of the forward
	// edge added between them via AddWeight, so repeated AddWeight calls
	// accumulate onto one arc pair instead of creating parallel edges.
	pairIndex map[[2]int]int

	// SourceSigmaW and SinkSigmaW are terminal analogues of SumW: the slim
	// graph builder accumulates into these directly as pixels are joined
	// to a terminal, they are not maintained by the solver itself.
	SourceSigmaW float64
	SinkSigmaW   float64

	sourceReachable []bool
	flowComputed    bool
}

// NewGraph preallocates a graph sized for at most maxVtx vertices and
// maxEdges undirected edges (maxEdges*2 directed arcs).
func NewGraph(maxVtx, maxEdges int) *Graph {
	return &Graph{
		edges:      make([]edge, 0, maxEdges*2),
		adj:        make([][]int, 0, maxVtx),
		fromSource: make([]float64, 0, maxVtx),
		toSink:     make([]float64, 0, maxVtx),
		firstP:     make([]raster.Point, 0, maxVtx),
		pairIndex:  make(map[[2]int]int, maxEdges),
	}
}

// AddVtx allocates a new vertex with zero terminal weights and returns its
// index.
func (g *Graph) AddVtx() int {
	id := len(g.adj)
	g.adj = append(g.adj, nil)
	g.fromSource = append(g.fromSource, 0)
	g.toSink = append(g.toSink, 0)
	g.firstP = append(g.firstP, raster.NoPoint)
	return id
}

// NumVtx returns the number of vertices allocated so far.
func (g *Graph) NumVtx() int { return len(g.adj) }

// AddTermWeights accumulates fromSource and toSink onto vertex v's
// terminal capacities.
func (g *Graph) AddTermWeights(v int, fromSource, toSink float64) {
	g.fromSource[v] += fromSource
	g.toSink[v] += toSink
}

// addArcPair appends a fresh forward/reverse arc pair between u and v and
// wires both adjacency lists, returning the forward arc's index.
func (g *Graph) addArcPair(u, v int, capUV, capVU float64) int {
	fwd := len(g.edges)
	g.edges = append(g.edges, edge{to: v, cap: capUV}, edge{to: u, cap: capVU})
	g.adj[u] = append(g.adj[u], fwd)
	g.adj[v] = append(g.adj[v], fwd+1)
	return fwd
}

// AddEdges adds a fresh bidirectional edge between u and v with (possibly
// asymmetric) capacities. Used by the naive one-node-per-pixel builder,
// which never touches the same pixel pair twice.
func (g *Graph) AddEdges(u, v int, capUV, capVU float64) {
	g.addArcPair(u, v, capUV, capVU)
}

func pairKey(u, v int) [2]int {
	if u < v {
		return [2]int{u, v}
	}
	return [2]int{v, u}
}

// AddWeight adds w to both directions of the edge between u and v,
// creating it on first use. This is the slim builder's merge operation: a
// smoothness edge between two super-nodes accumulates rather than
// producing a fresh parallel edge each time another pair of joined pixels
// touches the same neighbor.
func (g *Graph) AddWeight(u, v int, w float64) {
	key := pairKey(u, v)
	if idx, ok := g.pairIndex[key]; ok {
		g.edges[idx].cap += w
		g.edges[idx^1].cap += w
		return
	}
	idx := g.addArcPair(key[0], key[1], w, w)
	g.pairIndex[key] = idx
}

// SumW returns v's total incident capacity, including both terminal
// weights and every adjacent edge — the naive graph's per-node σW.
func (g *Graph) SumW(v int) float64 {
	sum := g.fromSource[v] + g.toSink[v]
	for _, e := range g.adj[v] {
		sum += g.edges[e].cap
	}
	return sum
}

// GetFirstP returns the head of vertex v's joined-pixel chain, or
// raster.NoPoint if nothing has been recorded yet.
func (g *Graph) GetFirstP(v int) raster.Point { return g.firstP[v] }

// SetFirstP stores the head of vertex v's joined-pixel chain.
func (g *Graph) SetFirstP(v int, p raster.Point) { g.firstP[v] = p }

// MaxFlow computes the graph's maximum source-to-sink flow (equivalently,
// minimum cut value over the cuttable edges) via repeated BFS shortest
// augmenting paths over the residual graph, and records source-side
// reachability for InSourceSegment.
func (g *Graph) MaxFlow() float64 {
	n := len(g.adj)
	total := 0.0

	for {
		parentVertex := make([]int, n)
		parentEdge := make([]int, n)
		visited := make([]bool, n)
		for i := range parentVertex {
			parentVertex[i] = -1
			parentEdge[i] = -1
		}

		queue := make([]int, 0, n)
		for v := 0; v < n; v++ {
			if g.fromSource[v] > epsilon {
				visited[v] = true
				queue = append(queue, v)
			}
		}

		found := -1
		for len(queue) > 0 && found == -1 {
			u := queue[0]
			queue = queue[1:]
			if g.toSink[u] > epsilon {
				found = u
				break
			}
			for _, eIdx := range g.adj[u] {
				e := g.edges[eIdx]
				if e.cap > epsilon && !visited[e.to] {
					visited[e.to] = true
					parentVertex[e.to] = u
					parentEdge[e.to] = eIdx
					queue = append(queue, e.to)
				}
			}
		}

		if found == -1 {
			break
		}

		bottleneck := g.toSink[found]
		cur := found
		for parentVertex[cur] != -1 {
			if c := g.edges[parentEdge[cur]].cap; c < bottleneck {
				bottleneck = c
			}
			cur = parentVertex[cur]
		}
		if g.fromSource[cur] < bottleneck {
			bottleneck = g.fromSource[cur]
		}

		g.fromSource[cur] -= bottleneck
		cur = found
		for parentVertex[cur] != -1 {
			eIdx := parentEdge[cur]
			g.edges[eIdx].cap -= bottleneck
			g.edges[eIdx^1].cap += bottleneck
			cur = parentVertex[cur]
		}
		g.toSink[found] -= bottleneck

		total += bottleneck
	}

	g.recordSourceReachability()
	g.flowComputed = true
	return total
}

// recordSourceReachability BFS-walks the post-flow residual graph from
// every vertex still directly attached to the source.
func (g *Graph) recordSourceReachability() {
	n := len(g.adj)
	reachable := make([]bool, n)
	queue := make([]int, 0, n)
	for v := 0; v < n; v++ {
		if g.fromSource[v] > epsilon {
			reachable[v] = true
			queue = append(queue, v)
		}
	}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, eIdx := range g.adj[u] {
			e := g.edges[eIdx]
			if e.cap > epsilon && !reachable[e.to] {
				reachable[e.to] = true
				queue = append(queue, e.to)
			}
		}
	}
	g.sourceReachable = reachable
}

// InSourceSegment reports whether v is reachable from the source in the
// residual graph after MaxFlow has run — i.e. whether v belongs to the
// foreground side of the min-cut. Panics if called before MaxFlow.
func (g *Graph) InSourceSegment(v int) bool {
	if !g.flowComputed {
		panic("maxflow: InSourceSegment called before MaxFlow")
	}
	return g.sourceReachable[v]
}
