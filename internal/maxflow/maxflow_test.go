package maxflow

import (
	"testing"

	"grabcut-engine/internal/raster"
)

func TestAddWeightAccumulatesOntoOneArcPair(t *testing.T) {
	g := NewGraph(2, 1)
	v0 := g.AddVtx()
	v1 := g.AddVtx()

	g.AddWeight(v0, v1, 3)
	g.AddWeight(v0, v1, 2)
	// Order shouldn't matter for the accumulation key.
	g.AddWeight(v1, v0, 1)

	if got := g.SumW(v0); got != 6 {
		t.Fatalf("SumW(v0) = %v, want 6", got)
	}
	if got := g.SumW(v1); got != 6 {
		t.Fatalf("SumW(v1) = %v, want 6", got)
	}
}

func TestSumWIncludesTerminalsAndEdges(t *testing.T) {
	g := NewGraph(2, 1)
	v0 := g.AddVtx()
	v1 := g.AddVtx()
	g.AddTermWeights(v0, 4, 6)
	g.AddEdges(v0, v1, 5, 5)

	if got := g.SumW(v0); got != 15 {
		t.Fatalf("SumW(v0) = %v, want 15", got)
	}
}

func TestAddTermWeightsAccumulates(t *testing.T) {
	g := NewGraph(1, 0)
	v := g.AddVtx()
	g.AddTermWeights(v, 1, 2)
	g.AddTermWeights(v, 3, 4)
	if got := g.SumW(v); got != 10 {
		t.Fatalf("SumW(v) = %v, want 10", got)
	}
}

// TestMaxFlowSimpleDiamond builds source->v0-(cap4)->v1->sink (toSink=7,
// fromSource[v0]=10) and checks the bottleneck edge caps the flow at 4,
// with v0 staying source-side and v1 falling to the sink side of the cut.
func TestMaxFlowSimpleDiamond(t *testing.T) {
	g := NewGraph(2, 1)
	v0 := g.AddVtx()
	v1 := g.AddVtx()
	g.AddTermWeights(v0, 10, 0)
	g.AddTermWeights(v1, 0, 7)
	g.AddEdges(v0, v1, 4, 4)

	flow := g.MaxFlow()
	if flow != 4 {
		t.Fatalf("MaxFlow() = %v, want 4", flow)
	}
	if !g.InSourceSegment(v0) {
		t.Fatal("v0 should stay in the source segment")
	}
	if g.InSourceSegment(v1) {
		t.Fatal("v1 should fall to the sink segment")
	}
}

func TestInSourceSegmentPanicsBeforeMaxFlow(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	g := NewGraph(1, 0)
	v := g.AddVtx()
	g.InSourceSegment(v)
}

func TestFirstPRoundTrip(t *testing.T) {
	g := NewGraph(1, 0)
	v := g.AddVtx()
	if got := g.GetFirstP(v); got != raster.NoPoint {
		t.Fatalf("GetFirstP(new vertex) = %v, want NoPoint", got)
	}
	p := raster.Point{X: 3, Y: 4}
	g.SetFirstP(v, p)
	if got := g.GetFirstP(v); got != p {
		t.Fatalf("GetFirstP = %v, want %v", got, p)
	}
}

func TestMaxFlowWithNoPathIsZero(t *testing.T) {
	g := NewGraph(2, 0)
	v0 := g.AddVtx()
	v1 := g.AddVtx()
	g.AddTermWeights(v0, 5, 0)
	g.AddTermWeights(v1, 0, 5)
	// No edge between v0 and v1: flow can't reach the sink.
	if got := g.MaxFlow(); got != 0 {
		t.Fatalf("MaxFlow() = %v, want 0", got)
	}
}
