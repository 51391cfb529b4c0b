// Package raster provides the flat, row-major grid storage the GrabCut core
// keeps scratch data in: smoothness weight tables, the sigma-weight table,
// the component-assignment map, and the slim graph's pixel/vertex
// bookkeeping. It exists because that scratch data lives entirely inside a
// single Segment call, is read and written in tight per-pixel loops, and
// never crosses the package's public API — a plain slice-backed grid is
// simpler and cheaper there than routing every cell through a gocv.Mat.
package raster

import "fmt"

// Point is a pixel coordinate: X is the column, Y the row, matching the
// (x, y) argument order of Grid's accessors.
type Point struct {
	X, Y int
}

// NoPoint is the sentinel head-of-chain value meaning "no pixel joined yet".
var NoPoint = Point{X: -1, Y: -1}

// Before reports whether p is strictly above-and-left of q, the termination
// predicate the slim graph's pending-sum chain walk relies on.
func (p Point) Before(q Point) bool {
	return p.Y < q.Y && p.X < q.X
}

// Grid is a width x height array of T stored row-major. The zero value is
// not usable; construct with NewGrid.
type Grid[T any] struct {
	width, height int
	cells         []T
}

// NewGrid allocates a width x height grid with all cells at the zero value
// of T.
func NewGrid[T any](width, height int) *Grid[T] {
	return &Grid[T]{
		width:  width,
		height: height,
		cells:  make([]T, width*height),
	}
}

// Fill sets every cell to v.
func (g *Grid[T]) Fill(v T) {
	for i := range g.cells {
		g.cells[i] = v
	}
}

func (g *Grid[T]) Width() int  { return g.width }
func (g *Grid[T]) Height() int { return g.height }

func (g *Grid[T]) index(x, y int) int {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		panic(fmt.Sprintf("raster: index (%d,%d) out of bounds for %dx%d grid", x, y, g.width, g.height))
	}
	return y*g.width + x
}

// At returns the value at (x, y).
func (g *Grid[T]) At(x, y int) T {
	return g.cells[g.index(x, y)]
}

// AtPoint returns the value at p.
func (g *Grid[T]) AtPoint(p Point) T {
	return g.At(p.X, p.Y)
}

// Set stores v at (x, y).
func (g *Grid[T]) Set(x, y int, v T) {
	g.cells[g.index(x, y)] = v
}

// SetPoint stores v at p.
func (g *Grid[T]) SetPoint(p Point, v T) {
	g.Set(p.X, p.Y, v)
}

// InBounds reports whether (x, y) is a valid coordinate for this grid.
func (g *Grid[T]) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}
