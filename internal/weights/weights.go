// Package weights computes GrabCut's boundary-term (n-link) smoothness
// weights: the beta normalization constant and the four directional
// pairwise-difference grids used both by the naive and slim graph
// builders.
package weights

import (
	"math"

	"gocv.io/x/gocv"

	"grabcut-engine/internal/raster"
)

// Gamma is the smoothness magnitude constant.
const Gamma = 50.0

// Lambda is the "infinite" terminal capacity enforcing hard BG/FG
// constraints: 9*Gamma.
const Lambda = 9 * Gamma

const epsilon = 2.220446049250313e-16

// Tables holds the four predecessor-direction smoothness weight grids.
// Border cells whose neighbor falls outside the image hold 0.
type Tables struct {
	Left, UpLeft, Up, UpRight *raster.Grid[float64]
}

func color(img gocv.Mat, x, y int) [3]float64 {
	v := img.GetVecbAt(y, x)
	return [3]float64{float64(v[0]), float64(v[1]), float64(v[2])}
}

func sqDiff(a, b [3]float64) float64 {
	d0, d1, d2 := a[0]-b[0], a[1]-b[1], a[2]-b[2]
	return d0*d0 + d1*d1 + d2*d2
}

// Beta computes GrabCut's contrast-normalization constant:
// 1/(2*avg(||color[i]-color[j]||^2)) over the four predecessor offsets
// (left, up-left, up, up-right), or 0 if the image has no color variation.
func Beta(img gocv.Mat) float64 {
	rows, cols := img.Rows(), img.Cols()
	sum := 0.0
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			c := color(img, x, y)
			if x > 0 {
				sum += sqDiff(c, color(img, x-1, y))
			}
			if y > 0 && x > 0 {
				sum += sqDiff(c, color(img, x-1, y-1))
			}
			if y > 0 {
				sum += sqDiff(c, color(img, x, y-1))
			}
			if y > 0 && x < cols-1 {
				sum += sqDiff(c, color(img, x+1, y-1))
			}
		}
	}
	if sum <= epsilon {
		return 0
	}
	count := float64(4*cols*rows - 3*cols - 3*rows + 2)
	return 1.0 / (2.0 * (sum / count))
}

// Compute builds the four smoothness tables for the given image and beta.
func Compute(img gocv.Mat, beta float64) *Tables {
	rows, cols := img.Rows(), img.Cols()
	gammaDivSqrt2 := Gamma / math.Sqrt2

	t := &Tables{
		Left:    raster.NewGrid[float64](cols, rows),
		UpLeft:  raster.NewGrid[float64](cols, rows),
		Up:      raster.NewGrid[float64](cols, rows),
		UpRight: raster.NewGrid[float64](cols, rows),
	}

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			c := color(img, x, y)

			if x-1 >= 0 {
				d := sqDiff(c, color(img, x-1, y))
				t.Left.Set(x, y, Gamma*math.Exp(-beta*d))
			}
			if x-1 >= 0 && y-1 >= 0 {
				d := sqDiff(c, color(img, x-1, y-1))
				t.UpLeft.Set(x, y, gammaDivSqrt2*math.Exp(-beta*d))
			}
			if y-1 >= 0 {
				d := sqDiff(c, color(img, x, y-1))
				t.Up.Set(x, y, Gamma*math.Exp(-beta*d))
			}
			if x+1 < cols && y-1 >= 0 {
				d := sqDiff(c, color(img, x+1, y-1))
				t.UpRight.Set(x, y, gammaDivSqrt2*math.Exp(-beta*d))
			}
		}
	}
	return t
}
