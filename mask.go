package grabcut

import (
	"image"

	"gocv.io/x/gocv"

	"grabcut-engine/internal/dataterm"
	"grabcut-engine/internal/gcerrors"
)

// initMaskWithRect replaces *mask with a fresh cols*rows CV_8UC1 mask,
// filled BG everywhere except the clipped rect, which is filled PR_FG. A
// rect that doesn't intersect the image at all leaves the mask all BG,
// matching the reference's clip-then-fill behavior.
func initMaskWithRect(mask *gocv.Mat, cols, rows int, rect image.Rectangle) {
	fresh := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV8UC1)
	fresh.SetTo(gocv.NewScalar(float64(dataterm.BG), 0, 0, 0))

	x0 := clamp(rect.Min.X, 0, cols)
	y0 := clamp(rect.Min.Y, 0, rows)
	x1 := clamp(rect.Max.X, 0, cols)
	y1 := clamp(rect.Max.Y, 0, rows)

	if x1 > x0 && y1 > y0 {
		region := fresh.Region(image.Rect(x0, y0, x1, y1))
		region.SetTo(gocv.NewScalar(float64(dataterm.PrFG), 0, 0, 0))
		region.Close()
	}

	if !mask.Empty() {
		mask.Close()
	}
	*mask = fresh
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// checkMask validates that mask is non-empty, CV_8UC1, matches img's
// dimensions, and every pixel is one of the four trimap labels.
func checkMask(img, mask gocv.Mat) error {
	if mask.Empty() {
		return gcerrors.ErrInvalidMask
	}
	if mask.Type() != gocv.MatTypeCV8UC1 {
		return gcerrors.ErrInvalidMask
	}
	if mask.Rows() != img.Rows() || mask.Cols() != img.Cols() {
		return gcerrors.ErrInvalidMask
	}

	rows, cols := mask.Rows(), mask.Cols()
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			switch dataterm.Label(mask.GetUCharAt(y, x)) {
			case dataterm.BG, dataterm.FG, dataterm.PrBG, dataterm.PrFG:
			default:
				return gcerrors.ErrInvalidMask
			}
		}
	}
	return nil
}
