package grabcut

import (
	"image"
	"testing"

	"gocv.io/x/gocv"

	"grabcut-engine/internal/dataterm"
)

func TestInitMaskWithRectFillsBGOutsideAndPRFGInside(t *testing.T) {
	mask := gocv.NewMat()
	defer mask.Close()

	initMaskWithRect(&mask, 6, 6, image.Rect(2, 2, 4, 4))

	if mask.Rows() != 6 || mask.Cols() != 6 {
		t.Fatalf("mask size = %dx%d, want 6x6", mask.Rows(), mask.Cols())
	}
	if dataterm.Label(mask.GetUCharAt(0, 0)) != dataterm.BG {
		t.Fatal("corner outside rect should be BG")
	}
	if dataterm.Label(mask.GetUCharAt(2, 2)) != dataterm.PrFG {
		t.Fatal("pixel inside rect should be PR_FG")
	}
	if dataterm.Label(mask.GetUCharAt(4, 4)) != dataterm.BG {
		t.Fatal("pixel just outside rect's exclusive bound should be BG")
	}
}

func TestInitMaskWithRectClipsToBounds(t *testing.T) {
	mask := gocv.NewMat()
	defer mask.Close()

	initMaskWithRect(&mask, 4, 4, image.Rect(-10, -10, 100, 100))

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if dataterm.Label(mask.GetUCharAt(y, x)) != dataterm.PrFG {
				t.Fatalf("(%d,%d) = %v, want PR_FG once clipped rect covers whole image", x, y, mask.GetUCharAt(y, x))
			}
		}
	}
}

func TestInitMaskWithRectNonIntersectingRectLeavesAllBG(t *testing.T) {
	mask := gocv.NewMat()
	defer mask.Close()

	initMaskWithRect(&mask, 4, 4, image.Rect(10, 10, 20, 20))

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if dataterm.Label(mask.GetUCharAt(y, x)) != dataterm.BG {
				t.Fatalf("(%d,%d) should be BG when rect doesn't intersect the image", x, y)
			}
		}
	}
}

func TestCheckMaskRejectsWrongSize(t *testing.T) {
	img := gocv.NewMatWithSize(4, 4, gocv.MatTypeCV8UC3)
	defer img.Close()
	mask := gocv.NewMatWithSize(3, 3, gocv.MatTypeCV8UC1)
	defer mask.Close()

	if err := checkMask(img, mask); err == nil {
		t.Fatal("expected error for mismatched dimensions")
	}
}

func TestCheckMaskRejectsInvalidLabel(t *testing.T) {
	img := gocv.NewMatWithSize(2, 2, gocv.MatTypeCV8UC3)
	defer img.Close()
	mask := gocv.NewMatWithSize(2, 2, gocv.MatTypeCV8UC1)
	defer mask.Close()
	mask.SetUCharAt(0, 0, 200) // not one of BG/FG/PR_BG/PR_FG

	if err := checkMask(img, mask); err == nil {
		t.Fatal("expected error for out-of-range label")
	}
}

func TestCheckMaskAcceptsValidTrimap(t *testing.T) {
	img := gocv.NewMatWithSize(2, 2, gocv.MatTypeCV8UC3)
	defer img.Close()
	mask := gocv.NewMatWithSize(2, 2, gocv.MatTypeCV8UC1)
	defer mask.Close()
	mask.SetUCharAt(0, 0, uint8(dataterm.BG))
	mask.SetUCharAt(0, 1, uint8(dataterm.FG))
	mask.SetUCharAt(1, 0, uint8(dataterm.PrBG))
	mask.SetUCharAt(1, 1, uint8(dataterm.PrFG))

	if err := checkMask(img, mask); err != nil {
		t.Fatalf("checkMask on valid trimap: %v", err)
	}
}
