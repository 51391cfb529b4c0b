package sampling

import (
	"testing"

	"gocv.io/x/gocv"

	"grabcut-engine/internal/dataterm"
	"grabcut-engine/internal/gcerrors"
)

func TestCollectPartitionsByLabel(t *testing.T) {
	const n = 4
	img := gocv.NewMatWithSize(n, n, gocv.MatTypeCV8UC3)
	defer img.Close()
	mask := gocv.NewMatWithSize(n, n, gocv.MatTypeCV8UC1)
	defer mask.Close()

	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			img.SetUCharAt3(y, x, 0, uint8(y*n+x))
			img.SetUCharAt3(y, x, 1, uint8(y*n+x))
			img.SetUCharAt3(y, x, 2, uint8(y*n+x))

			label := dataterm.PrFG
			if x < 2 {
				label = dataterm.BG
			}
			mask.SetUCharAt(y, x, uint8(label))
		}
	}

	bg, fg := Collect(img, mask)
	if len(bg) != n*2 {
		t.Fatalf("len(bg) = %d, want %d", len(bg), n*2)
	}
	if len(fg) != n*2 {
		t.Fatalf("len(fg) = %d, want %d", len(fg), n*2)
	}
}

func TestSeedRejectsEmptySamples(t *testing.T) {
	_, err := Seed(nil, 5)
	if err != gcerrors.ErrEmptySamples {
		t.Fatalf("err = %v, want ErrEmptySamples", err)
	}
}

func TestSeedReturnsOneLabelPerSample(t *testing.T) {
	samples := []gocv.Point3f{
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 1},
		{X: 200, Y: 200, Z: 200}, {X: 210, Y: 210, Z: 210},
		{X: 100, Y: 0, Z: 100}, {X: 90, Y: 5, Z: 95},
	}
	labels, err := Seed(samples, 3)
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if len(labels) != len(samples) {
		t.Fatalf("len(labels) = %d, want %d", len(labels), len(samples))
	}
	for _, l := range labels {
		if l < 0 || l >= 3 {
			t.Fatalf("label %d out of range [0,3)", l)
		}
	}
}
