// Package sampling collects labeled color samples from the trimap and
// clusters them to seed the two GMMs, once per Segment call. The
// clustering itself is delegated to gocv.KMeans — this package only does
// the partition and the Mat plumbing around it.
package sampling

import (
	"gocv.io/x/gocv"

	"grabcut-engine/internal/dataterm"
	"grabcut-engine/internal/gcerrors"
)

// Collect walks img and mask in row-major order, partitioning pixel
// colors into a background sample set (BG ∪ PR_BG) and a foreground
// sample set (FG ∪ PR_FG).
func Collect(img, mask gocv.Mat) (bg, fg []gocv.Point3f) {
	rows, cols := img.Rows(), img.Cols()
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			v := img.GetVecbAt(y, x)
			c := gocv.Point3f{X: float32(v[0]), Y: float32(v[1]), Z: float32(v[2])}

			switch dataterm.Label(mask.GetUCharAt(y, x)) {
			case dataterm.BG, dataterm.PrBG:
				bg = append(bg, c)
			default:
				fg = append(fg, c)
			}
		}
	}
	return bg, fg
}

// Seed packs samples into an N×3 CV_32FC1 matrix and runs gocv.KMeans
// with 10 iterations and k-means++ seeding, returning the per-sample
// component label used to drive GMM.AddSample. An empty sample set is
// reported as gcerrors.ErrEmptySamples before ever calling into gocv,
// which panics on empty input.
func Seed(samples []gocv.Point3f, k int) ([]int32, error) {
	if len(samples) == 0 {
		return nil, gcerrors.ErrEmptySamples
	}

	data := gocv.NewMatWithSize(len(samples), 3, gocv.MatTypeCV32F)
	defer data.Close()
	for i, s := range samples {
		data.SetFloatAt(i, 0, s.X)
		data.SetFloatAt(i, 1, s.Y)
		data.SetFloatAt(i, 2, s.Z)
	}

	labelsMat := gocv.NewMat()
	defer labelsMat.Close()
	centers := gocv.NewMat()
	defer centers.Close()

	criteria := gocv.NewTermCriteria(gocv.MaxIter, 10, 0.0)
	gocv.KMeans(data, k, &labelsMat, criteria, 1, gocv.KMeansPPCenters, &centers)

	labels := make([]int32, len(samples))
	for i := range labels {
		labels[i] = labelsMat.GetIntAt(i, 0)
	}
	return labels, nil
}
