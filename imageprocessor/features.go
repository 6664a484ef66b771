package imageprocessor

import (
	"gocv.io/x/gocv"
)

// ExtractFeatures converts a normalized image to single-channel intensity
// and runs SIFT detect-and-compute on it. The returned descriptor Mat has
// one 128-float row per keypoint and must be closed by the caller. An image
// with no detectable texture yields zero keypoints and an empty descriptor
// Mat; that is a valid degenerate feature set, not an error.
func ExtractFeatures(img gocv.Mat) ([]gocv.KeyPoint, gocv.Mat) {
	gray := gocv.NewMat()
	defer gray.Close()

	if img.Channels() == 1 {
		img.CopyTo(&gray)
	} else {
		gocv.CvtColor(img, &gray, gocv.ColorRGBToGray)
	}

	sift := gocv.NewSIFT()
	defer sift.Close()

	mask := gocv.NewMat()
	defer mask.Close()

	keypoints, descriptors := sift.DetectAndCompute(gray, mask)
	return keypoints, descriptors
}
