package imageprocessor

import (
	"fmt"
	"image"
	"strings"

	"gocv.io/x/gocv"
)

// ComputeAverageHash computes an 8x8 average hash for an image. The hash is
// stored in the gallery index and used to spot duplicate reference images;
// it plays no part in similarity scoring.
func ComputeAverageHash(img gocv.Mat) (string, error) {
	if img.Empty() {
		return "", fmt.Errorf("cannot compute hash for empty image")
	}

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(img, &resized, image.Point{X: 8, Y: 8}, 0, 0, gocv.InterpolationArea)

	gray := gocv.NewMat()
	defer gray.Close()
	if resized.Channels() > 1 {
		gocv.CvtColor(resized, &gray, gocv.ColorRGBToGray)
	} else {
		resized.CopyTo(&gray)
	}

	var sum float64
	for y := 0; y < gray.Rows(); y++ {
		for x := 0; x < gray.Cols(); x++ {
			sum += float64(gray.GetUCharAt(y, x))
		}
	}
	threshold := sum / float64(gray.Rows()*gray.Cols())

	var hash strings.Builder
	for y := 0; y < gray.Rows(); y++ {
		for x := 0; x < gray.Cols(); x++ {
			if float64(gray.GetUCharAt(y, x)) >= threshold {
				hash.WriteString("1")
			} else {
				hash.WriteString("0")
			}
		}
	}

	return hash.String(), nil
}
