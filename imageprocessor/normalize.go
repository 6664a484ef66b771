package imageprocessor

import (
	"errors"
	"fmt"
	"image"
	"os"

	"gocv.io/x/gocv"
)

// Canonical resolution every image is brought to before feature extraction.
// Keypoint density and descriptor scales are only comparable across images
// when they share dimensions; without this a large image yields more
// keypoints and inflates similarity by count artifacts.
const (
	CanonicalWidth  = 224
	CanonicalHeight = 224
)

// ErrDecode reports that a file does not exist or its bytes cannot be
// decoded as an image.
var ErrDecode = errors.New("image decode failed")

// LoadNormalized decodes the image at path, resizes it to the canonical
// resolution with bilinear interpolation and converts it to RGB channel
// order, discarding alpha. The returned Mat must be closed by the caller.
func LoadNormalized(path string) (gocv.Mat, error) {
	if _, err := os.Stat(path); err != nil {
		return gocv.NewMat(), fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}

	img := gocv.IMRead(path, gocv.IMReadColor)
	if img.Empty() {
		img.Close()
		return gocv.NewMat(), fmt.Errorf("%w: %s", ErrDecode, path)
	}
	defer img.Close()

	resized := gocv.NewMat()
	gocv.Resize(img, &resized, image.Point{X: CanonicalWidth, Y: CanonicalHeight}, 0, 0, gocv.InterpolationLinear)

	// IMRead decodes to BGR; downstream consumers expect RGB.
	normalized := gocv.NewMat()
	gocv.CvtColor(resized, &normalized, gocv.ColorBGRToRGB)
	resized.Close()

	return normalized, nil
}
