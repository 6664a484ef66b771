package imageprocessor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func TestComputeAverageHashShape(t *testing.T) {
	img := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(128, 128, 128, 0), 224, 224, gocv.MatTypeCV8UC3)
	defer img.Close()

	hash, err := ComputeAverageHash(img)
	require.NoError(t, err)

	assert.Len(t, hash, 64)
	assert.Equal(t, "", strings.Trim(hash, "01"))
}

func TestComputeAverageHashEmptyImage(t *testing.T) {
	img := gocv.NewMat()
	defer img.Close()

	_, err := ComputeAverageHash(img)
	assert.Error(t, err)
}
