package imageprocessor

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFeaturesTextured(t *testing.T) {
	path := filepath.Join(t.TempDir(), "textured.png")
	writeTexturedImage(t, path, 224, 224, 1)

	img, err := LoadNormalized(path)
	require.NoError(t, err)
	defer img.Close()

	keypoints, descriptors := ExtractFeatures(img)
	defer descriptors.Close()

	require.NotEmpty(t, keypoints)
	assert.Equal(t, len(keypoints), descriptors.Rows())
	// SIFT descriptors are 128-dimensional
	assert.Equal(t, 128, descriptors.Cols())
}

func TestExtractFeaturesBlankCanvas(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blank.png")
	writeBlankImage(t, path, 224, 224)

	img, err := LoadNormalized(path)
	require.NoError(t, err)
	defer img.Close()

	keypoints, descriptors := ExtractFeatures(img)
	defer descriptors.Close()

	// No texture means no keypoints; this is a valid degenerate result
	assert.Empty(t, keypoints)
	assert.True(t, descriptors.Empty())
}
