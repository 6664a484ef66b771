package imageprocessor

import (
	"gocv.io/x/gocv"
)

// DefaultRatioThreshold is Lowe's ratio-test threshold: a nearest neighbor
// is accepted only when it is substantially closer than the second-nearest
// candidate, which discards ambiguous correspondences.
const DefaultRatioThreshold = 0.75

// CountGoodMatches matches every query descriptor against the gallery
// descriptor set with 2-NN brute-force L2 search and counts the matches
// that pass the ratio test. A gallery set with fewer than two descriptors
// cannot produce a second-nearest neighbor and contributes zero matches.
func CountGoodMatches(queryDesc, galleryDesc gocv.Mat, ratio float64) int {
	if ratio <= 0 {
		ratio = DefaultRatioThreshold
	}
	if queryDesc.Empty() || galleryDesc.Empty() || galleryDesc.Rows() < 2 {
		return 0
	}

	matcher := gocv.NewBFMatcher()
	defer matcher.Close()

	good := 0
	for _, pair := range matcher.KnnMatch(queryDesc, galleryDesc, 2) {
		if len(pair) < 2 {
			continue
		}
		if pair[0].Distance < ratio*pair[1].Distance {
			good++
		}
	}

	return good
}

// Similarity normalizes a good-match count by the query keypoint count so a
// query with many keypoints is not unfairly advantaged over one with few.
// The score approximates the fraction of query content explained by one
// gallery entry; a zero-keypoint query deterministically scores 0.
func Similarity(goodMatches, queryKeypoints int) float64 {
	n := queryKeypoints
	if n < 1 {
		n = 1
	}
	return float64(goodMatches) / float64(n)
}
