package scanner

import (
	"sync"

	"gocv.io/x/gocv"

	"foodscanner/gallery"
	"foodscanner/imageprocessor"
	"foodscanner/logging"
	"foodscanner/signalhandler"
	"foodscanner/types"
)

// CompareOptions configures a gallery comparison. Zero values fall back to
// the protocol defaults.
type CompareOptions struct {
	GalleryDir string
	Threshold  float64
	RatioTest  float64
	MaxResults int
	MaxWorkers int
}

func (o *CompareOptions) applyDefaults() {
	if o.Threshold <= 0 {
		o.Threshold = DefaultThreshold
	}
	if o.RatioTest <= 0 {
		o.RatioTest = imageprocessor.DefaultRatioThreshold
	}
	if o.MaxResults <= 0 {
		o.MaxResults = DefaultMaxResults
	}
	if o.MaxWorkers <= 0 {
		o.MaxWorkers = signalhandler.GetOptimalProcs()
	}
}

// Compare matches the query image against every entry in the gallery
// directory and returns the ranked, thresholded outcome. The only error
// conditions are an unreadable query image and an unreadable gallery
// directory; every per-entry failure is logged and skipped so one corrupt
// reference image cannot abort the scan.
func Compare(queryPath string, opts CompareOptions) (types.ScanOutcome, error) {
	opts.applyDefaults()

	entries, err := gallery.List(opts.GalleryDir)
	if err != nil {
		return types.ScanOutcome{}, err
	}
	if len(entries) == 0 {
		return types.ScanOutcome{Kind: types.OutcomeEmptyGallery}, nil
	}

	queryImg, err := imageprocessor.LoadNormalized(queryPath)
	if err != nil {
		return types.ScanOutcome{}, err
	}
	defer queryImg.Close()

	queryKeypoints, queryDesc := imageprocessor.ExtractFeatures(queryImg)
	defer queryDesc.Close()
	if len(queryKeypoints) == 0 || queryDesc.Empty() {
		logging.DebugLog("query image %s produced no descriptors", queryPath)
		return types.ScanOutcome{Kind: types.OutcomeUnusableQuery}, nil
	}

	scored := scoreEntries(entries, queryDesc, len(queryKeypoints), opts)
	return rankMatches(scored, opts.Threshold, opts.MaxResults), nil
}

// scoreEntries runs match-and-score for every gallery entry on a bounded
// worker pool. Each entry is independent, so the batch is embarrassingly
// parallel; ranking happens only after every worker has finished.
func scoreEntries(entries []types.GalleryEntry, queryDesc gocv.Mat, queryKeypoints int, opts CompareOptions) []types.MatchResult {
	var (
		wg     sync.WaitGroup
		mutex  sync.Mutex
		scored []types.MatchResult
	)
	semaphore := make(chan struct{}, opts.MaxWorkers)

	for _, entry := range entries {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(entry types.GalleryEntry) {
			defer wg.Done()
			defer func() { <-semaphore }()

			score, ok := scoreEntry(entry, queryDesc, queryKeypoints, opts.RatioTest)
			if !ok {
				return
			}

			mutex.Lock()
			scored = append(scored, types.MatchResult{Label: entry.Display, Score: score})
			mutex.Unlock()
		}(entry)
	}

	wg.Wait()
	return scored
}

// scoreEntry processes one gallery entry against the query descriptors.
// Returns ok=false when the entry cannot be decoded or yields no
// descriptors; such entries are skipped, never reported as errors.
func scoreEntry(entry types.GalleryEntry, queryDesc gocv.Mat, queryKeypoints int, ratio float64) (float64, bool) {
	img, err := imageprocessor.LoadNormalized(entry.Path)
	if err != nil {
		logging.LogWarning("Skipping gallery entry %s: %v", entry.Path, err)
		return 0, false
	}
	defer img.Close()

	_, desc := imageprocessor.ExtractFeatures(img)
	defer desc.Close()
	if desc.Empty() {
		logging.LogEntrySkipped(entry.Path, "no extractable descriptors")
		return 0, false
	}

	good := imageprocessor.CountGoodMatches(queryDesc, desc, ratio)
	return imageprocessor.Similarity(good, queryKeypoints), true
}
