package types

// GalleryEntry identifies one labeled reference image in the gallery
// directory. Label is the storage form (lowercase, underscores), Display is
// the human-readable form shown to callers.
type GalleryEntry struct {
	Label    string `json:"label"`
	Display  string `json:"display"`
	Filename string `json:"filename"`
	Path     string `json:"path"`
}

// MatchResult pairs a gallery entry's display label with its similarity
// score for one comparison.
type MatchResult struct {
	Label string
	Score float64
}

// OutcomeKind tags the result of a gallery comparison so callers can tell
// "nothing to compare against" apart from "compared, found nothing good
// enough" without sniffing label strings.
type OutcomeKind int

const (
	// OutcomeMatches means at least one entry cleared the threshold.
	OutcomeMatches OutcomeKind = iota
	// OutcomeEmptyGallery means there were no gallery entries at all.
	OutcomeEmptyGallery
	// OutcomeUnusableQuery means the query image yielded no descriptors.
	OutcomeUnusableQuery
	// OutcomeNoneAboveThreshold means entries were compared but none
	// cleared the threshold.
	OutcomeNoneAboveThreshold
)

// Sentinel labels emitted for the non-match outcomes at the presentation
// boundary.
const (
	SentinelNoMatches      = "No matches"
	SentinelNoFeatures     = "Could not extract features"
	SentinelBelowThreshold = "No matches meet the threshold"
)

// ScanOutcome is the tagged result of one comparison. Matches is populated
// only when Kind is OutcomeMatches.
type ScanOutcome struct {
	Kind    OutcomeKind
	Matches []MatchResult
}

// Results flattens the outcome into the ranked (label, score) list shape,
// substituting a single zero-score sentinel entry for the non-match kinds.
func (o ScanOutcome) Results() []MatchResult {
	switch o.Kind {
	case OutcomeEmptyGallery:
		return []MatchResult{{Label: SentinelNoMatches}}
	case OutcomeUnusableQuery:
		return []MatchResult{{Label: SentinelNoFeatures}}
	case OutcomeNoneAboveThreshold:
		return []MatchResult{{Label: SentinelBelowThreshold}}
	}
	return o.Matches
}

// IndexEntry holds the per-entry metadata stored in the gallery index
// database. The gallery directory stays the source of truth; index rows are
// derived from it.
type IndexEntry struct {
	Label           string `json:"label"`
	Path            string `json:"path"`
	Format          string `json:"format"`
	Width           int    `json:"width"`
	Height          int    `json:"height"`
	DescriptorCount int    `json:"descriptor_count"`
	AverageHash     string `json:"average_hash"`
	CameraModel     string `json:"camera_model,omitempty"`
	CapturedAt      string `json:"captured_at,omitempty"`
	LabeledAt       string `json:"labeled_at"`
}

// IndexStats summarizes the gallery index contents.
type IndexStats struct {
	TotalEntries  int
	UniqueHashes  int
	EmptyFeatures int
}
