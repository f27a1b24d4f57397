package domain

import "time"

// Revision is one row of the version ledger: an immutable record of a single
// image replacement. Revisions for a proof, ordered by VersionNumber
// descending, form a gap-free sequence with exactly one IsLatest=true.
type Revision struct {
	ID               string    `json:"id"`
	ProofID          string    `json:"proofID"`
	GalleryID        string    `json:"galleryID"`
	OriginalImageURL string    `json:"originalImageUrl"`
	NewImageURL      string    `json:"newImageUrl"`
	NewImageRef      string    `json:"-"`
	NewThumbnailRef  string    `json:"-"`
	VersionNumber    int       `json:"versionNumber"`
	PreviousVersion  int       `json:"previousVersion"`
	DenialNotes      *string   `json:"denialNotes,omitempty"`
	StudioNotes      string    `json:"studioNotes,omitempty"`
	ReplacedBy       string    `json:"replacedBy"`
	ReplacedAt       time.Time `json:"replacedAt"`
	IsLatest         bool      `json:"isLatest"`
}

// ReplacementCommit carries everything one replacement writes inside the
// atomic batch: the new ledger row plus the proof fields it supersedes. The
// repository re-checks Revision.PreviousVersion against the proof row under
// lock before committing.
type ReplacementCommit struct {
	Revision     Revision
	ImageURL     string
	ImageRef     string
	ThumbnailURL string
	ThumbnailRef string
}
