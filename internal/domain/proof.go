package domain

import (
	"time"

	"github.com/studiokawa/proofroom"
)

// Proof is one reviewable image slot within a gallery. Its identity persists
// across replacements: the image content behind it changes, the proof does
// not. CurrentVersion increases by exactly one on each replacement and never
// decreases or skips.
type Proof struct {
	ID             string                `json:"id"`
	GalleryID      string                `json:"galleryID"`
	Filename       string                `json:"filename"`
	ImageURL       string                `json:"imageUrl"`
	ImageRef       string                `json:"-"`
	ThumbnailURL   string                `json:"thumbnailUrl,omitempty"`
	ThumbnailRef   string                `json:"-"`
	Order          int                   `json:"order"`
	Status         proofroom.ProofStatus `json:"status"`
	DenialNotes    *string               `json:"denialNotes,omitempty"`
	CurrentVersion int                   `json:"currentVersion"`
	VersionCount   int                   `json:"versionCount"`
	HasVersions    bool                  `json:"hasVersions"`
	LastRevisionID *string               `json:"lastRevisionID,omitempty"`
	ReviewedBy     *string               `json:"reviewedBy,omitempty"`
	ReviewedAt     *time.Time            `json:"reviewedAt,omitempty"`
	CreatedAt      time.Time             `json:"createdAt"`
}

// StoredObject is the durable result of an object-store upload.
type StoredObject struct {
	URL string `json:"url"`
	Ref string `json:"ref"`
}

// StatusChange describes one requested proof review transition.
type StatusChange struct {
	GalleryID   string
	ProofID     string
	Status      proofroom.ProofStatus
	DenialNotes *string
	ReviewedBy  string
	ReviewedAt  time.Time
}

// StatusChangeOutcome is the committed result of a StatusChange. Changed is
// false when the proof already held the requested status; in that case the
// gallery counters were left untouched.
type StatusChangeOutcome struct {
	Proof   Proof
	Gallery Gallery
	Changed bool
}
