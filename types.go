package proofroom

import (
	"time"
)

// GalleryStatus is the coarse review state of a gallery, derived from its
// denormalized counters. It is never written directly by clients.
type GalleryStatus string

const (
	GalleryPending    GalleryStatus = "pending"
	GalleryPartial    GalleryStatus = "partial"
	GalleryApproved   GalleryStatus = "approved"
	GalleryHasDenials GalleryStatus = "has_denials"
)

// ProofStatus is the review state of a single proof image.
type ProofStatus string

const (
	ProofPending  ProofStatus = "pending"
	ProofApproved ProofStatus = "approved"
	ProofDenied   ProofStatus = "denied"
)

// UploadProgress is delivered to progress callbacks while an upload or
// replacement batch is in flight. Percentage is the arithmetic mean of the
// per-file fractions, not weighted by byte size.
type UploadProgress struct {
	Percentage float64 `json:"percentage"`
	Completed  int     `json:"completed"`
	Total      int     `json:"total"`
	Status     string  `json:"status"`
}

const (
	UploadStatusUploading = "uploading"
	UploadStatusDone      = "done"
)

// Event is published on a gallery channel whenever its proofs change state,
// and fanned out to realtime subscribers.
type Event struct {
	Type      string    `json:"type"`
	GalleryID string    `json:"galleryID"`
	ProofID   string    `json:"proofID,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	EventProofUpdated   = "proof_updated"
	EventProofReplaced  = "proof_replaced"
	EventGalleryUpdated = "gallery_updated"
)
