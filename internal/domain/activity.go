package domain

import "time"

// Activity is a best-effort audit entry. Appends are fire-and-forget:
// a failed append is logged and never fails the operation that produced it.
type Activity struct {
	ID        int64     `json:"id"`
	GalleryID string    `json:"galleryID"`
	Action    string    `json:"action"`
	ProofID   *string   `json:"proofID,omitempty"`
	UserEmail string    `json:"userEmail"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	ActionImagesUploaded  = "images_uploaded"
	ActionImagesReplaced  = "images_replaced"
	ActionProofReviewed   = "proof_reviewed"
	ActionGalleryCreated  = "gallery_created"
	ActionGalleryArchived = "gallery_archived"
)
