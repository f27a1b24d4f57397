package usecase

import (
	"context"
	"io"

	"github.com/studiokawa/proofroom"
	"github.com/studiokawa/proofroom/internal/domain"
)

// ObjectStore abstracts binary image storage. Put streams r to the given
// path, reporting fractional byte progress, and honors ctx cancellation.
// Stored objects at distinct paths never overwrite each other.
type ObjectStore interface {
	Put(ctx context.Context, path string, r io.Reader, size int64, contentType string, progress func(fraction float64)) (domain.StoredObject, error)
	Delete(ctx context.Context, ref string) error
}

// GalleryRepository defines persistence for galleries.
type GalleryRepository interface {
	Create(ctx context.Context, gallery domain.Gallery) error
	Get(ctx context.Context, id string) (domain.Gallery, error)
	ListByOrganization(ctx context.Context, organizationID string) ([]domain.Gallery, error)
	SetArchived(ctx context.Context, id string, archived bool) error
	// Delete removes the gallery and cascades to its proofs, revisions and
	// activity entries in one transaction.
	Delete(ctx context.Context, id string) error
}

// ProofRepository defines persistence for proofs and the multi-collection
// atomic batches the engines commit. Every method that touches more than one
// collection runs inside a single transaction.
type ProofRepository interface {
	Get(ctx context.Context, id string) (domain.Proof, error)
	ListByGallery(ctx context.Context, galleryID string) ([]domain.Proof, error)
	// CommitBulkUpload creates the proofs and bumps the gallery's
	// TotalImages in one transaction. The only place TotalImages increases.
	CommitBulkUpload(ctx context.Context, galleryID string, proofs []domain.Proof) error
	// CommitReplacements applies a replacement batch atomically: for each
	// commit it locks the proof row, re-checks its version against the
	// snapshot, appends the ledger row, demotes the previous latest revision
	// and updates the proof; the gallery status is set to partial. Returns
	// the updated proofs in batch order.
	CommitReplacements(ctx context.Context, galleryID string, commits []domain.ReplacementCommit) ([]domain.Proof, error)
	// UpdateStatus applies one review transition and the matching counter
	// deltas, recomputing the gallery status inside the same transaction.
	UpdateStatus(ctx context.Context, change domain.StatusChange) (domain.StatusChangeOutcome, error)
}

// RevisionRepository reads the version ledger. Rows are written only through
// ProofRepository.CommitReplacements.
type RevisionRepository interface {
	ListByProof(ctx context.Context, proofID string) ([]domain.Revision, error)
	ListByGallery(ctx context.Context, galleryID string) ([]domain.Revision, error)
}

// ActivityRepository appends and reads audit entries.
type ActivityRepository interface {
	Append(ctx context.Context, entry domain.Activity) error
	ListByGallery(ctx context.Context, galleryID string, limit int) ([]domain.Activity, error)
}

// ProofCache is a passive snapshot cache over a gallery's proofs. It has no
// correctness obligation: a miss or stale entry just falls back to the
// repository. Implementations must never block on correctness.
type ProofCache interface {
	GetProofs(ctx context.Context, organizationID, galleryID string) ([]domain.Proof, bool)
	SetProofs(ctx context.Context, organizationID, galleryID string, proofs []domain.Proof)
	Invalidate(ctx context.Context, organizationID, galleryID string)
}

// EventPublisher pushes change events to realtime subscribers. Publish
// failures are logged by the engines, never propagated.
type EventPublisher interface {
	Publish(ctx context.Context, event proofroom.Event) error
}

// ThumbnailGenerator produces a small preview rendition of an image. A
// generator error is non-fatal; callers fall back to the full-size URL.
type ThumbnailGenerator interface {
	Thumbnail(data []byte) ([]byte, error)
}

// PasswordHasher is the one-way hash primitive for gallery passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}
