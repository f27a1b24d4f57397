package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/studiokawa/proofroom"
	"github.com/studiokawa/proofroom/internal/domain"
)

// GalleryUsecase covers gallery lifecycle and read paths around the core
// engines: creation, listing, password access, cascade deletion and the
// cached proof reads the review surface serves from.
type GalleryUsecase struct {
	objects   ObjectStore
	galleries GalleryRepository
	proofs    ProofRepository
	revisions RevisionRepository
	activity  ActivityRepository
	cache     ProofCache
	hasher    PasswordHasher
}

func NewGalleryUsecase(
	objects ObjectStore,
	galleries GalleryRepository,
	proofs ProofRepository,
	revisions RevisionRepository,
	activity ActivityRepository,
	cache ProofCache,
	hasher PasswordHasher,
) *GalleryUsecase {
	return &GalleryUsecase{
		objects:   objects,
		galleries: galleries,
		proofs:    proofs,
		revisions: revisions,
		activity:  activity,
		cache:     cache,
		hasher:    hasher,
	}
}

// CreateGalleryInput is the validated input for creating a gallery.
type CreateGalleryInput struct {
	Name           string
	SchoolID       string
	SchoolName     string
	OrganizationID string
	Password       *string
	Deadline       *time.Time
}

// Create creates an empty gallery with zeroed counters. The password, when
// present, is stored only as a bcrypt hash.
func (u *GalleryUsecase) Create(ctx context.Context, input CreateGalleryInput, actor string) (domain.Gallery, error) {
	ctx, span := tracer.Start(ctx, "Gallery.Usecase.Create")
	defer span.End()

	if input.Name == "" {
		return domain.Gallery{}, errors.New("gallery name required")
	}
	if input.OrganizationID == "" {
		return domain.Gallery{}, errors.New("organization id required")
	}

	gallery := domain.Gallery{
		ID:             uuid.New().String(),
		Name:           input.Name,
		SchoolID:       input.SchoolID,
		SchoolName:     input.SchoolName,
		OrganizationID: input.OrganizationID,
		Deadline:       input.Deadline,
		Status:         proofroom.GalleryPending,
		CreatedAt:      time.Now(),
	}
	if input.Password != nil && *input.Password != "" {
		hash, err := u.hasher.Hash(*input.Password)
		if err != nil {
			return domain.Gallery{}, errors.Wrap(err, "hash gallery password")
		}
		gallery.PasswordHash = &hash
	}

	if err := u.galleries.Create(ctx, gallery); err != nil {
		return domain.Gallery{}, errors.Wrap(err, "create gallery")
	}

	u.appendActivity(ctx, domain.Activity{
		GalleryID: gallery.ID,
		Action:    domain.ActionGalleryCreated,
		UserEmail: actor,
		Timestamp: time.Now(),
	})
	return gallery, nil
}

// Get returns the gallery and its proofs ordered by display position. Proofs
// come from the snapshot cache when fresh; a miss falls back to the
// repository and refills the cache.
func (u *GalleryUsecase) Get(ctx context.Context, galleryID string) (domain.Gallery, []domain.Proof, error) {
	ctx, span := tracer.Start(ctx, "Gallery.Usecase.Get")
	defer span.End()

	gallery, err := u.galleries.Get(ctx, galleryID)
	if err != nil {
		return domain.Gallery{}, nil, err
	}

	if proofs, ok := u.cache.GetProofs(ctx, gallery.OrganizationID, galleryID); ok {
		return gallery, proofs, nil
	}

	proofs, err := u.proofs.ListByGallery(ctx, galleryID)
	if err != nil {
		return domain.Gallery{}, nil, errors.Wrap(err, "list proofs")
	}
	u.cache.SetProofs(ctx, gallery.OrganizationID, galleryID, proofs)
	return gallery, proofs, nil
}

// ListByOrganization lists a tenant's galleries.
func (u *GalleryUsecase) ListByOrganization(ctx context.Context, organizationID string) ([]domain.Gallery, error) {
	return u.galleries.ListByOrganization(ctx, organizationID)
}

// VerifyAccess compares a submitted password against the gallery's stored
// hash. Galleries without a password accept any submission.
func (u *GalleryUsecase) VerifyAccess(ctx context.Context, galleryID, password string) error {
	gallery, err := u.galleries.Get(ctx, galleryID)
	if err != nil {
		return err
	}
	if !gallery.HasPassword() {
		return nil
	}
	if err := u.hasher.Compare(*gallery.PasswordHash, password); err != nil {
		return domain.ErrPasswordMismatch
	}
	return nil
}

// Archive flips the archived flag.
func (u *GalleryUsecase) Archive(ctx context.Context, galleryID string, archived bool, actor string) error {
	if err := u.galleries.SetArchived(ctx, galleryID, archived); err != nil {
		return err
	}
	if archived {
		u.appendActivity(ctx, domain.Activity{
			GalleryID: galleryID,
			Action:    domain.ActionGalleryArchived,
			UserEmail: actor,
			Timestamp: time.Now(),
		})
	}
	return nil
}

// Delete removes the gallery and everything it owns: proofs, revisions and
// activity rows go in one transaction, then the stored objects (every
// version's image and thumbnail) are deleted best-effort.
func (u *GalleryUsecase) Delete(ctx context.Context, galleryID string) error {
	ctx, span := tracer.Start(ctx, "Gallery.Usecase.Delete")
	defer span.End()

	gallery, err := u.galleries.Get(ctx, galleryID)
	if err != nil {
		return err
	}

	proofs, err := u.proofs.ListByGallery(ctx, galleryID)
	if err != nil {
		return errors.Wrap(err, "list proofs for delete")
	}
	revisions, err := u.revisions.ListByGallery(ctx, galleryID)
	if err != nil {
		return errors.Wrap(err, "list revisions for delete")
	}

	if err := u.galleries.Delete(ctx, galleryID); err != nil {
		return errors.Wrap(err, "delete gallery")
	}
	u.cache.Invalidate(ctx, gallery.OrganizationID, galleryID)

	var refs []string
	for _, p := range proofs {
		refs = append(refs, p.ImageRef)
		if p.ThumbnailRef != "" {
			refs = append(refs, p.ThumbnailRef)
		}
	}
	for _, r := range revisions {
		if !r.IsLatest {
			refs = append(refs, r.NewImageRef, r.NewThumbnailRef)
		}
	}
	for _, ref := range refs {
		if ref == "" {
			continue
		}
		if err := u.objects.Delete(ctx, ref); err != nil {
			slog.Warn("gallery object cleanup failed",
				slog.String("gallery", galleryID),
				slog.String("ref", ref),
				slog.String("error", err.Error()),
			)
		}
	}
	return nil
}

// GetProof returns the current state of a single proof.
func (u *GalleryUsecase) GetProof(ctx context.Context, proofID string) (domain.Proof, error) {
	return u.proofs.Get(ctx, proofID)
}

// Revisions returns a proof's version ledger, newest first.
func (u *GalleryUsecase) Revisions(ctx context.Context, proofID string) ([]domain.Revision, error) {
	return u.revisions.ListByProof(ctx, proofID)
}

// Activities returns recent audit entries for a gallery.
func (u *GalleryUsecase) Activities(ctx context.Context, galleryID string, limit int) ([]domain.Activity, error) {
	return u.activity.ListByGallery(ctx, galleryID, limit)
}

func (u *GalleryUsecase) appendActivity(ctx context.Context, entry domain.Activity) {
	if u.activity == nil {
		return
	}
	if err := u.activity.Append(ctx, entry); err != nil {
		slog.Warn("activity append failed",
			slog.String("gallery", entry.GalleryID),
			slog.String("action", entry.Action),
			slog.String("error", err.Error()),
		)
	}
}
