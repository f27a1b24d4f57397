package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/studiokawa/proofroom"
	"github.com/studiokawa/proofroom/internal/domain"
	"github.com/studiokawa/proofroom/internal/infra/database/models"
)

type ProofRepository struct {
	db *gorm.DB
}

func NewProofRepository(db *gorm.DB) *ProofRepository {
	return &ProofRepository{db: db}
}

func (r *ProofRepository) Get(ctx context.Context, id string) (domain.Proof, error) {
	var model models.Proof
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Take(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Proof{}, domain.NotFoundError{Resource: "proof"}
		}
		return domain.Proof{}, err
	}
	return proofFromModel(model), nil
}

func (r *ProofRepository) ListByGallery(ctx context.Context, galleryID string) ([]domain.Proof, error) {
	var rows []models.Proof
	err := r.db.WithContext(ctx).
		Where("gallery_id = ?", galleryID).
		Order("display_order ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	proofs := make([]domain.Proof, 0, len(rows))
	for _, row := range rows {
		proofs = append(proofs, proofFromModel(row))
	}
	return proofs, nil
}

// CommitBulkUpload creates the proof rows and applies the gallery counter
// bump in one transaction. The gallery row is locked first so concurrent
// uploads into the same gallery serialize their TotalImages increments.
func (r *ProofRepository) CommitBulkUpload(ctx context.Context, galleryID string, proofs []domain.Proof) error {
	if len(proofs) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var gallery models.Gallery
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", galleryID).
			Take(&gallery).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NotFoundError{Resource: "gallery"}
			}
			return err
		}

		rows := make([]models.Proof, 0, len(proofs))
		for _, proof := range proofs {
			rows = append(rows, proofToModel(proof))
		}
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}

		total := gallery.TotalImages + len(proofs)
		status := domain.ComputeGalleryStatus(total, gallery.ApprovedCount, gallery.DeniedCount)
		return tx.Model(&models.Gallery{}).
			Where("id = ?", galleryID).
			Updates(map[string]any{
				"total_images": total,
				"status":       string(status),
			}).Error
	})
}

// CommitReplacements applies a replacement batch atomically. Each proof row
// is locked and its version re-checked against the snapshot the caller read;
// a mismatch aborts the whole batch with a VersionConflictError and nothing
// is written.
func (r *ProofRepository) CommitReplacements(ctx context.Context, galleryID string, commits []domain.ReplacementCommit) ([]domain.Proof, error) {
	if len(commits) == 0 {
		return nil, nil
	}

	updated := make([]domain.Proof, 0, len(commits))

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var gallery models.Gallery
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", galleryID).
			Take(&gallery).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NotFoundError{Resource: "gallery"}
			}
			return err
		}

		for _, commit := range commits {
			rev := commit.Revision

			var proof models.Proof
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("id = ?", rev.ProofID).
				Take(&proof).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return domain.NotFoundError{Resource: "proof"}
				}
				return err
			}

			if proof.CurrentVersion != rev.PreviousVersion {
				return domain.VersionConflictError{
					ProofID:  rev.ProofID,
					Expected: rev.PreviousVersion,
					Actual:   proof.CurrentVersion,
				}
			}

			// The replacement resets this proof to pending, so a counter it
			// contributed to must come back down with it.
			switch proofroom.ProofStatus(proof.Status) {
			case proofroom.ProofApproved:
				gallery.ApprovedCount--
			case proofroom.ProofDenied:
				gallery.DeniedCount--
			}

			err = tx.Model(&models.Revision{}).
				Where("proof_id = ? AND is_latest = ?", rev.ProofID, true).
				Update("is_latest", false).Error
			if err != nil {
				return err
			}

			revRow := revisionToModel(rev)
			if err := tx.Create(&revRow).Error; err != nil {
				return err
			}

			proof.ImageURL = commit.ImageURL
			proof.ImageRef = commit.ImageRef
			proof.ThumbnailURL = commit.ThumbnailURL
			proof.ThumbnailRef = commit.ThumbnailRef
			proof.Status = string(proofroom.ProofPending)
			proof.DenialNotes = nil
			proof.CurrentVersion = rev.VersionNumber
			proof.VersionCount = proof.VersionCount + 1
			proof.HasVersions = true
			proof.LastRevisionID = &rev.ID
			proof.ReviewedBy = nil
			proof.ReviewedAt = nil

			err = tx.Model(&models.Proof{}).
				Where("id = ?", proof.ID).
				Updates(map[string]any{
					"image_url":        proof.ImageURL,
					"image_ref":        proof.ImageRef,
					"thumbnail_url":    proof.ThumbnailURL,
					"thumbnail_ref":    proof.ThumbnailRef,
					"status":           proof.Status,
					"denial_notes":     nil,
					"current_version":  proof.CurrentVersion,
					"version_count":    proof.VersionCount,
					"has_versions":     true,
					"last_revision_id": proof.LastRevisionID,
					"reviewed_by":      nil,
					"reviewed_at":      nil,
				}).Error
			if err != nil {
				return err
			}

			updated = append(updated, proofFromModel(proof))
		}

		// Replacements reset proofs to pending, so the gallery is back in
		// review: recompute the status from the adjusted counters, and never
		// let it fall below partial while a re-review is outstanding.
		status := domain.ComputeGalleryStatus(
			gallery.TotalImages, gallery.ApprovedCount, gallery.DeniedCount)
		if status == proofroom.GalleryPending {
			status = proofroom.GalleryPartial
		}
		return tx.Model(&models.Gallery{}).
			Where("id = ?", galleryID).
			Updates(map[string]any{
				"approved_count": gallery.ApprovedCount,
				"denied_count":   gallery.DeniedCount,
				"status":         string(status),
			}).Error
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// UpdateStatus applies one review transition. The proof and gallery rows are
// both locked so the counter arithmetic stays consistent under concurrent
// reviews. Re-applying the current status is a no-op with Changed=false.
func (r *ProofRepository) UpdateStatus(ctx context.Context, change domain.StatusChange) (domain.StatusChangeOutcome, error) {
	var outcome domain.StatusChangeOutcome

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var proof models.Proof
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND gallery_id = ?", change.ProofID, change.GalleryID).
			Take(&proof).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NotFoundError{Resource: "proof"}
			}
			return err
		}

		var gallery models.Gallery
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", change.GalleryID).
			Take(&gallery).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NotFoundError{Resource: "gallery"}
			}
			return err
		}

		previous := proofroom.ProofStatus(proof.Status)
		changed := previous != change.Status

		reviewedAt := change.ReviewedAt
		proof.Status = string(change.Status)
		proof.DenialNotes = change.DenialNotes
		proof.ReviewedBy = &change.ReviewedBy
		proof.ReviewedAt = &reviewedAt

		err = tx.Model(&models.Proof{}).
			Where("id = ?", proof.ID).
			Updates(map[string]any{
				"status":       proof.Status,
				"denial_notes": proof.DenialNotes,
				"reviewed_by":  proof.ReviewedBy,
				"reviewed_at":  proof.ReviewedAt,
			}).Error
		if err != nil {
			return err
		}

		if changed {
			dApproved, dDenied := domain.CounterDelta(previous, change.Status)
			gallery.ApprovedCount += dApproved
			gallery.DeniedCount += dDenied
			gallery.Status = string(domain.ComputeGalleryStatus(
				gallery.TotalImages, gallery.ApprovedCount, gallery.DeniedCount))

			err = tx.Model(&models.Gallery{}).
				Where("id = ?", gallery.ID).
				Updates(map[string]any{
					"approved_count": gallery.ApprovedCount,
					"denied_count":   gallery.DeniedCount,
					"status":         gallery.Status,
				}).Error
			if err != nil {
				return err
			}
		}

		outcome = domain.StatusChangeOutcome{
			Proof:   proofFromModel(proof),
			Gallery: galleryFromModel(gallery),
			Changed: changed,
		}
		return nil
	})
	if err != nil {
		return domain.StatusChangeOutcome{}, err
	}

	return outcome, nil
}
