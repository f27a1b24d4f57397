package usecase

import (
	"bytes"
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/studiokawa/proofroom"
	"github.com/studiokawa/proofroom/internal/domain"
)

// ReplacementItem is one corrected image for an existing proof. Proof is the
// caller's snapshot of the proof being replaced; the repository re-checks its
// CurrentVersion under lock at commit time.
type ReplacementItem struct {
	ProofID     string
	Proof       domain.Proof
	File        ImageFile
	StudioNotes string
}

// ReplaceProofImages uploads corrected images for existing proofs and commits
// the whole batch in one transaction: ledger rows, proof updates and the
// gallery status flip to partial. Replacements are all-or-nothing — any
// upload failure aborts the batch with a ReplacementError naming the proof,
// and objects already uploaded for this batch are cleaned up best-effort.
//
// Uploads run sequentially: replacement volume is small and a sequential
// walk keeps batch construction free of cross-item races. Each new version's
// object lives at a path namespaced by proof and version, so prior versions
// stay intact for rollback and audit.
func (e *UploadEngine) ReplaceProofImages(
	ctx context.Context,
	galleryID string,
	items []ReplacementItem,
	actor string,
	onProgress func(proofroom.UploadProgress),
) ([]domain.Proof, error) {
	ctx, span := tracer.Start(ctx, "Upload.Engine.ReplaceProofImages")
	defer span.End()

	gallery, err := e.galleries.Get(ctx, galleryID)
	if err != nil {
		return nil, errors.Wrap(err, "ReplaceProofImages: load gallery")
	}

	tracker := newProgressTracker(len(items), onProgress)
	commits := make([]domain.ReplacementCommit, 0, len(items))
	var stored []uploadedFile

	for i, item := range items {
		if ctx.Err() != nil {
			e.cleanupObjects(stored)
			return nil, domain.ErrCancelled
		}

		newVersion := item.Proof.CurrentVersion + 1
		now := time.Now()

		object, err := e.objects.Put(
			ctx,
			VersionObjectPath(galleryID, item.ProofID, newVersion, item.File.Filename, now),
			bytes.NewReader(item.File.Data),
			int64(len(item.File.Data)),
			item.File.ContentType,
			func(fraction float64) { tracker.update(i, fraction) },
		)
		if err != nil {
			tracker.settle(i, 0)
			e.cleanupObjects(stored)
			if ctx.Err() != nil {
				return nil, domain.ErrCancelled
			}
			return nil, domain.ReplacementError{ProofID: item.ProofID, Err: err}
		}

		thumb := e.storeThumbnail(ctx,
			VersionThumbnailPath(galleryID, item.ProofID, newVersion, item.File.Filename, now),
			item.File,
		)
		tracker.settle(i, 1)
		stored = append(stored, uploadedFile{index: i, file: item.File, object: object, thumb: thumb})

		thumbURL := thumb.URL
		if thumbURL == "" {
			thumbURL = object.URL
		}
		commits = append(commits, domain.ReplacementCommit{
			Revision: domain.Revision{
				ID:               uuid.New().String(),
				ProofID:          item.ProofID,
				GalleryID:        galleryID,
				OriginalImageURL: item.Proof.ImageURL,
				NewImageURL:      object.URL,
				NewImageRef:      object.Ref,
				NewThumbnailRef:  thumb.Ref,
				VersionNumber:    newVersion,
				PreviousVersion:  item.Proof.CurrentVersion,
				DenialNotes:      item.Proof.DenialNotes,
				StudioNotes:      item.StudioNotes,
				ReplacedBy:       actor,
				ReplacedAt:       now,
				IsLatest:         true,
			},
			ImageURL:     object.URL,
			ImageRef:     object.Ref,
			ThumbnailURL: thumbURL,
			ThumbnailRef: thumb.Ref,
		})
	}

	if ctx.Err() != nil {
		e.cleanupObjects(stored)
		return nil, domain.ErrCancelled
	}

	updated, err := e.proofs.CommitReplacements(ctx, galleryID, commits)
	if err != nil {
		e.cleanupObjects(stored)
		return nil, errors.Wrap(err, "ReplaceProofImages: commit")
	}
	tracker.done()

	e.cache.Invalidate(ctx, gallery.OrganizationID, galleryID)
	for _, p := range updated {
		e.publish(ctx, proofroom.Event{
			Type:      proofroom.EventProofReplaced,
			GalleryID: galleryID,
			ProofID:   p.ID,
			Timestamp: time.Now(),
		})
	}
	e.appendActivity(ctx, domain.Activity{
		GalleryID: galleryID,
		Action:    domain.ActionImagesReplaced,
		UserEmail: actor,
		Timestamp: time.Now(),
	})

	return updated, nil
}
