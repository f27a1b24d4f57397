package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/trace"

	"github.com/studiokawa/proofroom"
	"github.com/studiokawa/proofroom/internal/domain"
)

// ReviewEngine applies proof status transitions and keeps the gallery's
// denormalized counters and coarse status in sync with them.
type ReviewEngine struct {
	proofs   ProofRepository
	activity ActivityRepository
	cache    ProofCache
	signal   EventPublisher
}

func NewReviewEngine(
	proofs ProofRepository,
	activity ActivityRepository,
	cache ProofCache,
	signal EventPublisher,
) *ReviewEngine {
	return &ReviewEngine{
		proofs:   proofs,
		activity: activity,
		cache:    cache,
		signal:   signal,
	}
}

// UpdateProofStatus transitions one proof's review status. Denials require
// non-empty notes; the core rejects them rather than trusting the caller.
// Counter deltas, the proof update and the gallery status recomputation all
// commit in one transaction. Re-applying the current status is an idempotent
// no-op for the counters.
func (e *ReviewEngine) UpdateProofStatus(
	ctx context.Context,
	galleryID, proofID string,
	status proofroom.ProofStatus,
	notes *string,
	actor string,
) (domain.StatusChangeOutcome, error) {
	ctx, span := tracer.Start(ctx, "Review.Engine.UpdateProofStatus")
	defer span.End()

	switch status {
	case proofroom.ProofPending, proofroom.ProofApproved, proofroom.ProofDenied:
	default:
		return domain.StatusChangeOutcome{}, errors.Errorf("unknown proof status %q", status)
	}
	if status == proofroom.ProofDenied {
		if notes == nil || strings.TrimSpace(*notes) == "" {
			return domain.StatusChangeOutcome{}, domain.ErrDenialNotesRequired
		}
	} else {
		// Notes travel with denials only.
		notes = nil
	}

	outcome, err := e.proofs.UpdateStatus(ctx, domain.StatusChange{
		GalleryID:   galleryID,
		ProofID:     proofID,
		Status:      status,
		DenialNotes: notes,
		ReviewedBy:  actor,
		ReviewedAt:  time.Now(),
	})
	if err != nil {
		return domain.StatusChangeOutcome{}, errors.Wrap(err, "UpdateProofStatus")
	}

	e.cache.Invalidate(ctx, outcome.Gallery.OrganizationID, galleryID)
	e.publishChange(ctx, galleryID, proofID)
	e.appendActivity(ctx, domain.Activity{
		GalleryID: galleryID,
		Action:    domain.ActionProofReviewed,
		ProofID:   &proofID,
		UserEmail: actor,
		Timestamp: time.Now(),
	})

	return outcome, nil
}

func (e *ReviewEngine) publishChange(ctx context.Context, galleryID, proofID string) {
	if e.signal == nil {
		return
	}
	err := e.signal.Publish(ctx, proofroom.Event{
		Type:      proofroom.EventProofUpdated,
		GalleryID: galleryID,
		ProofID:   proofID,
		Timestamp: time.Now(),
	})
	if err != nil {
		span := trace.SpanFromContext(ctx)
		span.RecordError(errors.Wrap(err, "publish proof_updated"))
	}
}

func (e *ReviewEngine) appendActivity(ctx context.Context, entry domain.Activity) {
	if e.activity == nil {
		return
	}
	if err := e.activity.Append(ctx, entry); err != nil {
		span := trace.SpanFromContext(ctx)
		span.RecordError(errors.Wrap(err, "activity append"))
	}
}
