package usecase

import (
	"bytes"
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"

	"github.com/studiokawa/proofroom"
	"github.com/studiokawa/proofroom/internal/domain"
)

var tracer = otel.Tracer("usecase")

// uploadWindow bounds concurrent outstanding object-store operations during
// a bulk upload. Window N+1 does not start until window N has fully settled.
const uploadWindow = 5

// ImageFile is one image blob handed to the engine.
type ImageFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// FailedUpload records a single file that failed during a bulk upload. The
// failure is local: the rest of the batch continues without it.
type FailedUpload struct {
	Index    int    `json:"index"`
	Filename string `json:"filename"`
	Error    string `json:"error"`
	Err      error  `json:"-"`
}

// UploadResult is the typed outcome of a bulk upload. Uploaded is ordered by
// original input index, regardless of completion order.
type UploadResult struct {
	Uploaded []domain.Proof `json:"uploaded"`
	Failed   []FailedUpload `json:"failed"`
}

// UploadEngine orchestrates bulk uploads and image replacements: bounded
// concurrent object-store uploads followed by a single atomic document
// commit. Side effects with no correctness obligation (cache invalidation,
// realtime events, activity entries) happen after the commit and never fail
// the operation.
type UploadEngine struct {
	objects   ObjectStore
	galleries GalleryRepository
	proofs    ProofRepository
	activity  ActivityRepository
	cache     ProofCache
	signal    EventPublisher
	thumbs    ThumbnailGenerator
}

func NewUploadEngine(
	objects ObjectStore,
	galleries GalleryRepository,
	proofs ProofRepository,
	activity ActivityRepository,
	cache ProofCache,
	signal EventPublisher,
	thumbs ThumbnailGenerator,
) *UploadEngine {
	return &UploadEngine{
		objects:   objects,
		galleries: galleries,
		proofs:    proofs,
		activity:  activity,
		cache:     cache,
		signal:    signal,
		thumbs:    thumbs,
	}
}

type uploadedFile struct {
	index  int
	file   ImageFile
	object domain.StoredObject
	thumb  domain.StoredObject
}

// uploadCollector gathers per-file outcomes from the goroutines of a window.
type uploadCollector struct {
	mu       sync.Mutex
	uploaded []uploadedFile
	failed   []FailedUpload
}

func newUploadCollector() *uploadCollector {
	return &uploadCollector{}
}

func (c *uploadCollector) ok(u uploadedFile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.uploaded = append(c.uploaded, u)
}

func (c *uploadCollector) fail(f FailedUpload) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failed = append(c.failed, f)
}

// UploadGalleryImages uploads files to the object store in windows of five
// and then creates their proofs in one transaction, bumping the gallery's
// TotalImages. Individual upload failures are collected and skipped; the
// batch carries on. A cancelled context aborts before the commit, cleans up
// any objects already stored and returns domain.ErrCancelled with zero
// document mutations.
func (e *UploadEngine) UploadGalleryImages(
	ctx context.Context,
	galleryID string,
	files []ImageFile,
	actor string,
	onProgress func(proofroom.UploadProgress),
) (UploadResult, error) {
	ctx, span := tracer.Start(ctx, "Upload.Engine.UploadGalleryImages")
	defer span.End()

	gallery, err := e.galleries.Get(ctx, galleryID)
	if err != nil {
		return UploadResult{}, errors.Wrap(err, "UploadGalleryImages: load gallery")
	}

	tracker := newProgressTracker(len(files), onProgress)
	collector := newUploadCollector()

	for start := 0; start < len(files); start += uploadWindow {
		if ctx.Err() != nil {
			break
		}
		end := start + uploadWindow
		if end > len(files) {
			end = len(files)
		}
		e.uploadWindow(ctx, galleryID, files, start, end, tracker, collector)
	}

	if ctx.Err() != nil {
		e.cleanupObjects(collector.uploaded)
		return UploadResult{}, domain.ErrCancelled
	}

	uploaded := collector.uploaded
	sort.Slice(uploaded, func(i, j int) bool {
		return uploaded[i].index < uploaded[j].index
	})
	sort.Slice(collector.failed, func(i, j int) bool {
		return collector.failed[i].Index < collector.failed[j].Index
	})

	now := time.Now()
	result := UploadResult{
		Uploaded: make([]domain.Proof, 0, len(uploaded)),
		Failed:   collector.failed,
	}
	for position, u := range uploaded {
		thumbURL := u.thumb.URL
		if thumbURL == "" {
			thumbURL = u.object.URL
		}
		result.Uploaded = append(result.Uploaded, domain.Proof{
			ID:             uuid.New().String(),
			GalleryID:      galleryID,
			Filename:       u.file.Filename,
			ImageURL:       u.object.URL,
			ImageRef:       u.object.Ref,
			ThumbnailURL:   thumbURL,
			ThumbnailRef:   u.thumb.Ref,
			Order:          position,
			Status:         proofroom.ProofPending,
			CurrentVersion: 1,
			CreatedAt:      now,
		})
	}

	if len(result.Uploaded) > 0 {
		if err := e.proofs.CommitBulkUpload(ctx, galleryID, result.Uploaded); err != nil {
			// Objects uploaded before a failed commit are left behind; a
			// reconciliation sweep is the accepted answer, not a saga here.
			return UploadResult{Failed: result.Failed}, errors.Wrap(err, "UploadGalleryImages: commit")
		}
	}
	tracker.done()

	e.cache.Invalidate(ctx, gallery.OrganizationID, galleryID)
	e.publish(ctx, proofroom.Event{
		Type:      proofroom.EventGalleryUpdated,
		GalleryID: galleryID,
		Timestamp: time.Now(),
	})
	e.appendActivity(ctx, domain.Activity{
		GalleryID: galleryID,
		Action:    domain.ActionImagesUploaded,
		UserEmail: actor,
		Timestamp: time.Now(),
	})

	return result, nil
}

// uploadWindow runs one window of concurrent uploads and waits for all of
// them to settle.
func (e *UploadEngine) uploadWindow(
	ctx context.Context,
	galleryID string,
	files []ImageFile,
	start, end int,
	tracker *progressTracker,
	collector *uploadCollector,
) {
	done := make(chan struct{})
	pending := end - start
	for i := start; i < end; i++ {
		go func(index int) {
			defer func() { done <- struct{}{} }()
			e.uploadOne(ctx, galleryID, index, files[index], tracker, collector)
		}(i)
	}
	for n := 0; n < pending; n++ {
		<-done
	}
}

func (e *UploadEngine) uploadOne(
	ctx context.Context,
	galleryID string,
	index int,
	file ImageFile,
	tracker *progressTracker,
	collector *uploadCollector,
) {
	now := time.Now()
	object, err := e.objects.Put(
		ctx,
		UploadObjectPath(galleryID, file.Filename, now),
		bytes.NewReader(file.Data),
		int64(len(file.Data)),
		file.ContentType,
		func(fraction float64) { tracker.update(index, fraction) },
	)
	if err != nil {
		tracker.settle(index, 0)
		if ctx.Err() != nil {
			// Cancellation is handled at the batch level, not as a failure.
			return
		}
		collector.fail(FailedUpload{Index: index, Filename: file.Filename, Error: err.Error(), Err: err})
		return
	}

	thumb := e.storeThumbnail(ctx, ThumbnailObjectPath(galleryID, file.Filename, now), file)
	tracker.settle(index, 1)
	collector.ok(uploadedFile{index: index, file: file, object: object, thumb: thumb})
}

// storeThumbnail generates and uploads a webp thumbnail. Any failure is
// non-fatal: the proof falls back to the full-size image URL.
func (e *UploadEngine) storeThumbnail(ctx context.Context, path string, file ImageFile) domain.StoredObject {
	if e.thumbs == nil {
		return domain.StoredObject{}
	}
	data, err := e.thumbs.Thumbnail(file.Data)
	if err != nil {
		slog.Warn("thumbnail generation failed",
			slog.String("filename", file.Filename),
			slog.String("error", err.Error()),
		)
		return domain.StoredObject{}
	}
	thumb, err := e.objects.Put(ctx, path, bytes.NewReader(data), int64(len(data)), "image/webp", nil)
	if err != nil {
		slog.Warn("thumbnail upload failed",
			slog.String("filename", file.Filename),
			slog.String("error", err.Error()),
		)
		return domain.StoredObject{}
	}
	return thumb
}

// cleanupObjects deletes uploaded-but-uncommitted objects. Best effort:
// errors are swallowed, and the parent context is already cancelled so a
// fresh one is used.
func (e *UploadEngine) cleanupObjects(uploaded []uploadedFile) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for _, u := range uploaded {
		if err := e.objects.Delete(ctx, u.object.Ref); err != nil {
			slog.Warn("orphan cleanup failed",
				slog.String("ref", u.object.Ref),
				slog.String("error", err.Error()),
			)
		}
		if u.thumb.Ref == "" {
			continue
		}
		if err := e.objects.Delete(ctx, u.thumb.Ref); err != nil {
			slog.Warn("orphan cleanup failed",
				slog.String("ref", u.thumb.Ref),
				slog.String("error", err.Error()),
			)
		}
	}
}

func (e *UploadEngine) publish(ctx context.Context, event proofroom.Event) {
	if e.signal == nil {
		return
	}
	if err := e.signal.Publish(ctx, event); err != nil {
		slog.Warn("event publish failed",
			slog.String("type", event.Type),
			slog.String("gallery", event.GalleryID),
			slog.String("error", err.Error()),
		)
	}
}

// appendActivity is fire-and-forget: a failed audit append must never fail
// the operation that produced it.
func (e *UploadEngine) appendActivity(ctx context.Context, entry domain.Activity) {
	if e.activity == nil {
		return
	}
	if err := e.activity.Append(ctx, entry); err != nil {
		slog.Warn("activity append failed",
			slog.String("gallery", entry.GalleryID),
			slog.String("action", entry.Action),
			slog.String("error", err.Error()),
		)
	}
}
