package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/studiokawa/proofroom"
	"github.com/studiokawa/proofroom/internal/domain"
)

func testFiles(n int) []ImageFile {
	files := make([]ImageFile, n)
	for i := range files {
		files[i] = ImageFile{
			Filename:    fmt.Sprintf("img_%02d.jpg", i),
			ContentType: "image/jpeg",
			Data:        []byte(fmt.Sprintf("jpeg-bytes-%d", i)),
		}
	}
	return files
}

func newTestUploadEngine(gallery domain.Gallery) (*UploadEngine, *fakeObjectStore, *fakeGalleryRepo, *fakeProofRepo, *fakeActivityRepo, *fakeCache, *fakeSignal) {
	objects := &fakeObjectStore{failErr: errors.New("storage unavailable")}
	galleries := newFakeGalleryRepo(gallery)
	proofs := newFakeProofRepo(galleries)
	activity := &fakeActivityRepo{}
	cache := newFakeCache()
	signal := &fakeSignal{}
	engine := NewUploadEngine(objects, galleries, proofs, activity, cache, signal, &fakeThumbs{})
	return engine, objects, galleries, proofs, activity, cache, signal
}

func TestUploadGalleryImages(t *testing.T) {
	gallery := domain.Gallery{ID: "g1", OrganizationID: "org1", Status: proofroom.GalleryPending}
	engine, _, galleries, proofs, activity, _, signal := newTestUploadEngine(gallery)

	result, err := engine.UploadGalleryImages(context.Background(), "g1", testFiles(7), "studio@example.com", nil)
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	if len(result.Uploaded) != 7 || len(result.Failed) != 0 {
		t.Fatalf("expected 7 uploaded / 0 failed, got %d / %d", len(result.Uploaded), len(result.Failed))
	}
	for i, p := range result.Uploaded {
		if p.Order != i {
			t.Fatalf("proof %d has order %d", i, p.Order)
		}
		if p.Filename != fmt.Sprintf("img_%02d.jpg", i) {
			t.Fatalf("proof order does not follow input order: got %s at %d", p.Filename, i)
		}
		if p.Status != proofroom.ProofPending {
			t.Fatalf("new proof should be pending, got %s", p.Status)
		}
		if p.CurrentVersion != 1 {
			t.Fatalf("new proof should be version 1, got %d", p.CurrentVersion)
		}
	}

	if len(proofs.bulkCommits) != 1 {
		t.Fatalf("expected one atomic commit, got %d", len(proofs.bulkCommits))
	}
	if g := galleries.galleries["g1"]; g.TotalImages != 7 {
		t.Fatalf("expected totalImages 7, got %d", g.TotalImages)
	}
	if len(signal.events) != 1 || signal.events[0].Type != proofroom.EventGalleryUpdated {
		t.Fatalf("expected one gallery_updated event, got %+v", signal.events)
	}
	if len(activity.entries) != 1 || activity.entries[0].Action != domain.ActionImagesUploaded {
		t.Fatalf("expected images_uploaded activity, got %+v", activity.entries)
	}
}

func TestUploadGalleryImagesPartialFailure(t *testing.T) {
	gallery := domain.Gallery{ID: "g1", OrganizationID: "org1"}
	engine, objects, galleries, _, _, _, _ := newTestUploadEngine(gallery)

	files := testFiles(6)
	files[1].Filename = "bad_one.jpg"
	files[4].Filename = "bad_two.jpg"
	objects.failSubstring = "bad_"

	result, err := engine.UploadGalleryImages(context.Background(), "g1", files, "studio@example.com", nil)
	if err != nil {
		t.Fatalf("partial failure must not fail the batch: %v", err)
	}

	if got := len(result.Uploaded) + len(result.Failed); got != len(files) {
		t.Fatalf("uploaded+failed = %d, want %d", got, len(files))
	}
	if len(result.Failed) != 2 {
		t.Fatalf("expected 2 failures, got %d", len(result.Failed))
	}
	for _, f := range result.Failed {
		if f.Error == "" || f.Err == nil {
			t.Fatalf("failure must carry a reason: %+v", f)
		}
	}
	for i := 1; i < len(result.Uploaded); i++ {
		if result.Uploaded[i].Order <= result.Uploaded[i-1].Order {
			t.Fatalf("uploaded not sorted by input order: %+v", result.Uploaded)
		}
	}
	if g := galleries.galleries["g1"]; g.TotalImages != len(result.Uploaded) {
		t.Fatalf("totalImages = %d, want %d", g.TotalImages, len(result.Uploaded))
	}
}

func TestUploadGalleryImagesCancellation(t *testing.T) {
	gallery := domain.Gallery{ID: "g1", OrganizationID: "org1"}
	engine, objects, galleries, proofs, _, _, _ := newTestUploadEngine(gallery)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Cancel once the first window has made progress; the engine must not
	// start another window or commit anything.
	onProgress := func(p proofroom.UploadProgress) {
		if p.Completed >= 3 {
			cancel()
		}
	}

	_, err := engine.UploadGalleryImages(ctx, "g1", testFiles(12), "studio@example.com", onProgress)
	if !errors.Is(err, domain.ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}

	if len(proofs.bulkCommits) != 0 {
		t.Fatalf("cancelled upload must not commit, got %d commits", len(proofs.bulkCommits))
	}
	if g := galleries.galleries["g1"]; g.TotalImages != 0 {
		t.Fatalf("totalImages changed on cancellation: %d", g.TotalImages)
	}

	// Every object stored before cancellation was observed must be cleaned up.
	stored := map[string]bool{}
	for _, p := range objects.puts {
		stored[p.Path] = true
	}
	for _, ref := range objects.deleted {
		delete(stored, ref)
	}
	if len(stored) != 0 {
		t.Fatalf("orphaned objects after cancellation: %v", stored)
	}
}

func TestUploadGalleryImagesCommitError(t *testing.T) {
	gallery := domain.Gallery{ID: "g1", OrganizationID: "org1"}
	engine, _, _, proofs, _, _, signal := newTestUploadEngine(gallery)
	proofs.commitErr = errors.New("batch write rejected")

	_, err := engine.UploadGalleryImages(context.Background(), "g1", testFiles(3), "studio@example.com", nil)
	if err == nil {
		t.Fatal("expected commit error to propagate")
	}
	if len(signal.events) != 0 {
		t.Fatalf("no events should fire after a failed commit, got %+v", signal.events)
	}
}

func TestUploadGalleryImagesProgress(t *testing.T) {
	gallery := domain.Gallery{ID: "g1", OrganizationID: "org1"}
	engine, _, _, _, _, _, _ := newTestUploadEngine(gallery)

	var reports []proofroom.UploadProgress
	_, err := engine.UploadGalleryImages(context.Background(), "g1", testFiles(5), "studio@example.com",
		func(p proofroom.UploadProgress) { reports = append(reports, p) })
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	if len(reports) == 0 {
		t.Fatal("expected progress reports")
	}
	last := reports[len(reports)-1]
	if last.Completed != 5 || last.Total != 5 {
		t.Fatalf("final report %+v", last)
	}
	if last.Percentage != 100 {
		t.Fatalf("final percentage = %f, want 100", last.Percentage)
	}
	if last.Status != proofroom.UploadStatusDone {
		t.Fatalf("final status = %s", last.Status)
	}
}

func TestUploadGalleryImagesThumbnailFallback(t *testing.T) {
	gallery := domain.Gallery{ID: "g1", OrganizationID: "org1"}
	objects := &fakeObjectStore{}
	galleries := newFakeGalleryRepo(gallery)
	proofs := newFakeProofRepo(galleries)
	engine := NewUploadEngine(objects, galleries, proofs, &fakeActivityRepo{}, newFakeCache(), &fakeSignal{},
		&fakeThumbs{err: errors.New("decode failed")})

	result, err := engine.UploadGalleryImages(context.Background(), "g1", testFiles(2), "studio@example.com", nil)
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	for _, p := range result.Uploaded {
		if p.ThumbnailURL != p.ImageURL {
			t.Fatalf("expected thumbnail fallback to image url, got %s vs %s", p.ThumbnailURL, p.ImageURL)
		}
	}
}

func TestUploadGalleryImagesUnknownGallery(t *testing.T) {
	engine, _, _, _, _, _, _ := newTestUploadEngine(domain.Gallery{ID: "g1"})

	_, err := engine.UploadGalleryImages(context.Background(), "nope", testFiles(1), "studio@example.com", nil)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
