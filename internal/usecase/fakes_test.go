package usecase

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/studiokawa/proofroom"
	"github.com/studiokawa/proofroom/internal/domain"
)

type putRecord struct {
	Path        string
	Size        int64
	ContentType string
}

type fakeObjectStore struct {
	mu      sync.Mutex
	puts    []putRecord
	deleted []string
	// failSubstring makes Put fail for any path containing it.
	failSubstring string
	failErr       error
}

func (s *fakeObjectStore) Put(ctx context.Context, path string, r io.Reader, size int64, contentType string, progress func(float64)) (domain.StoredObject, error) {
	if err := ctx.Err(); err != nil {
		return domain.StoredObject{}, err
	}
	if s.failSubstring != "" && strings.Contains(path, s.failSubstring) {
		if s.failErr != nil {
			return domain.StoredObject{}, s.failErr
		}
		return domain.StoredObject{}, errors.New("storage write failed")
	}
	if progress != nil {
		progress(0.5)
		progress(1)
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return domain.StoredObject{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.puts = append(s.puts, putRecord{Path: path, Size: size, ContentType: contentType})
	return domain.StoredObject{URL: "https://cdn.test/" + path, Ref: path}, nil
}

func (s *fakeObjectStore) Delete(ctx context.Context, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, ref)
	return nil
}

func (s *fakeObjectStore) imagePuts() []putRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []putRecord
	for _, p := range s.puts {
		if strings.Contains(p.Path, "/thumbs/") {
			continue
		}
		out = append(out, p)
	}
	return out
}

type fakeGalleryRepo struct {
	galleries map[string]domain.Gallery
	archived  map[string]bool
	deleted   []string
}

func newFakeGalleryRepo(galleries ...domain.Gallery) *fakeGalleryRepo {
	r := &fakeGalleryRepo{
		galleries: map[string]domain.Gallery{},
		archived:  map[string]bool{},
	}
	for _, g := range galleries {
		r.galleries[g.ID] = g
	}
	return r
}

func (r *fakeGalleryRepo) Create(ctx context.Context, gallery domain.Gallery) error {
	r.galleries[gallery.ID] = gallery
	return nil
}

func (r *fakeGalleryRepo) Get(ctx context.Context, id string) (domain.Gallery, error) {
	g, ok := r.galleries[id]
	if !ok {
		return domain.Gallery{}, domain.NotFoundError{Resource: "gallery"}
	}
	return g, nil
}

func (r *fakeGalleryRepo) ListByOrganization(ctx context.Context, organizationID string) ([]domain.Gallery, error) {
	var out []domain.Gallery
	for _, g := range r.galleries {
		if g.OrganizationID == organizationID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *fakeGalleryRepo) SetArchived(ctx context.Context, id string, archived bool) error {
	r.archived[id] = archived
	return nil
}

func (r *fakeGalleryRepo) Delete(ctx context.Context, id string) error {
	delete(r.galleries, id)
	r.deleted = append(r.deleted, id)
	return nil
}

// fakeProofRepo applies the same commit semantics the real repository
// promises, over in-memory state, so engine tests can assert the committed
// outcome rather than raw calls.
type fakeProofRepo struct {
	galleries      *fakeGalleryRepo
	proofs         map[string]domain.Proof
	bulkCommits    [][]domain.Proof
	replaceCommits [][]domain.ReplacementCommit
	commitErr      error
}

func newFakeProofRepo(galleries *fakeGalleryRepo, proofs ...domain.Proof) *fakeProofRepo {
	r := &fakeProofRepo{galleries: galleries, proofs: map[string]domain.Proof{}}
	for _, p := range proofs {
		r.proofs[p.ID] = p
	}
	return r
}

func (r *fakeProofRepo) Get(ctx context.Context, id string) (domain.Proof, error) {
	p, ok := r.proofs[id]
	if !ok {
		return domain.Proof{}, domain.NotFoundError{Resource: "proof"}
	}
	return p, nil
}

func (r *fakeProofRepo) ListByGallery(ctx context.Context, galleryID string) ([]domain.Proof, error) {
	var out []domain.Proof
	for _, p := range r.proofs {
		if p.GalleryID == galleryID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProofRepo) CommitBulkUpload(ctx context.Context, galleryID string, proofs []domain.Proof) error {
	if r.commitErr != nil {
		return r.commitErr
	}
	r.bulkCommits = append(r.bulkCommits, proofs)
	for _, p := range proofs {
		r.proofs[p.ID] = p
	}
	g := r.galleries.galleries[galleryID]
	g.TotalImages += len(proofs)
	g.Status = domain.ComputeGalleryStatus(g.TotalImages, g.ApprovedCount, g.DeniedCount)
	r.galleries.galleries[galleryID] = g
	return nil
}

func (r *fakeProofRepo) CommitReplacements(ctx context.Context, galleryID string, commits []domain.ReplacementCommit) ([]domain.Proof, error) {
	if r.commitErr != nil {
		return nil, r.commitErr
	}
	r.replaceCommits = append(r.replaceCommits, commits)
	updated := make([]domain.Proof, 0, len(commits))
	g := r.galleries.galleries[galleryID]
	for _, c := range commits {
		p, ok := r.proofs[c.Revision.ProofID]
		if !ok {
			return nil, domain.NotFoundError{Resource: "proof"}
		}
		if p.CurrentVersion != c.Revision.PreviousVersion {
			return nil, domain.VersionConflictError{
				ProofID:  p.ID,
				Expected: c.Revision.PreviousVersion,
				Actual:   p.CurrentVersion,
			}
		}
		switch p.Status {
		case proofroom.ProofApproved:
			g.ApprovedCount--
		case proofroom.ProofDenied:
			g.DeniedCount--
		}
		p.ImageURL = c.ImageURL
		p.ImageRef = c.ImageRef
		p.ThumbnailURL = c.ThumbnailURL
		p.ThumbnailRef = c.ThumbnailRef
		p.Status = proofroom.ProofPending
		p.DenialNotes = nil
		p.CurrentVersion = c.Revision.VersionNumber
		p.VersionCount++
		p.HasVersions = true
		rev := c.Revision.ID
		p.LastRevisionID = &rev
		r.proofs[p.ID] = p
		updated = append(updated, p)
	}
	g.Status = domain.ComputeGalleryStatus(g.TotalImages, g.ApprovedCount, g.DeniedCount)
	if g.Status == proofroom.GalleryPending {
		g.Status = proofroom.GalleryPartial
	}
	r.galleries.galleries[galleryID] = g
	return updated, nil
}

func (r *fakeProofRepo) UpdateStatus(ctx context.Context, change domain.StatusChange) (domain.StatusChangeOutcome, error) {
	p, ok := r.proofs[change.ProofID]
	if !ok {
		return domain.StatusChangeOutcome{}, domain.NotFoundError{Resource: "proof"}
	}
	g := r.galleries.galleries[change.GalleryID]

	changed := p.Status != change.Status
	if changed {
		da, dd := domain.CounterDelta(p.Status, change.Status)
		g.ApprovedCount += da
		g.DeniedCount += dd
		g.Status = domain.ComputeGalleryStatus(g.TotalImages, g.ApprovedCount, g.DeniedCount)
		r.galleries.galleries[change.GalleryID] = g
	}
	p.Status = change.Status
	p.DenialNotes = change.DenialNotes
	reviewer := change.ReviewedBy
	p.ReviewedBy = &reviewer
	at := change.ReviewedAt
	p.ReviewedAt = &at
	r.proofs[change.ProofID] = p

	return domain.StatusChangeOutcome{Proof: p, Gallery: g, Changed: changed}, nil
}

type fakeRevisionRepo struct {
	revisions []domain.Revision
}

func (r *fakeRevisionRepo) ListByProof(ctx context.Context, proofID string) ([]domain.Revision, error) {
	var out []domain.Revision
	for _, rev := range r.revisions {
		if rev.ProofID == proofID {
			out = append(out, rev)
		}
	}
	return out, nil
}

func (r *fakeRevisionRepo) ListByGallery(ctx context.Context, galleryID string) ([]domain.Revision, error) {
	var out []domain.Revision
	for _, rev := range r.revisions {
		if rev.GalleryID == galleryID {
			out = append(out, rev)
		}
	}
	return out, nil
}

type fakeActivityRepo struct {
	entries   []domain.Activity
	appendErr error
}

func (r *fakeActivityRepo) Append(ctx context.Context, entry domain.Activity) error {
	if r.appendErr != nil {
		return r.appendErr
	}
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeActivityRepo) ListByGallery(ctx context.Context, galleryID string, limit int) ([]domain.Activity, error) {
	return r.entries, nil
}

type fakeCache struct {
	snapshots    map[string][]domain.Proof
	invalidated  []string
	setCount     int
	getHitCount  int
	getMissCount int
}

func newFakeCache() *fakeCache {
	return &fakeCache{snapshots: map[string][]domain.Proof{}}
}

func (c *fakeCache) GetProofs(ctx context.Context, organizationID, galleryID string) ([]domain.Proof, bool) {
	proofs, ok := c.snapshots[organizationID+"|"+galleryID]
	if ok {
		c.getHitCount++
	} else {
		c.getMissCount++
	}
	return proofs, ok
}

func (c *fakeCache) SetProofs(ctx context.Context, organizationID, galleryID string, proofs []domain.Proof) {
	c.setCount++
	c.snapshots[organizationID+"|"+galleryID] = proofs
}

func (c *fakeCache) Invalidate(ctx context.Context, organizationID, galleryID string) {
	delete(c.snapshots, organizationID+"|"+galleryID)
	c.invalidated = append(c.invalidated, organizationID+"|"+galleryID)
}

type fakeSignal struct {
	events []proofroom.Event
}

func (s *fakeSignal) Publish(ctx context.Context, event proofroom.Event) error {
	s.events = append(s.events, event)
	return nil
}

type fakeThumbs struct {
	err error
}

func (t *fakeThumbs) Thumbnail(data []byte) ([]byte, error) {
	if t.err != nil {
		return nil, t.err
	}
	return append([]byte("thumb:"), data...), nil
}

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakeHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return domain.ErrPasswordMismatch
	}
	return nil
}
