// Package cache provides the proof snapshot cache backends. Entries live for
// seven days or until an upload, replacement or review invalidates them.
package cache

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/studiokawa/proofroom/internal/domain"
)

const ProofTTL = 7 * 24 * time.Hour

func proofKey(organizationID, galleryID string) string {
	return "proofs:" + organizationID + ":" + galleryID
}

// InMemoryProofCache keeps proof snapshots in process memory. Suitable for
// single-node deployments; multi-node setups should use MemcachedProofCache.
type InMemoryProofCache struct {
	cache *cache.Cache
}

func NewInMemoryProofCache() *InMemoryProofCache {
	return &InMemoryProofCache{
		cache: cache.New(ProofTTL, time.Hour),
	}
}

func (c *InMemoryProofCache) GetProofs(ctx context.Context, organizationID, galleryID string) ([]domain.Proof, bool) {
	entry, found := c.cache.Get(proofKey(organizationID, galleryID))
	if !found {
		return nil, false
	}
	proofs, ok := entry.([]domain.Proof)
	if !ok {
		return nil, false
	}
	return proofs, true
}

func (c *InMemoryProofCache) SetProofs(ctx context.Context, organizationID, galleryID string, proofs []domain.Proof) {
	c.cache.Set(proofKey(organizationID, galleryID), proofs, cache.DefaultExpiration)
}

func (c *InMemoryProofCache) Invalidate(ctx context.Context, organizationID, galleryID string) {
	c.cache.Delete(proofKey(organizationID, galleryID))
}
