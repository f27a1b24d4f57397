package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/bradfitz/gomemcache/memcache"

	"github.com/studiokawa/proofroom/internal/domain"
)

// MemcachedProofCache keeps proof snapshots in memcached so every node
// behind the load balancer sees the same snapshot and the same invalidation.
type MemcachedProofCache struct {
	mc *memcache.Client
}

func NewMemcachedProofCache(mc *memcache.Client) *MemcachedProofCache {
	return &MemcachedProofCache{mc: mc}
}

func (c *MemcachedProofCache) GetProofs(ctx context.Context, organizationID, galleryID string) ([]domain.Proof, bool) {
	item, err := c.mc.Get(proofKey(organizationID, galleryID))
	if err != nil {
		if !errors.Is(err, memcache.ErrCacheMiss) {
			slog.WarnContext(ctx, "memcached get failed", slog.String("error", err.Error()))
		}
		return nil, false
	}

	var proofs []domain.Proof
	if err := json.Unmarshal(item.Value, &proofs); err != nil {
		return nil, false
	}
	return proofs, true
}

func (c *MemcachedProofCache) SetProofs(ctx context.Context, organizationID, galleryID string, proofs []domain.Proof) {
	value, err := json.Marshal(proofs)
	if err != nil {
		return
	}
	err = c.mc.Set(&memcache.Item{
		Key:        proofKey(organizationID, galleryID),
		Value:      value,
		Expiration: int32(ProofTTL.Seconds()),
	})
	if err != nil {
		slog.WarnContext(ctx, "memcached set failed", slog.String("error", err.Error()))
	}
}

func (c *MemcachedProofCache) Invalidate(ctx context.Context, organizationID, galleryID string) {
	err := c.mc.Delete(proofKey(organizationID, galleryID))
	if err != nil && !errors.Is(err, memcache.ErrCacheMiss) {
		slog.WarnContext(ctx, "memcached delete failed", slog.String("error", err.Error()))
	}
}
