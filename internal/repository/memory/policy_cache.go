package memory

import (
	"time"

	"github.com/patrickmn/go-cache"

	"studio-booking-be/internal/entity"
)

const activeTiersKey = "active_policy_tiers"

// PolicyCache keeps the active policy tier table in memory. The table is
// tiny and changes rarely, so a short TTL plus invalidation on writes is
// enough to avoid hitting the database on every cancel/reschedule.
type PolicyCache struct {
	cache *cache.Cache
}

func NewPolicyCache() *PolicyCache {
	c := cache.New(5*time.Minute, 10*time.Minute)
	return &PolicyCache{
		cache: c,
	}
}

func (r *PolicyCache) Save(policies []*entity.CancellationPolicy) {
	r.cache.Set(activeTiersKey, policies, cache.DefaultExpiration)
}

func (r *PolicyCache) Get() ([]*entity.CancellationPolicy, bool) {
	if x, found := r.cache.Get(activeTiersKey); found {
		return x.([]*entity.CancellationPolicy), true
	}
	return nil, false
}

func (r *PolicyCache) Invalidate() {
	r.cache.Delete(activeTiersKey)
}
