package memory

import (
	"time"

	"pdf-extractor/pkg/store"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps upload sessions in an expiring in-memory cache.
type SessionRepository struct {
	cache *cache.Cache
}

// NewSessionRepository creates a cache where idle sessions expire after ttl
// and expired items are purged every cleanup interval.
func NewSessionRepository(ttl, cleanup time.Duration) *SessionRepository {
	return &SessionRepository{
		cache: cache.New(ttl, cleanup),
	}
}

// Save stores the session and restarts its expiry.
func (r *SessionRepository) Save(session *store.Session) {
	r.cache.Set(session.ID, session, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(sessionID string) (*store.Session, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.Session), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}

// Count returns the number of live sessions, expired ones included until purged.
func (r *SessionRepository) Count() int {
	return r.cache.ItemCount()
}
