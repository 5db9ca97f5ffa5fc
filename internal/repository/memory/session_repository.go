package memory

import (
	"sync"
	"time"

	"pc-autobuild-be/internal/pkg/logger"
	"pc-autobuild-be/internal/pkg/metrics"
	"pc-autobuild-be/pkg/autobuild/session"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps resolver session state per requester. Entries expire
// after ttl without a lookup; the go-cache janitor sweeps them every sweep
// interval.
type SessionRepository struct {
	cache  *cache.Cache
	logger logger.ILogger

	// deleting marks keys removed by Delete; go-cache reports those to
	// onEvicted as well.
	deleting sync.Map
}

var _ session.Store = (*SessionRepository)(nil)

func NewSessionRepository(ttl, sweep time.Duration, log logger.ILogger) *SessionRepository {
	c := cache.New(ttl, sweep)
	r := &SessionRepository{cache: c, logger: log}
	c.OnEvicted(r.onEvicted)
	return r
}

// onEvicted runs after the janitor removed an expired entry. A state that is
// still used by a running resolution is put back unless a newer one already
// took its place.
func (r *SessionRepository) onEvicted(key string, value interface{}) {
	_, explicit := r.deleting.Load(key)
	st, ok := value.(*session.State)
	if ok && !explicit && st.InFlight() > 0 {
		if err := r.cache.Add(key, st, cache.DefaultExpiration); err == nil {
			return
		}
	}
	metrics.ActiveSessions.Set(float64(r.cache.ItemCount()))
	r.logger.Debug("SessionRepository", "Session evicted", map[string]interface{}{
		"requester_id": key,
	})
}

func (r *SessionRepository) Get(requesterID string) (*session.State, bool) {
	x, found := r.cache.Get(requesterID)
	if !found {
		return nil, false
	}
	st := x.(*session.State)
	// Refresh the idle timer on every lookup
	r.cache.Set(requesterID, st, cache.DefaultExpiration)
	return st, true
}

func (r *SessionRepository) Add(st *session.State) *session.State {
	if err := r.cache.Add(st.RequesterID, st, cache.DefaultExpiration); err != nil {
		if existing, ok := r.Get(st.RequesterID); ok {
			return existing
		}
		r.cache.Set(st.RequesterID, st, cache.DefaultExpiration)
	}
	metrics.ActiveSessions.Set(float64(r.cache.ItemCount()))
	return st
}

func (r *SessionRepository) Touch(st *session.State) {
	if _, found := r.cache.Get(st.RequesterID); found {
		r.cache.Set(st.RequesterID, st, cache.DefaultExpiration)
	}
}

func (r *SessionRepository) Delete(requesterID string) {
	r.deleting.Store(requesterID, struct{}{})
	defer r.deleting.Delete(requesterID)
	r.cache.Delete(requesterID)
}

// DeleteExpired runs a sweep immediately.
func (r *SessionRepository) DeleteExpired() {
	r.cache.DeleteExpired()
}

func (r *SessionRepository) Count() int {
	return r.cache.ItemCount()
}
