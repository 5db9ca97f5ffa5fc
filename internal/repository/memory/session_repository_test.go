package memory

import (
	"testing"
	"time"

	"pc-autobuild-be/internal/pkg/logger"
	"pc-autobuild-be/pkg/autobuild/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(ttl time.Duration) *SessionRepository {
	// Sweeping is driven by the tests through DeleteExpired.
	return NewSessionRepository(ttl, 0, logger.NewNopLogger())
}

func TestAddKeepsExistingState(t *testing.T) {
	repo := newRepo(time.Minute)

	first := repo.Add(session.NewState("alice"))
	second := repo.Add(session.NewState("alice"))

	assert.Same(t, first, second)
	assert.Equal(t, 1, repo.Count())

	got, ok := repo.Get("alice")
	require.True(t, ok)
	assert.Same(t, first, got)
}

func TestIdleSessionExpires(t *testing.T) {
	repo := newRepo(20 * time.Millisecond)
	repo.Add(session.NewState("bob"))

	time.Sleep(40 * time.Millisecond)
	repo.DeleteExpired()

	_, ok := repo.Get("bob")
	assert.False(t, ok)
	assert.Zero(t, repo.Count())
}

func TestInFlightSessionSurvivesSweep(t *testing.T) {
	repo := newRepo(20 * time.Millisecond)
	manager := session.NewManager(repo)

	st, release := manager.Acquire("carol")
	assert.Equal(t, 1, st.InFlight())

	time.Sleep(40 * time.Millisecond)
	repo.DeleteExpired()

	got, ok := repo.Get("carol")
	require.True(t, ok, "state in use must not be dropped")
	assert.Same(t, st, got)

	release()
	assert.Zero(t, st.InFlight())

	time.Sleep(40 * time.Millisecond)
	repo.DeleteExpired()
	_, ok = repo.Get("carol")
	assert.False(t, ok)
}

func TestAcquireReusesState(t *testing.T) {
	repo := newRepo(time.Minute)
	manager := session.NewManager(repo)

	a, releaseA := manager.Acquire("dave")
	b, releaseB := manager.Acquire("dave")
	defer releaseA()
	defer releaseB()

	assert.Same(t, a, b)
	assert.Equal(t, 2, a.InFlight())

	manager.Forget("dave")
	assert.Zero(t, repo.Count())
}
