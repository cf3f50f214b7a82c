package session

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGetOrCreateReturnsSameSession(t *testing.T) {
	store := NewMemoryStore()
	a := store.GetOrCreate("10.0.0.1:5001")
	b := store.GetOrCreate("10.0.0.1:5001")
	require.Same(t, a, b)
	require.Equal(t, 1, store.Len())
}

func TestGetOrCreateConcurrent(t *testing.T) {
	store := NewMemoryStore()
	const goroutines = 32
	sessions := make([]*Session, goroutines)
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(i int) {
			defer wg.Done()
			sessions[i] = store.GetOrCreate("10.0.0.1:5001")
		}(i)
	}
	wg.Wait()
	for i := 1; i < goroutines; i++ {
		require.Same(t, sessions[0], sessions[i])
	}
	require.Equal(t, 1, store.Len())
}

func TestSessionIsolation(t *testing.T) {
	store := NewMemoryStore()
	a := store.GetOrCreate("10.0.0.1:5001")
	b := store.GetOrCreate("10.0.0.2:5001")

	a.SetAuthenticated("admin")
	b.RecordFailure()

	require.True(t, a.Authenticated())
	require.False(t, b.Authenticated())
	require.Equal(t, "admin", a.Username())
	require.Empty(t, b.Username())
	require.False(t, a.Locked(3))
}

func TestRemove(t *testing.T) {
	store := NewMemoryStore()
	store.GetOrCreate("10.0.0.1:5001")
	require.NoError(t, store.Remove("10.0.0.1:5001"))
	require.ErrorIs(t, store.Remove("10.0.0.1:5001"), ErrSessionNotFound)
	_, err := store.Get("10.0.0.1:5001")
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSweepExpired(t *testing.T) {
	store := NewMemoryStore()
	for i := 0; i < 5; i++ {
		store.GetOrCreate(fmt.Sprintf("10.0.0.%d:5001", i))
	}
	require.Equal(t, 0, store.SweepExpired(time.Hour))
	require.Equal(t, 5, store.Len())

	time.Sleep(5 * time.Millisecond)
	require.Equal(t, 5, store.SweepExpired(time.Millisecond))
	require.Equal(t, 0, store.Len())
}

func TestSweepSparesActiveSessions(t *testing.T) {
	store := NewMemoryStore()
	idle := store.GetOrCreate("10.0.0.1:5001")
	_ = idle
	time.Sleep(20 * time.Millisecond)
	active := store.GetOrCreate("10.0.0.2:5001")
	active.Touch()

	require.Equal(t, 1, store.SweepExpired(10*time.Millisecond))
	_, err := store.Get("10.0.0.1:5001")
	require.ErrorIs(t, err, ErrSessionNotFound)
	_, err = store.Get("10.0.0.2:5001")
	require.NoError(t, err)
}

func TestFailureCounterAndLockout(t *testing.T) {
	store := NewMemoryStore()
	sess := store.GetOrCreate("10.0.0.1:5001")
	require.False(t, sess.Locked(3))
	require.Equal(t, 1, sess.RecordFailure())
	require.Equal(t, 2, sess.RecordFailure())
	require.Equal(t, 3, sess.RecordFailure())
	require.True(t, sess.Locked(3))

	// Success resets the counter on a fresh session.
	fresh := store.GetOrCreate("10.0.0.2:5001")
	fresh.RecordFailure()
	fresh.SetAuthenticated("admin")
	require.False(t, fresh.Locked(1))
	require.True(t, fresh.Authenticated())
}
