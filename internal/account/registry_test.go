package account

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) (*Registry, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.txt")
	registry, err := NewRegistry(NewFileStore(path))
	require.NoError(t, err)
	return registry, path
}

func TestRegisterAndAuthenticate(t *testing.T) {
	registry, _ := newTestRegistry(t)

	require.NoError(t, registry.Register("alice", "secret"))

	assert.True(t, registry.Authenticate("alice", "secret"))
	assert.False(t, registry.Authenticate("alice", "wrong"))
	assert.False(t, registry.Authenticate("nobody", "secret"))

	a, ok := registry.Get("alice")
	require.True(t, ok)
	assert.Equal(t, Account{Username: "alice", Password: "secret"}, a)
}

func TestRegisterDuplicate(t *testing.T) {
	registry, _ := newTestRegistry(t)

	require.NoError(t, registry.Register("alice", "secret"))
	err := registry.Register("alice", "other")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	// The first registration's credentials survive the rejected attempt.
	assert.True(t, registry.Authenticate("alice", "secret"))
	assert.False(t, registry.Authenticate("alice", "other"))
	assert.Equal(t, 1, registry.Count())
}

func TestRegisterPersistsAcrossRestart(t *testing.T) {
	registry, path := newTestRegistry(t)
	require.NoError(t, registry.Register("alice", "secret"))

	reloaded, err := NewRegistry(NewFileStore(path))
	require.NoError(t, err)
	assert.True(t, reloaded.Authenticate("alice", "secret"))
}

func TestConcurrentRegistrationSingleWinner(t *testing.T) {
	registry, _ := newTestRegistry(t)

	const attempts = 16
	errs := make(chan error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- registry.Register("alice", "secret")
		}()
	}
	wg.Wait()
	close(errs)

	var won, lost int
	for err := range errs {
		if err == nil {
			won++
		} else {
			require.ErrorIs(t, err, ErrUsernameTaken)
			lost++
		}
	}

	assert.Equal(t, 1, won)
	assert.Equal(t, attempts-1, lost)
	assert.Equal(t, 1, registry.Count())
}

func TestRecordResult(t *testing.T) {
	registry, path := newTestRegistry(t)
	require.NoError(t, registry.Register("alice", "secret"))

	require.NoError(t, registry.RecordResult("alice", "WIN"))
	require.NoError(t, registry.RecordResult("alice", "WIN"))
	require.NoError(t, registry.RecordResult("alice", "LOSS"))
	require.NoError(t, registry.RecordResult("alice", "DRAW"))

	a, ok := registry.Get("alice")
	require.True(t, ok)
	assert.Equal(t, 2, a.Wins)
	assert.Equal(t, 1, a.Losses)
	assert.Equal(t, 1, a.Draws)
	assert.Equal(t, 4, a.TotalGames())

	// Stats survive a restart.
	reloaded, err := NewRegistry(NewFileStore(path))
	require.NoError(t, err)
	a, ok = reloaded.Get("alice")
	require.True(t, ok)
	assert.Equal(t, 2, a.Wins)
}

func TestRecordResultErrors(t *testing.T) {
	registry, _ := newTestRegistry(t)
	require.NoError(t, registry.Register("alice", "secret"))

	assert.ErrorIs(t, registry.RecordResult("nobody", "WIN"), ErrUnknownUser)
	assert.Error(t, registry.RecordResult("alice", "VICTORY"))

	a, _ := registry.Get("alice")
	assert.Zero(t, a.TotalGames())
}

func TestLeaderboardRanking(t *testing.T) {
	registry, _ := newTestRegistry(t)

	seed := func(username string, wins, losses, draws int) {
		require.NoError(t, registry.Register(username, "pw"))
		for i := 0; i < wins; i++ {
			require.NoError(t, registry.RecordResult(username, "WIN"))
		}
		for i := 0; i < losses; i++ {
			require.NoError(t, registry.RecordResult(username, "LOSS"))
		}
		for i := 0; i < draws; i++ {
			require.NoError(t, registry.RecordResult(username, "DRAW"))
		}
	}

	seed("carol", 7, 0, 0)
	seed("alice", 5, 5, 0)
	seed("bob", 5, 3, 0)
	seed("dave", 0, 1, 0)
	seed("frank", 0, 0, 0)
	seed("eve", 0, 0, 0)

	ranked := registry.Leaderboard(10)
	names := make([]string, len(ranked))
	for i, a := range ranked {
		names[i] = a.Username
	}

	// Wins rank first; on equal wins the account with more games
	// played ranks higher; full ties fall back to username order.
	assert.Equal(t, []string{"carol", "alice", "bob", "dave", "eve", "frank"}, names)
}

func TestLeaderboardLimit(t *testing.T) {
	registry, _ := newTestRegistry(t)
	for _, name := range []string{"a", "b", "c", "d"} {
		require.NoError(t, registry.Register(name, "pw"))
	}

	assert.Len(t, registry.Leaderboard(2), 2)
	assert.Len(t, registry.Leaderboard(10), 4)
}
