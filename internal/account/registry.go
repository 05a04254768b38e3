package account

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Registry operation errors.
var (
	ErrUsernameTaken = errors.New("username already exists")
	ErrUnknownUser   = errors.New("unknown user")
)

// Registry is the in-memory account set backed by a Store. Every
// mutation is written through to the store before the call returns, so
// the file on disk always holds the full current account set.
type Registry struct {
	mu    sync.Mutex
	store Store
	users map[string]*Account
}

// NewRegistry loads all persisted accounts from store.
func NewRegistry(store Store) (*Registry, error) {
	accounts, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}

	users := make(map[string]*Account, len(accounts))
	for i := range accounts {
		a := accounts[i]
		users[a.Username] = &a
	}

	return &Registry{store: store, users: users}, nil
}

// Register creates a new account with zeroed statistics. The existence
// check and the insert happen under one lock acquisition, so two
// concurrent registrations of the same name cannot both succeed.
func (r *Registry) Register(username, password string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[username]; exists {
		return ErrUsernameTaken
	}

	r.users[username] = &Account{Username: username, Password: password}
	if err := r.persistLocked(); err != nil {
		delete(r.users, username)
		return err
	}
	return nil
}

// Authenticate checks username and password against the stored
// credentials.
func (r *Registry) Authenticate(username, password string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.users[username]
	return ok && a.Password == password
}

// Get returns a copy of the named account.
func (r *Registry) Get(username string) (Account, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.users[username]
	if !ok {
		return Account{}, false
	}
	return *a, true
}

// Count returns how many accounts are registered.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

// RecordResult applies one finished game's outcome ("WIN", "LOSS" or
// "DRAW") to username's career totals and persists the change.
func (r *Registry) RecordResult(username, result string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.users[username]
	if !ok {
		return ErrUnknownUser
	}

	switch result {
	case "WIN":
		a.Wins++
	case "LOSS":
		a.Losses++
	case "DRAW":
		a.Draws++
	default:
		return fmt.Errorf("unknown game result %q", result)
	}

	return r.persistLocked()
}

// Leaderboard returns up to limit accounts ranked by wins, with more
// total games played breaking ties. Accounts tied on both counts come
// out in username order, so equal inputs always rank the same way.
func (r *Registry) Leaderboard(limit int) []Account {
	r.mu.Lock()
	ranked := make([]Account, 0, len(r.users))
	for _, a := range r.users {
		ranked = append(ranked, *a)
	}
	r.mu.Unlock()

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Wins != ranked[j].Wins {
			return ranked[i].Wins > ranked[j].Wins
		}
		if ranked[i].TotalGames() != ranked[j].TotalGames() {
			return ranked[i].TotalGames() > ranked[j].TotalGames()
		}
		return ranked[i].Username < ranked[j].Username
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// persistLocked saves the full account set in username order. Caller
// holds r.mu.
func (r *Registry) persistLocked() error {
	accounts := make([]Account, 0, len(r.users))
	for _, a := range r.users {
		accounts = append(accounts, *a)
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].Username < accounts[j].Username
	})
	return r.store.Save(accounts)
}
