package server

import (
	"sort"
	"sync"
)

// Presence tracks which accounts currently hold a live session. Each
// online username maps to the session that owns it.
type Presence struct {
	mu     sync.Mutex
	online map[string]string
}

// NewPresence creates an empty presence table.
func NewPresence() *Presence {
	return &Presence{online: make(map[string]string)}
}

// TryOnline claims username for the given session. It fails when the
// account is already online, so a second login cannot displace the
// first. The check and the claim happen under one lock acquisition.
func (p *Presence) TryOnline(username, sessionID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, taken := p.online[username]; taken {
		return false
	}
	p.online[username] = sessionID
	return true
}

// Offline releases username. Releasing an account that is not online
// is a no-op.
func (p *Presence) Offline(username string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.online, username)
}

// IsOnline reports whether username currently has a live session.
func (p *Presence) IsOnline(username string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.online[username]
	return ok
}

// Online returns all online usernames in sorted order.
func (p *Presence) Online() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	names := make([]string, 0, len(p.online))
	for name := range p.online {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
