package room

import (
	"sort"

	"github.com/santistebanc/partytime-sub000/internal/model"
)

// Presence is the durable role-flag and display-name store, independent of
// live connections. Flags and score survive a user's full disconnect.
type Presence struct {
	users map[string]*model.User
	order []string // join order, for stable roster listings
}

func NewPresence() *Presence {
	return &Presence{users: make(map[string]*model.User)}
}

// Upsert creates the user's stored flags on first join. On rejoin the stored
// record is returned as-is; only an empty display name is refreshed.
func (p *Presence) Upsert(userID, displayName string, isFirstEver bool) *model.User {
	if u, ok := p.users[userID]; ok {
		if u.DisplayName == "" {
			u.DisplayName = displayName
		}
		return u
	}
	u := &model.User{
		ID:          userID,
		DisplayName: displayName,
		IsPlayer:    true,
		IsNarrator:  false,
		IsAdmin:     isFirstEver,
		IsHost:      isFirstEver,
	}
	p.users[userID] = u
	p.order = append(p.order, userID)
	return u
}

// Empty reports whether no user has ever established presence.
func (p *Presence) Empty() bool {
	return len(p.users) == 0
}

func (p *Presence) Get(userID string) (*model.User, bool) {
	u, ok := p.users[userID]
	return u, ok
}

// SetFlags merges only the provided flags into the stored record.
func (p *Presence) SetFlags(userID string, t model.UserToggles) error {
	u, ok := p.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	if t.IsPlayer != nil {
		u.IsPlayer = *t.IsPlayer
	}
	if t.IsNarrator != nil {
		u.IsNarrator = *t.IsNarrator
	}
	if t.IsAdmin != nil {
		u.IsAdmin = *t.IsAdmin
	}
	if t.IsHost != nil {
		u.IsHost = *t.IsHost
	}
	return nil
}

// Rename overwrites the display name unconditionally.
func (p *Presence) Rename(userID, newName string) error {
	u, ok := p.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	u.DisplayName = newName
	return nil
}

func (p *Presence) AddScore(userID string, delta int) error {
	u, ok := p.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	u.Score += delta
	return nil
}

// ResetScores zeroes every stored score. Paired with clearing the history
// ledger so that score == sum of ledger deltas keeps holding.
func (p *Presence) ResetScores() {
	for _, u := range p.users {
		u.Score = 0
	}
}

func (p *Presence) SetConnected(userID string, connected bool) {
	if u, ok := p.users[userID]; ok {
		u.Connected = connected
	}
}

// Roster returns all users in join order.
func (p *Presence) Roster() []*model.User {
	out := make([]*model.User, 0, len(p.users))
	for _, id := range p.order {
		out = append(out, p.users[id])
	}
	return out
}

// Snapshot copies the stored records for persistence. Connected is live
// connection state, not durable, so the persisted form always carries false.
func (p *Presence) Snapshot() map[string]*model.User {
	out := make(map[string]*model.User, len(p.users))
	for id, u := range p.users {
		c := u.Clone()
		c.Connected = false
		out[id] = c
	}
	return out
}

// Restore replaces the store contents from a persisted snapshot. Everyone
// starts disconnected; the registry drives the connected flag afterwards.
func (p *Presence) Restore(users map[string]*model.User) {
	p.users = make(map[string]*model.User, len(users))
	p.order = p.order[:0]
	for id, u := range users {
		c := u.Clone()
		c.Connected = false
		p.users[id] = c
		p.order = append(p.order, id)
	}
	sort.Strings(p.order)
}
