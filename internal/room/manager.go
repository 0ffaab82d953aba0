package room

import (
	"context"
	"log/slog"
	"sync"
)

// Manager holds one Authority per room id. Rooms are created on first access,
// hydrated from the persisted blob, and left dormant in memory afterwards;
// there is no shared mutable state between rooms.
type Manager struct {
	store   StateStore
	archive HistoryArchive
	bcast   Broadcaster
	log     *slog.Logger

	mu    sync.Mutex
	rooms map[string]*roomEntry
}

// roomEntry defers hydration to first use so the manager lock is never held
// across store I/O; one room hydrating must not stall dispatch for others.
type roomEntry struct {
	once sync.Once
	auth *Authority
	err  error
}

func NewManager(store StateStore, archive HistoryArchive, bcast Broadcaster, log *slog.Logger) *Manager {
	return &Manager{
		store:   store,
		archive: archive,
		bcast:   bcast,
		log:     log,
		rooms:   make(map[string]*roomEntry),
	}
}

// GetOrCreate returns the room's authority, hydrating and starting it on
// first access. Concurrent callers for the same room wait on the same
// hydration; callers for other rooms are unaffected.
func (m *Manager) GetOrCreate(ctx context.Context, roomID string) (*Authority, error) {
	m.mu.Lock()
	e, ok := m.rooms[roomID]
	if !ok {
		e = &roomEntry{}
		m.rooms[roomID] = e
	}
	m.mu.Unlock()

	e.once.Do(func() {
		a := NewAuthority(roomID, m.store, m.archive, m.bcast, m.log)
		err := a.Hydrate(ctx)
		m.mu.Lock()
		defer m.mu.Unlock()
		if err != nil {
			e.err = err
			// Drop the failed entry so the next join retries hydration.
			if m.rooms[roomID] == e {
				delete(m.rooms, roomID)
			}
			return
		}
		go a.Run()
		e.auth = a
	})

	m.mu.Lock()
	defer m.mu.Unlock()
	if e.err != nil {
		return nil, e.err
	}
	return e.auth, nil
}

// Get returns an already-resident room, if any.
func (m *Manager) Get(roomID string) (*Authority, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.rooms[roomID]
	if !ok || e.auth == nil {
		return nil, false
	}
	return e.auth, true
}

// Shutdown stops every resident room's mailbox.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.rooms {
		if e.auth != nil {
			e.auth.Stop()
		}
	}
	m.rooms = make(map[string]*roomEntry)
}
