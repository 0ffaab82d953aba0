package room

// Registry maps ephemeral connection ids onto stable logical-user ids and
// tracks how many live connections each user holds. It carries no locking of
// its own: it is only ever touched inside the room's serialization domain.
type Registry struct {
	conns  map[string]string // connID -> userID
	counts map[string]int    // userID -> live connection count
}

func NewRegistry() *Registry {
	return &Registry{
		conns:  make(map[string]string),
		counts: make(map[string]int),
	}
}

// Register associates a connection with a user. Registering the same pair
// twice is idempotent; re-registering a connection under a different user
// moves it, and the displaced user plus its remaining live connection count
// are returned so the caller can update presence.
func (r *Registry) Register(connID, userID string) (displaced string, remaining int) {
	if prev, ok := r.conns[connID]; ok {
		if prev == userID {
			return "", 0
		}
		r.drop(connID, prev)
		displaced = prev
		remaining = r.counts[prev]
	}
	r.conns[connID] = userID
	r.counts[userID]++
	return displaced, remaining
}

// Unregister removes the association and returns the user it belonged to and
// that user's remaining live connection count. Unknown connection ids are a
// no-op (ok=false): sockets may close after already being cleaned up.
func (r *Registry) Unregister(connID string) (userID string, remaining int, ok bool) {
	userID, ok = r.conns[connID]
	if !ok {
		return "", 0, false
	}
	r.drop(connID, userID)
	return userID, r.counts[userID], true
}

func (r *Registry) drop(connID, userID string) {
	delete(r.conns, connID)
	if r.counts[userID] > 1 {
		r.counts[userID]--
	} else {
		delete(r.counts, userID)
	}
}

// LiveCount returns the number of live connections for a user.
func (r *Registry) LiveCount(userID string) int {
	return r.counts[userID]
}

// TotalConnections returns the number of live connections in the room.
func (r *Registry) TotalConnections() int {
	return len(r.conns)
}

// UserFor resolves the user a connection is bound to.
func (r *Registry) UserFor(connID string) (string, bool) {
	userID, ok := r.conns[connID]
	return userID, ok
}
