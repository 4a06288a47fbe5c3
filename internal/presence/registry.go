package presence

import (
	"log"
	"sync"

	"relay-service/internal/models"
	"relay-service/internal/observability"
)

// Conn is the opaque connection handle the registry binds identities to.
// The websocket layer provides the real implementation; tests substitute
// their own.
type Conn interface {
	WriteJSON(v any) error
	Close() error
}

// Registry is the single source of truth for which identities are online
// and where to reach them. One active connection per identity: a new
// registration replaces any prior binding (last writer wins).
type Registry struct {
	mu         sync.RWMutex
	byIdentity map[string]Conn
	byConn     map[Conn]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byIdentity: make(map[string]Conn),
		byConn:     make(map[Conn]string),
	}
}

// Register binds an identity to a connection, replacing any existing
// binding, and broadcasts user_online to all other connections once the
// binding is committed. The superseded connection, if any, is returned so
// the caller can decide what to do with it.
func (r *Registry) Register(identity string, conn Conn) (Conn, bool) {
	r.mu.Lock()
	prev, superseded := r.byIdentity[identity]
	if superseded {
		delete(r.byConn, prev)
	}
	r.byIdentity[identity] = conn
	r.byConn[conn] = identity
	others := r.othersLocked(identity)
	observability.SetPresenceOnline(len(r.byIdentity))
	r.mu.Unlock()

	writeAll(others, models.NewEvent(models.EventUserOnline, models.PresencePayload{Identity: identity}))
	return prev, superseded
}

// Unregister removes the binding held by exactly this connection. A stale
// disconnect from a connection that was already superseded by a newer join
// is a no-op; user_offline is broadcast only when a removal happened.
func (r *Registry) Unregister(conn Conn) (string, bool) {
	r.mu.Lock()
	identity, ok := r.byConn[conn]
	if !ok {
		r.mu.Unlock()
		return "", false
	}
	delete(r.byConn, conn)
	delete(r.byIdentity, identity)
	others := r.othersLocked(identity)
	observability.SetPresenceOnline(len(r.byIdentity))
	r.mu.Unlock()

	writeAll(others, models.NewEvent(models.EventUserOffline, models.PresencePayload{Identity: identity}))
	return identity, true
}

// Lookup returns the connection currently bound to the identity.
func (r *Registry) Lookup(identity string) (Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, ok := r.byIdentity[identity]
	return conn, ok
}

// Push delivers an event to the identity if it is online. A miss is a
// normal outcome, not an error; the return value only reports it.
func (r *Registry) Push(identity string, event models.Event) bool {
	conn, ok := r.Lookup(identity)
	if !ok {
		return false
	}
	if err := conn.WriteJSON(event); err != nil {
		log.Printf("presence push to %s failed: %v", identity, err)
		return false
	}
	return true
}

func (r *Registry) othersLocked(identity string) []Conn {
	others := make([]Conn, 0, len(r.byIdentity))
	for name, conn := range r.byIdentity {
		if name != identity {
			others = append(others, conn)
		}
	}
	return others
}

func writeAll(conns []Conn, event models.Event) {
	for _, conn := range conns {
		if err := conn.WriteJSON(event); err != nil {
			log.Printf("presence broadcast write error: %v", err)
		}
	}
}
