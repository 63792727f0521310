package swirl

import (
	"sync"

	"github.com/google/uuid"
)

// CloneHandle identifies a registered clone. The zero handle is never
// issued.
type CloneHandle struct {
	id uuid.UUID
}

// IsZero reports whether h is the zero handle.
func (h CloneHandle) IsZero() bool {
	return h.id == uuid.Nil
}

func (h CloneHandle) String() string {
	return h.id.String()
}

// aliver is implemented by clones that can report their own teardown.
type aliver interface {
	Alive() bool
}

// CloneRegistry holds the secondary consumers of dimmed deliveries.
// It does not keep clones alive on their behalf: a clone that reports
// Alive() == false is skipped and forgotten at the next delivery.
//
// CloneRegistry is safe for concurrent use.
type CloneRegistry struct {
	mu     sync.Mutex
	clones map[uuid.UUID]Clone
}

// NewCloneRegistry creates an empty registry.
func NewCloneRegistry() *CloneRegistry {
	return &CloneRegistry{clones: make(map[uuid.UUID]Clone)}
}

// Register adds c and returns its handle.
func (r *CloneRegistry) Register(c Clone) CloneHandle {
	h := CloneHandle{id: uuid.New()}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.clones[h.id] = c
	return h
}

// Unregister removes the clone behind h. It returns false for unknown
// or already removed handles.
func (r *CloneRegistry) Unregister(h CloneHandle) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.clones[h.id]; !ok {
		return false
	}
	delete(r.clones, h.id)
	return true
}

// Len returns the number of registered clones, live or not.
func (r *CloneRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clones)
}

// Live returns the clones that are still alive, dropping the rest.
// The order is unspecified.
func (r *CloneRegistry) Live() []Clone {
	r.mu.Lock()
	defer r.mu.Unlock()

	live := make([]Clone, 0, len(r.clones))
	for id, c := range r.clones {
		if a, ok := c.(aliver); ok && !a.Alive() {
			delete(r.clones, id)
			Logger().Debug("swirl: dropped dead clone", "handle", id.String())
			continue
		}
		live = append(live, c)
	}
	return live
}

// Deliver presents d to every live clone and returns how many received it.
func (r *CloneRegistry) Deliver(d *Delivery) int {
	live := r.Live()
	for _, c := range live {
		c.PresentDimmed(d)
	}
	return len(live)
}
