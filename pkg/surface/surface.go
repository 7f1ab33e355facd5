// Package surface provides addressable UI surfaces and the registry that
// routes events to them by id.
package surface

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/Veraticus/sniffnotify/pkg/notification"
)

// ErrSurfaceNotFound is returned when no surface is registered under an id.
var ErrSurfaceNotFound = errors.New("surface not found")

// Surface receives emitted events.
type Surface interface {
	Emit(event string, payload any) error
}

// Func adapts a function to Surface.
type Func func(event string, payload any) error

// Emit calls f.
func (f Func) Emit(event string, payload any) error {
	return f(event, payload)
}

// Registry holds surfaces by id. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	surfaces map[string]Surface
}

var _ notification.DeliveryTarget = (*Registry)(nil)

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{surfaces: make(map[string]Surface)}
}

// Register adds s under id, replacing any surface already there.
func (r *Registry) Register(id string, s Surface) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.surfaces[id] = s
}

// Unregister removes the surface under id, if any.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.surfaces, id)
}

// Lookup returns the surface under id.
func (r *Registry) Lookup(id string) (Surface, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.surfaces[id]
	return s, ok
}

// IDs returns the registered ids, sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.surfaces))
	for id := range r.surfaces {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Emit sends event to the surface registered under id. The lock is not
// held while the surface runs.
func (r *Registry) Emit(id, event string, payload any) error {
	s, ok := r.Lookup(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrSurfaceNotFound, id)
	}
	return s.Emit(event, payload)
}

// describe renders a payload as human-readable text.
func describe(payload any) string {
	switch p := payload.(type) {
	case nil:
		return ""
	case string:
		return p
	case fmt.Stringer:
		return p.String()
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("%v", payload)
	}
	return string(data)
}
