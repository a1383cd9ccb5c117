package instrument

import (
	"fmt"
	"sync"
)

// Registry owns the set of known device instances. It replaces an
// ambient global driver/device list with a value a caller constructs
// explicitly at startup.
type Registry struct {
	mu   sync.Mutex
	next int
	byID map[int]*Instance
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[int]*Instance)}
}

// Add assigns inst a stable id and stores it, returning that id.
func (r *Registry) Add(inst *Instance) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.next
	r.next++
	inst.Index = id
	r.byID[id] = inst
	return id
}

// Get looks up a previously added instance by id.
func (r *Registry) Get(id int) (*Instance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inst, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("instrument: no device with id %d", id)
	}
	return inst, nil
}

// Remove drops an instance from the registry. It's the registry
// equivalent of freeing a device instance once fully closed.
func (r *Registry) Remove(id int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
}

// All returns every instance currently registered, in no particular
// order.
func (r *Registry) All() []*Instance {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Instance, 0, len(r.byID))
	for _, inst := range r.byID {
		out = append(out, inst)
	}
	return out
}
