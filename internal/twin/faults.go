package twin

import (
	"sync"
)

// Fault forces a response for one path.
type Fault struct {
	StatusCode int    `json:"status_code"`
	Body       string `json:"body,omitempty"`
	// Remaining limits how many requests the fault applies to; 0 means unlimited.
	Remaining int `json:"remaining,omitempty"`
}

// FaultRegistry manages injected faults keyed by request path.
type FaultRegistry struct {
	mu     sync.Mutex
	faults map[string]*Fault
}

// NewFaultRegistry creates an empty registry.
func NewFaultRegistry() *FaultRegistry {
	return &FaultRegistry{faults: make(map[string]*Fault)}
}

// Set injects a fault for path.
func (r *FaultRegistry) Set(path string, fault Fault) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f := fault
	r.faults[path] = &f
}

// Remove deletes the fault for path.
func (r *FaultRegistry) Remove(path string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.faults[path]
	delete(r.faults, path)
	return ok
}

// Clear removes every fault.
func (r *FaultRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.faults = make(map[string]*Fault)
}

// Check returns the fault for path and consumes one use of it.
func (r *FaultRegistry) Check(path string) (Fault, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.faults[path]
	if !ok {
		return Fault{}, false
	}
	if f.Remaining > 0 {
		f.Remaining--
		if f.Remaining == 0 {
			delete(r.faults, path)
		}
	}
	return *f, true
}
