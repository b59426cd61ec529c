package step

import (
	"sort"
	"sync"

	"github.com/teranos/hdcat/errors"
	"github.com/teranos/hdcat/logger"
)

// Registry maps step names to implementations. Constructed once at startup,
// populated by discovery, then read-mostly. Registration is guarded so a
// concurrent Register is safe rather than undefined.
type Registry struct {
	mu    sync.RWMutex
	steps map[string]Step
}

// NewRegistry creates an empty step registry
func NewRegistry() *Registry {
	return &Registry{
		steps: make(map[string]Step),
	}
}

// Register stores a step under its name. Registering an already-used name
// replaces the previous implementation; the replacement is logged as a
// warning so the overwrite stays visible.
func (r *Registry) Register(s Step) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := s.Name()
	if _, exists := r.steps[name]; exists {
		logger.Warnw("Replacing registered step", logger.FieldStep, name)
	}
	r.steps[name] = s
}

// Get retrieves a step by name
func (r *Registry) Get(name string) (Step, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.steps[name]
	return s, ok
}

// Lookup retrieves a step by name, failing with a step-not-found error when
// the name is unregistered
func (r *Registry) Lookup(name string) (Step, error) {
	s, ok := r.Get(name)
	if !ok {
		return nil, errors.NewStepNotFoundError(name)
	}
	return s, nil
}

// Names returns all registered step names in sorted order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.steps))
	for name := range r.steps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns a snapshot of the registered steps. Mutating the returned map
// does not affect the registry.
func (r *Registry) All() map[string]Step {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]Step, len(r.steps))
	for name, s := range r.steps {
		result[name] = s
	}
	return result
}

// Len returns the number of registered steps
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.steps)
}
