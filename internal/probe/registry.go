package probe

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/aryankumar/sep/internal/action"
	"github.com/aryankumar/sep/internal/util"
)

// Registry holds probes by name. It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	probes map[string]action.Action
}

// NewRegistry creates a registry holding probes. Later probes replace earlier
// ones with the same name.
func NewRegistry(probes ...action.Action) *Registry {
	r := &Registry{probes: make(map[string]action.Action)}
	for _, p := range probes {
		// registration errors only concern nil or unnamed probes
		_ = r.Register(p)
	}
	return r
}

// Register adds p, replacing any probe with the same name
func (r *Registry) Register(p action.Action) error {
	if p == nil || p.Name() == "" {
		return util.NewValidationError("probe", p, "probe must be non-nil and named")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.probes[p.Name()] = p
	return nil
}

// Get returns the probe called name or an error wrapping util.ErrProbeNotFound
func (r *Registry) Get(name string) (action.Action, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.probes[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, util.ErrProbeNotFound)
	}
	return p, nil
}

// Names returns the registered probe names in sorted order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.probes))
	for name := range r.probes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// All returns every probe ordered by name
func (r *Registry) All() []action.Action {
	r.mu.RLock()
	defer r.mu.RUnlock()

	probes := make([]action.Action, 0, len(r.probes))
	for _, p := range r.probes {
		probes = append(probes, p)
	}
	slices.SortFunc(probes, func(a, b action.Action) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return probes
}

// Len returns the number of registered probes
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.probes)
}
