package registry

import (
	"fmt"
	"sync"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
)

// Registry maps (service, action) pairs to capabilities. It is populated
// once at startup and shared read-only across runs; the lock only guards
// against misuse, registration after startup is not expected.
type Registry struct {
	mu   sync.RWMutex
	caps map[key]ports.Capability
}

type key struct {
	service string
	action  string
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		caps: make(map[key]ports.Capability),
	}
}

// Register adds a capability under service/action.
// If one already exists under the same pair, it is overwritten.
func (r *Registry) Register(service, action string, c ports.Capability) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.caps[key{service, action}] = c
}

// RegisterFunc adds a plain function as a capability.
func (r *Registry) RegisterFunc(service, action string, fn ports.CapabilityFunc) {
	r.Register(service, action, fn)
}

// Resolve looks up the capability for service/action. The returned error
// wraps domain.ErrUnknownCapability when no capability is registered.
func (r *Registry) Resolve(service, action string) (ports.Capability, error) {
	r.mu.RLock()
	c, ok := r.caps[key{service, action}]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", domain.ErrUnknownCapability, service, action)
	}
	return c, nil
}

// Services returns the registered service/action pairs, for introspection.
func (r *Registry) Services() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.caps))
	for k := range r.caps {
		out = append(out, k.service+"/"+k.action)
	}
	return out
}
