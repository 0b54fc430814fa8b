package provider

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownProvider is returned when a name does not resolve to a
// registered provider.
var ErrUnknownProvider = errors.New("unknown provider")

// Registry maps provider names to their implementations. Adding a provider
// means registering an adapter here, not editing a central conditional.
// A provider may have at most one configured fallback, tried once when
// submission against the preferred provider fails.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
	fallbacks map[string]string
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Provider),
		fallbacks: make(map[string]string),
	}
}

// Register adds a provider under its own name, replacing any previous
// registration.
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.Name()] = p
}

// SetFallback configures a one-hop fallback for the named provider.
// Both names must already be registered.
func (r *Registry) SetFallback(name, fallback string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.providers[name]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}
	if _, ok := r.providers[fallback]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownProvider, fallback)
	}
	r.fallbacks[name] = fallback
	return nil
}

// Resolve returns the provider registered under name.
func (r *Registry) Resolve(name string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}
	return p, nil
}

// Fallback returns the configured fallback for name, or nil if none is set.
func (r *Registry) Fallback(name string) Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fb, ok := r.fallbacks[name]
	if !ok {
		return nil
	}
	return r.providers[fb]
}

// Names returns the registered provider names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Health returns the availability of every registered provider, keyed by
// name. Used by the health endpoint to report credential presence.
func (r *Registry) Health() map[string]bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]bool, len(r.providers))
	for name, p := range r.providers {
		out[name] = p.Available()
	}
	return out
}
