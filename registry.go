package cors

import (
	"maps"
	"slices"
	"sync/atomic"
)

// A PolicyProvider resolves policy names to policies.
// Resolve returns nil when no policy is registered under the given name,
// in which case the caller performs no evaluation and leaves the response
// untouched.
//
// Implementations must be safe for concurrent use by multiple goroutines.
type PolicyProvider interface {
	Resolve(name string) *Policy
}

// A Registry is a named-policy store implementing [PolicyProvider].
//
// The zero value is an empty registry ready for use.
// A Registry must not be copied after first use.
//
// Registries are safe for concurrent use by multiple goroutines, and may be
// repopulated (e.g. upon a configuration reload) even as they're
// concurrently resolving policies for in-flight requests: each mutation
// publishes a fresh immutable snapshot of the name-to-policy mapping.
type Registry struct {
	policies atomic.Pointer[map[string]*Policy]
}

// Resolve returns the policy registered under name,
// or nil if there is none.
func (reg *Registry) Resolve(name string) *Policy {
	m := reg.policies.Load()
	if m == nil {
		return nil
	}
	return (*m)[name]
}

// Register registers p under name, replacing any policy previously
// registered under that name. Registering a nil policy removes name from
// the registry.
func (reg *Registry) Register(name string, p *Policy) {
	for {
		old := reg.policies.Load()
		var m map[string]*Policy
		if old == nil {
			m = make(map[string]*Policy, 1)
		} else {
			m = maps.Clone(*old)
		}
		if p == nil {
			delete(m, name)
		} else {
			m[name] = p
		}
		if reg.policies.CompareAndSwap(old, &m) {
			return
		}
	}
}

// SetAll atomically replaces the registry's entire contents with policies.
// Nil-valued entries are dropped. Mutating policies after SetAll has
// returned does not alter the registry.
func (reg *Registry) SetAll(policies map[string]*Policy) {
	m := make(map[string]*Policy, len(policies))
	for name, p := range policies {
		if p != nil {
			m[name] = p
		}
	}
	reg.policies.Store(&m)
}

// Names returns the names of all registered policies,
// sorted in lexicographical order.
func (reg *Registry) Names() []string {
	m := reg.policies.Load()
	if m == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(*m))
}
