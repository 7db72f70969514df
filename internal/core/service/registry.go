package service

import (
	"fmt"
	"sort"

	"github.com/valentinmaxime/docker-seedbox/internal/core/domain"
)

// Registry is the static mapping from dashboard service keys to container
// names, plus the whitelist of containers the API may expose or control.
// Read-only after construction; safe for concurrent use without locking.
type Registry struct {
	services map[string]string
	allowed  map[string]struct{}
	keys     []string
}

// NewRegistry copies both tables so later mutation of the inputs cannot
// leak into request handling.
func NewRegistry(services map[string]string, whitelist []string) *Registry {
	r := &Registry{
		services: make(map[string]string, len(services)),
		allowed:  make(map[string]struct{}, len(whitelist)),
		keys:     make([]string, 0, len(services)),
	}
	for key, name := range services {
		r.services[key] = name
		r.keys = append(r.keys, key)
	}
	sort.Strings(r.keys)
	for _, name := range whitelist {
		r.allowed[name] = struct{}{}
	}
	return r
}

// Resolve returns the container name behind a service key.
func (r *Registry) Resolve(key string) (string, bool) {
	name, ok := r.services[key]
	return name, ok
}

// Allowed reports whether a container name is whitelisted.
func (r *Registry) Allowed(name string) bool {
	_, ok := r.allowed[name]
	return ok
}

// Keys returns all service keys in sorted order, for deterministic
// aggregation output.
func (r *Registry) Keys() []string {
	return r.keys
}

// Authorize resolves a key and checks the whitelist, returning the
// container name or the classified failure. Checked on every request, never
// cached as a decision.
func (r *Registry) Authorize(key string) (string, *domain.ActionError) {
	name, ok := r.Resolve(key)
	if !ok {
		return "", &domain.ActionError{
			Category: domain.UnknownService,
			Message:  fmt.Sprintf("Unknown service key: %s", key),
		}
	}
	if !r.Allowed(name) {
		return "", &domain.ActionError{
			Category: domain.Forbidden,
			Message:  fmt.Sprintf("Container '%s' is not allowed.", name),
		}
	}
	return name, nil
}
