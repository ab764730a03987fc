package cache

import (
	"sort"
	"sync"
)

// Resource grants one role access to a method/path pattern under a screen code.
type Resource struct {
	Code   string
	Path   string
	Method string
	Role   string
}

// RbacCache stores the route grants registered by the router, keyed by role.
type RbacCache struct {
	mu        sync.RWMutex
	resources map[string][]Resource
}

func NewRbacCache() *RbacCache {
	return &RbacCache{resources: make(map[string][]Resource)}
}

func (c *RbacCache) Add(r Resource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resources[r.Role] = append(c.resources[r.Role], r)
}

// ResourcesFor returns every grant held by any of roles.
func (c *RbacCache) ResourcesFor(roles []string) []Resource {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Resource, 0)
	for _, role := range roles {
		out = append(out, c.resources[role]...)
	}
	return out
}

// CodesFor returns the sorted, de-duplicated screen codes granted to roles.
func (c *RbacCache) CodesFor(roles []string) []string {
	seen := make(map[string]struct{})
	for _, r := range c.ResourcesFor(roles) {
		seen[r.Code] = struct{}{}
	}
	codes := make([]string, 0, len(seen))
	for code := range seen {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
