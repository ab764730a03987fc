package rbac

import (
	"strings"

	"userhub/infrastructure/cache"
)

// Screen codes checked by the router and by page chrome.
const (
	AdminConsoleView = "ADMIN_CONSOLE_VIEW"
	AdminUserDelete  = "ADMIN_USER_DELETE"
	AdminRoleCreate  = "ADMIN_ROLE_CREATE"
	AdminRoleEdit    = "ADMIN_ROLE_EDIT"
	AdminRoleDelete  = "ADMIN_ROLE_DELETE"
)

// Rbac registers route grants into the cache.
type Rbac struct {
	cache *cache.RbacCache
}

func New(c *cache.RbacCache) *Rbac {
	return &Rbac{cache: c}
}

func (r *Rbac) Add(role, code, method, path string) {
	if r == nil || r.cache == nil {
		return
	}
	r.cache.Add(cache.Resource{
		Role:   role,
		Code:   code,
		Method: strings.ToUpper(method),
		Path:   path,
	})
}

// Allowed reports whether any of roles may call method on urlPath.
func (r *Rbac) Allowed(roles []string, urlPath, method string) bool {
	if r == nil || r.cache == nil || len(roles) == 0 {
		return false
	}
	return ValidateResourceAccess(r.cache.ResourcesFor(roles), urlPath, method)
}

// Can reports whether any of roles holds code.
func (r *Rbac) Can(roles []string, code string) bool {
	if r == nil || r.cache == nil {
		return false
	}
	for _, c := range r.cache.CodesFor(roles) {
		if c == code {
			return true
		}
	}
	return false
}

func ValidateResourceAccess(resources []cache.Resource, urlPath, method string) bool {
	method = strings.ToUpper(method)
	for _, res := range resources {
		if res.Method != method {
			continue
		}
		if matchPath(res.Path, urlPath) {
			return true
		}
	}
	return false
}

// matchPath supports "*" as a single segment and a trailing "*" as any suffix.
func matchPath(pattern, path string) bool {
	if pattern == path {
		return true
	}

	patternSeg := strings.Split(strings.Trim(pattern, "/"), "/")
	pathSeg := strings.Split(strings.Trim(path, "/"), "/")

	if len(patternSeg) == len(pathSeg) {
		for i := range patternSeg {
			if patternSeg[i] != "*" && patternSeg[i] != pathSeg[i] {
				return false
			}
		}
		return true
	}

	last := len(patternSeg) - 1
	if patternSeg[last] == "*" && len(pathSeg) > last {
		for i := 0; i < last; i++ {
			if patternSeg[i] != pathSeg[i] {
				return false
			}
		}
		return true
	}
	return false
}
