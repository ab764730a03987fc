package rbac

import (
	"net/http"
	"testing"

	"userhub/infrastructure/cache"
	"userhub/models"
)

func TestMatchPathWildcardSegments(t *testing.T) {
	cases := []struct {
		pattern string
		path    string
		ok      bool
	}{
		{pattern: "/admin/users/*/delete", path: "/admin/users/12/delete", ok: true},
		{pattern: "/admin/roles/*", path: "/admin/roles/3", ok: true},
		{pattern: "/admin/*", path: "/admin/roles/3/delete", ok: true},
		{pattern: "/admin", path: "/admin", ok: true},
		{pattern: "/admin", path: "/admin/users", ok: false},
		{pattern: "/admin/users/*/delete", path: "/admin/roles/12/delete", ok: false},
		{pattern: "/admin/*", path: "/dashboard", ok: false},
	}

	for _, tc := range cases {
		if got := matchPath(tc.pattern, tc.path); got != tc.ok {
			t.Fatalf("pattern=%s path=%s expected=%v got=%v", tc.pattern, tc.path, tc.ok, got)
		}
	}
}

func TestAllowedAndCan(t *testing.T) {
	r := New(cache.NewRbacCache())
	r.Add(models.RoleAdmin, AdminConsoleView, http.MethodGet, "/admin")
	r.Add(models.RoleAdmin, AdminUserDelete, http.MethodPost, "/admin/users/*/delete")

	if !r.Allowed([]string{"General User", models.RoleAdmin}, "/admin/users/5/delete", http.MethodPost) {
		t.Fatalf("expected admin to be allowed")
	}
	if r.Allowed([]string{"General User"}, "/admin", http.MethodGet) {
		t.Fatalf("expected general user to be denied")
	}
	if r.Allowed(nil, "/admin", http.MethodGet) {
		t.Fatalf("expected empty role list to be denied")
	}
	if r.Allowed([]string{models.RoleAdmin}, "/admin", http.MethodPost) {
		t.Fatalf("expected method mismatch to be denied")
	}
	if !r.Can([]string{models.RoleAdmin}, AdminConsoleView) {
		t.Fatalf("expected admin to hold %s", AdminConsoleView)
	}
	if r.Can([]string{"Professional"}, AdminConsoleView) {
		t.Fatalf("expected professional not to hold %s", AdminConsoleView)
	}
}
