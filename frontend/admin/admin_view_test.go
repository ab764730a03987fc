package admin

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"userhub/models"
)

func renderAdmin(t *testing.T, s State) string {
	t.Helper()
	var buf bytes.Buffer
	if err := AdminPage(s).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}

// rowHTML returns the markup from the element carrying marker up to end.
func rowHTML(t *testing.T, body, marker, end string) string {
	t.Helper()
	i := strings.Index(body, marker)
	if i < 0 {
		t.Fatalf("missing %s in page", marker)
	}
	rest := body[i:]
	if j := strings.Index(rest, end); j >= 0 {
		return rest[:j]
	}
	return rest
}

func TestRolesTabHidesControlsForSystemRoles(t *testing.T) {
	s := State{
		Tab:            TabRoles,
		CanManageRoles: true,
		Roles: []models.Role{
			{RoleID: 1, Name: models.RoleAdmin},
			{RoleID: 9, Name: "Custom"},
			{RoleID: 10, Name: "Other"},
		},
		DeletingRoles: map[int64]bool{10: true},
	}
	body := renderAdmin(t, s)

	admin := rowHTML(t, body, `data-role-id="1"`, `</li>`)
	if !strings.Contains(admin, "System") {
		t.Fatalf("expected system chip on Admin role: %s", admin)
	}
	if strings.Contains(body, "edit=1\"") || strings.Contains(body, "confirm=delete-role&amp;id=1&amp;") {
		t.Fatalf("system role must not get edit or delete controls")
	}

	custom := rowHTML(t, body, `data-role-id="9"`, `</li>`)
	if !strings.Contains(custom, "edit=9\"") || !strings.Contains(custom, "confirm=delete-role&amp;id=9&amp;") {
		t.Fatalf("expected edit and delete links for custom role: %s", custom)
	}

	other := rowHTML(t, body, `data-role-id="10"`, `</li>`)
	if !strings.Contains(other, `disabled aria-busy="true"`) || !strings.Contains(other, "Deleting...") {
		t.Fatalf("expected busy delete control for in-flight role: %s", other)
	}
	if strings.Contains(other, "confirm=delete-role") {
		t.Fatalf("in-flight role must not offer a second delete")
	}
}

func TestUsersTabShowsBusyRowForInFlightDelete(t *testing.T) {
	s := State{
		Tab:            TabUsers,
		CanDeleteUsers: true,
		Users: []models.User{
			{UserID: 1, FirstName: "Ada", LastName: "Admin", Roles: []string{models.RoleAdmin}},
			{UserID: 2, FirstName: "John", LastName: "Doe", Roles: []string{"General User"}},
			{UserID: 3, FirstName: "Jane", LastName: "Roe", Roles: []string{"Professional"}},
		},
		DeletingUsers: map[int64]bool{3: true},
	}
	body := renderAdmin(t, s)

	protected := rowHTML(t, body, `data-user-id="1"`, `</tr>`)
	if !strings.Contains(protected, "disabled title=") || strings.Contains(protected, "confirm=delete-user") {
		t.Fatalf("admin user row must be disabled: %s", protected)
	}

	idle := rowHTML(t, body, `data-user-id="2"`, `</tr>`)
	if !strings.Contains(idle, "confirm=delete-user&amp;id=2&amp;") {
		t.Fatalf("expected delete link for idle user: %s", idle)
	}

	busy := rowHTML(t, body, `data-user-id="3"`, `</tr>`)
	if !strings.Contains(busy, `disabled aria-busy="true"`) || !strings.Contains(busy, "Deleting...") {
		t.Fatalf("expected busy control for in-flight user: %s", busy)
	}
	if strings.Contains(busy, "confirm=delete-user") {
		t.Fatalf("in-flight user must not offer a second delete")
	}
}

func TestNoControlsWithoutPermission(t *testing.T) {
	s := State{
		Tab:   TabRoles,
		Roles: []models.Role{{RoleID: 9, Name: "Custom"}},
	}
	body := renderAdmin(t, s)
	if strings.Contains(body, "edit=9") || strings.Contains(body, "Create Role") {
		t.Fatalf("role controls require permission")
	}
}
