package admin

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"userhub/frontend/shared/countries"
	"userhub/frontend/shared/html"
	"userhub/frontend/shared/nav"
	"userhub/models"
)

func AdminPage(s State) templ.Component {
	return html.Layout(html.LayoutProps{
		Title: "Admin Panel",
		Nav:   nav.TopNav(s.Nav),
		Body: html.Fragment(
			html.Banner(s.Banner, BannerDismiss),
			tabs(s),
			tabBody(s),
			roleModal(s),
			confirmDialog(s),
		),
	})
}

func tabs(s State) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<div class="tabs" role="tablist">`)
		tabLink(&b, TabUsers, fmt.Sprintf("Users (%d)", len(s.Users)), s.Tab == TabUsers)
		tabLink(&b, TabRoles, fmt.Sprintf("Roles (%d)", len(s.Roles)), s.Tab == TabRoles)
		b.WriteString(`</div>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func tabLink(b *strings.Builder, tab Tab, label string, active bool) {
	class := "tab"
	if active {
		class = "tab tab-active"
	}
	b.WriteString(`<a role="tab" class="` + class + `" href="/admin?tab=` + string(tab) + `"`)
	if active {
		b.WriteString(` aria-selected="true"`)
	}
	b.WriteString(`>`)
	b.WriteString(templ.EscapeString(label))
	b.WriteString(`</a>`)
}

func tabBody(s State) templ.Component {
	if s.Tab == TabRoles {
		return rolesPanel(s)
	}
	return usersPanel(s)
}

func confirmHref(tab Tab, kind Kind, id int64) string {
	q := url.Values{"tab": {string(tab)}, "confirm": {string(kind)}, "id": {strconv.FormatInt(id, 10)}}
	return "/admin?" + q.Encode()
}

func usersPanel(s State) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<section class="card"><h2>User Management</h2>`)
		if len(s.Users) == 0 {
			b.WriteString(`<p class="muted">No users found.</p></section>`)
			_, err := io.WriteString(w, b.String())
			return err
		}
		b.WriteString(`<table class="table"><thead><tr><th>Name</th><th>Email</th><th>Phone</th><th>Country</th><th>Roles</th>`)
		if s.CanDeleteUsers {
			b.WriteString(`<th>Actions</th>`)
		}
		b.WriteString(`</tr></thead><tbody>`)
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
		for _, u := range s.Users {
			if err := userRow(s, u).Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</tbody></table></section>`)
		return err
	})
}

func userRow(s State, u models.User) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<tr data-user-id="` + strconv.FormatInt(u.UserID, 10) + `"><td>`)
		b.WriteString(templ.EscapeString(u.FullName()))
		b.WriteString(`</td><td>`)
		b.WriteString(templ.EscapeString(u.Email))
		b.WriteString(`</td><td>`)
		phone := u.PhoneNumber
		if phone == "" {
			phone = "-"
		}
		b.WriteString(templ.EscapeString(phone))
		b.WriteString(`</td><td>`)
		b.WriteString(templ.EscapeString(countries.Name(u.Country)))
		b.WriteString(`</td><td>`)
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
		if err := nav.RoleChips(u.Roles).Render(ctx, w); err != nil {
			return err
		}
		b.Reset()
		b.WriteString(`</td>`)
		if s.CanDeleteUsers {
			b.WriteString(`<td>`)
			switch {
			case s.DeletingUsers[u.UserID]:
				b.WriteString(`<button type="button" class="btn btn-danger" disabled aria-busy="true"><span class="spinner" aria-hidden="true"></span>Deleting...</button>`)
			case u.Protected():
				b.WriteString(`<button type="button" class="btn btn-danger" disabled title="`)
				b.WriteString(templ.EscapeString(protectedUserMessage))
				b.WriteString(`">Delete</button>`)
			default:
				b.WriteString(`<a class="btn btn-danger" href="`)
				b.WriteString(templ.EscapeString(confirmHref(TabUsers, KindDeleteUser, u.UserID)))
				b.WriteString(`">Delete</a>`)
			}
			b.WriteString(`</td>`)
		}
		b.WriteString(`</tr>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func rolesPanel(s State) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<section class="card"><div class="card-header"><h2>Role Management</h2>`)
		if s.CanManageRoles {
			b.WriteString(`<a class="btn btn-primary" href="/admin?tab=roles&amp;create=1">Create Role</a>`)
		}
		b.WriteString(`</div>`)
		if len(s.Roles) == 0 {
			b.WriteString(`<p class="muted">No roles found.</p></section>`)
			_, err := io.WriteString(w, b.String())
			return err
		}
		b.WriteString(`<ul class="role-list">`)
		for _, r := range s.Roles {
			roleItem(&b, s, r)
		}
		b.WriteString(`</ul></section>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func roleItem(b *strings.Builder, s State, r models.Role) {
	b.WriteString(`<li class="role" data-role-id="` + strconv.FormatInt(r.RoleID, 10) + `"><div><h3>`)
	b.WriteString(templ.EscapeString(r.Name))
	if r.System() {
		b.WriteString(` <span class="chip">System</span>`)
	}
	b.WriteString(`</h3>`)
	if r.Description != "" {
		b.WriteString(`<p>`)
		b.WriteString(templ.EscapeString(r.Description))
		b.WriteString(`</p>`)
	}
	if r.UserCount != nil {
		b.WriteString(`<p class="muted">`)
		b.WriteString(strconv.FormatInt(*r.UserCount, 10))
		b.WriteString(` users</p>`)
	}
	b.WriteString(`</div>`)
	if s.CanManageRoles && !r.System() {
		b.WriteString(`<div class="actions"><a class="btn btn-secondary" href="/admin?tab=roles&amp;edit=`)
		b.WriteString(strconv.FormatInt(r.RoleID, 10))
		b.WriteString(`">Edit</a>`)
		if s.RoleDeleteDisabled(r) {
			b.WriteString(`<button type="button" class="btn btn-danger" disabled aria-busy="true"><span class="spinner" aria-hidden="true"></span>Deleting...</button>`)
		} else {
			b.WriteString(`<a class="btn btn-danger" href="`)
			b.WriteString(templ.EscapeString(confirmHref(TabRoles, KindDeleteRole, r.RoleID)))
			b.WriteString(`">Delete</a>`)
		}
		b.WriteString(`</div>`)
	}
	b.WriteString(`</li>`)
}

func roleModal(s State) templ.Component {
	if s.RoleMode == RoleFormClosed {
		return nil
	}
	f := s.RoleForm
	title, action, label := "Create New Role", "/admin/roles", "Create Role"
	if s.RoleMode == RoleFormEdit {
		title = "Edit Role"
		action = fmt.Sprintf("/admin/roles/%d", s.EditingRole.RoleID)
		label = "Update Role"
	}
	return html.Fragment(
		templ.Raw(`<div class="modal-backdrop"><div class="modal" role="dialog" aria-modal="true" aria-labelledby="role-title"><h3 id="role-title">`+templ.EscapeString(title)+`</h3>`),
		html.Banner(f.Banner, BannerDismiss),
		templ.Raw(`<form method="POST" action="`+templ.EscapeString(action)+`" novalidate>`),
		html.Input(html.InputProps{Name: "name", Label: "Role Name", Value: f.Value("name"), Error: f.Error("name"), Required: true}),
		html.Input(html.InputProps{Name: "description", Label: "Description", Value: f.Value("description"), Error: f.Error("description")}),
		templ.Raw(`<div class="modal-action"><a class="btn btn-secondary" href="/admin?tab=roles">Cancel</a>`),
		html.Button(html.ButtonProps{Label: label, Busy: f.Busy()}),
		templ.Raw(`</div></form></div></div>`),
	)
}

func confirmDialog(s State) templ.Component {
	if s.Confirm == nil {
		return nil
	}
	c := s.Confirm
	closeTab := TabUsers
	if c.Kind == KindDeleteRole {
		closeTab = TabRoles
	}
	return html.ConfirmDialog(html.ConfirmDialogProps{
		Open:          true,
		Title:         c.Title,
		Message:       c.Message,
		ConfirmLabel:  c.ConfirmLabel,
		Busy:          s.ConfirmBusy(),
		ConfirmAction: c.Action(),
		CloseHref:     "/admin?tab=" + string(closeTab),
	})
}
