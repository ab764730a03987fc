package dashboard

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"userhub/frontend/shared/countries"
	"userhub/frontend/shared/html"
	"userhub/frontend/shared/nav"
	"userhub/infrastructure/audit"
	"userhub/models"
)

func DashboardPage(d PageData) templ.Component {
	return html.Layout(html.LayoutProps{
		Title: "Dashboard",
		Nav:   nav.TopNav(d.Nav),
		Body: html.Fragment(
			html.Banner(d.Banner, BannerDismiss),
			html.Banner(d.Profile.Banner, BannerDismiss),
			profileCard(d),
			activityCard(d.Activity),
			passwordDialog(d),
		),
	})
}

func profileCard(d PageData) templ.Component {
	if d.Profile.Editing() {
		return profileEditor(d)
	}
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<section class="card"><div class="card-header"><h2>Profile Information</h2>`)
		if d.HasUser {
			b.WriteString(`<div class="actions"><a class="btn btn-secondary" href="/dashboard?password=1">Change Password</a><a class="btn btn-primary" href="/dashboard?edit=1">Edit Profile</a></div>`)
		}
		b.WriteString(`</div>`)
		if !d.HasUser {
			b.WriteString(`<p class="muted">Profile unavailable.</p></section>`)
			_, err := io.WriteString(w, b.String())
			return err
		}
		u := d.User
		b.WriteString(`<dl class="details">`)
		detail(&b, "First Name", u.FirstName)
		detail(&b, "Last Name", u.LastName)
		detail(&b, "Email", u.Email)
		phone := u.PhoneNumber
		if phone == "" {
			phone = "Not provided"
		}
		detail(&b, "Phone Number", phone)
		detail(&b, "Country", countries.Name(u.Country))
		if u.CreatedAt != "" {
			detail(&b, "Member Since", memberSince(u.CreatedAt))
		}
		b.WriteString(`<dt>Roles</dt><dd>`)
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
		if err := nav.RoleChips(u.Roles).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</dd></dl></section>`)
		return err
	})
}

func detail(b *strings.Builder, label, value string) {
	b.WriteString(`<dt>`)
	b.WriteString(templ.EscapeString(label))
	b.WriteString(`</dt><dd>`)
	b.WriteString(templ.EscapeString(value))
	b.WriteString(`</dd>`)
}

// memberSince keeps the date part of the backend timestamp.
func memberSince(createdAt string) string {
	if i := strings.IndexByte(createdAt, 'T'); i > 0 {
		return createdAt[:i]
	}
	return createdAt
}

func profileEditor(d PageData) templ.Component {
	s := d.Profile
	roleOptions := make([]html.Option, 0, len(d.Roles))
	for _, role := range d.Roles {
		roleOptions = append(roleOptions, html.Option{Value: role.Name, Label: role.Name})
	}
	return html.Fragment(
		templ.Raw(`<section class="card"><div class="card-header"><h2>Edit Profile</h2></div><form method="POST" action="/dashboard/profile" novalidate><div class="grid-2">`),
		html.Input(html.InputProps{Name: "firstName", Label: "First Name", Value: s.Value("firstName"), Error: s.Error("firstName"), Required: true}),
		html.Input(html.InputProps{Name: "lastName", Label: "Last Name", Value: s.Value("lastName"), Error: s.Error("lastName"), Required: true}),
		html.Input(html.InputProps{Name: "email", Label: "Email Address", Type: "email", Value: s.Value("email"), Error: s.Error("email"), Required: true}),
		html.Input(html.InputProps{Name: "phoneNumber", Label: "Phone Number", Type: "tel", Value: s.Value("phoneNumber"), Error: s.Error("phoneNumber"), Placeholder: "+1234567890"}),
		templ.Raw(`</div>`),
		html.Select(html.SelectProps{Name: "country", Label: "Country", Value: s.Value("country"), Error: s.Error("country"), Options: countries.Options(), Prompt: "Select a country", Required: true}),
		html.CheckboxGroup(html.CheckboxGroupProps{
			Name:     "roles",
			Label:    "Roles",
			Options:  roleOptions,
			Checked:  func(v string) bool { return s.Selected("roles", v) },
			Error:    s.Error("roles"),
			Required: true,
		}),
		templ.Raw(`<div class="actions"><a class="btn btn-secondary" href="/dashboard">Cancel</a>`),
		html.Button(html.ButtonProps{Label: "Save Changes", Busy: s.Busy()}),
		templ.Raw(`</div></form></section>`),
	)
}

func passwordDialog(d PageData) templ.Component {
	if !d.PasswordOpen {
		return nil
	}
	s := d.Password
	return html.Fragment(
		templ.Raw(`<div class="modal-backdrop"><div class="modal" role="dialog" aria-modal="true" aria-labelledby="password-title"><h3 id="password-title">Change Password</h3>`),
		html.Banner(s.Banner, BannerDismiss),
		templ.Raw(`<form method="POST" action="/dashboard/password" novalidate>`),
		html.Input(html.InputProps{Name: "currentPassword", Label: "Current Password", Type: "password", Error: s.Error("currentPassword"), Autocomplete: "current-password", Required: true}),
		html.Input(html.InputProps{Name: "newPassword", Label: "New Password", Type: "password", Error: s.Error("newPassword"), Autocomplete: "new-password", Required: true}),
		html.Input(html.InputProps{Name: "confirmNewPassword", Label: "Confirm New Password", Type: "password", Error: s.Error("confirmNewPassword"), Autocomplete: "new-password", Required: true}),
		templ.Raw(`<div class="modal-action"><a class="btn btn-secondary" href="/dashboard">Cancel</a>`),
		html.Button(html.ButtonProps{Label: "Change Password", Busy: s.Busy()}),
		templ.Raw(`</div></form></div></div>`),
	)
}

var activityLabels = map[string]string{
	audit.ActionLogin:          "Signed in",
	audit.ActionLogout:         "Signed out",
	audit.ActionSessionExpired: "Session expired",
	audit.ActionProfileUpdate:  "Updated profile",
	audit.ActionPasswordChange: "Changed password",
	audit.ActionUserDelete:     "Deleted a user",
	audit.ActionRoleCreate:     "Created a role",
	audit.ActionRoleUpdate:     "Updated a role",
	audit.ActionRoleDelete:     "Deleted a role",
}

func activityCard(logs []models.AuditLog) templ.Component {
	if len(logs) == 0 {
		return nil
	}
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<section class="card"><h2>Recent Activity</h2><ul class="activity">`)
		for _, l := range logs {
			label, ok := activityLabels[l.Action]
			if !ok {
				label = l.Action
			}
			b.WriteString(`<li><span>`)
			b.WriteString(templ.EscapeString(label))
			b.WriteString(`</span><time>`)
			b.WriteString(templ.EscapeString(l.CreatedAt.Format("2006-01-02 15:04")))
			b.WriteString(`</time></li>`)
		}
		b.WriteString(`</ul></section>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}
