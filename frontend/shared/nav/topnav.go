package nav

import (
	"context"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/a-h/templ"

	"userhub/infrastructure/rbac"
	"userhub/models"
)

// TopNavData is shared with page renderers.
type TopNavData struct {
	Title     string
	FullName  string
	Initials  string
	Roles     []string
	ShowAdmin bool
	// BackHref adds a back link, used by the admin console to return to the dashboard.
	BackHref string
}

func BuildTopNavData(title string, session models.Session, r *rbac.Rbac) TopNavData {
	user := session.CurrentUser()
	return TopNavData{
		Title:     title,
		FullName:  strings.TrimSpace(user.FirstName + " " + user.LastName),
		Initials:  Initials(user.FirstName, user.LastName),
		Roles:     user.Roles,
		ShowAdmin: r.Can(user.Roles, rbac.AdminConsoleView),
	}
}

// Initials returns the upper-cased first letter of each non-empty name.
func Initials(first, last string) string {
	var b strings.Builder
	for _, name := range []string{first, last} {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		r, _ := utf8.DecodeRuneInString(name)
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

func TopNav(d TopNavData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<header class="topnav"><h1>`)
		b.WriteString(templ.EscapeString(d.Title))
		b.WriteString(`</h1><nav>`)
		if d.FullName != "" {
			b.WriteString(`<span class="avatar" aria-hidden="true">`)
			b.WriteString(templ.EscapeString(d.Initials))
			b.WriteString(`</span><span class="welcome">Welcome, `)
			b.WriteString(templ.EscapeString(d.FullName))
			b.WriteString(`</span>`)
		}
		if d.BackHref != "" {
			b.WriteString(`<a class="btn btn-secondary" href="`)
			b.WriteString(templ.EscapeString(d.BackHref))
			b.WriteString(`">Dashboard</a>`)
		}
		if d.ShowAdmin {
			b.WriteString(`<a class="btn btn-danger" href="/admin">Admin Panel</a>`)
		}
		b.WriteString(`<form method="POST" action="/logout"><button type="submit" class="btn btn-secondary">Logout</button></form>`)
		b.WriteString(`</nav></header>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// RoleChips renders one chip per role name.
func RoleChips(roles []string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<ul class="chips">`)
		for _, role := range roles {
			class := "chip"
			if role == models.RoleAdmin {
				class = "chip chip-admin"
			}
			b.WriteString(`<li class="` + class + `">`)
			b.WriteString(templ.EscapeString(role))
			b.WriteString(`</li>`)
		}
		b.WriteString(`</ul>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}
