package home

import (
	"github.com/a-h/templ"

	"userhub/frontend/shared/html"
)

const landingBody = `<section class="hero"><h2>Welcome to User Hub</h2>` +
	`<p>Register an account, manage your profile and, for administrators, manage users and roles.</p>` +
	`<div class="actions"><a class="btn btn-primary" href="/login">Sign In</a>` +
	`<a class="btn btn-secondary" href="/register">Create Account</a></div></section>`

func HomePage() templ.Component {
	return html.Layout(html.LayoutProps{
		Title: "Welcome",
		Body:  templ.Raw(landingBody),
	})
}
