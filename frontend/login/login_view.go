package login

import (
	"github.com/a-h/templ"

	"userhub/frontend/shared/html"
	"userhub/frontend/shared/viewmodel"
)

// LoginScreen renders the sign-in form. redirect adds the timed move to /dashboard after a successful login.
func LoginScreen(state viewmodel.Form, redirect bool) templ.Component {
	props := html.LayoutProps{Title: "Sign In", Body: loginBody(state)}
	if redirect {
		props.RedirectTo = "/dashboard"
		props.RedirectAfter = RedirectDelay
	}
	return html.Layout(props)
}

func loginBody(state viewmodel.Form) templ.Component {
	return html.Fragment(
		templ.Raw(`<section class="card auth-card"><h2>Welcome Back</h2><p class="muted">Sign in to your account</p>`),
		html.Banner(state.Banner, 0),
		templ.Raw(`<form method="POST" action="/login" novalidate>`),
		html.Input(html.InputProps{Name: "email", Label: "Email Address", Type: "email", Value: state.Value("email"), Error: state.Error("email"), Placeholder: "Enter your email", Autocomplete: "email", Required: true}),
		html.Input(html.InputProps{Name: "password", Label: "Password", Type: "password", Error: state.Error("password"), Placeholder: "Enter your password", Autocomplete: "current-password", Required: true}),
		html.Button(html.ButtonProps{Label: "Sign In", Busy: state.Busy(), Disabled: state.Phase == viewmodel.Succeeded, Class: "btn-block"}),
		templ.Raw(`</form><p class="muted">Don't have an account? <a href="/register">Sign up here</a></p></section>`),
	)
}
