package register

import (
	"github.com/a-h/templ"

	"userhub/frontend/shared/countries"
	"userhub/frontend/shared/html"
	"userhub/frontend/shared/viewmodel"
	"userhub/models"
)

func RegisterScreen(state viewmodel.Form, roles []models.Role, redirect bool) templ.Component {
	props := html.LayoutProps{Title: "Create Account", Body: registerBody(state, roles)}
	if redirect {
		props.RedirectTo = "/login"
		props.RedirectAfter = RedirectDelay
	}
	return html.Layout(props)
}

func registerBody(state viewmodel.Form, roles []models.Role) templ.Component {
	roleOptions := make([]html.Option, 0, len(roles))
	for _, role := range roles {
		roleOptions = append(roleOptions, html.Option{Value: role.Name, Label: role.Name})
	}
	return html.Fragment(
		templ.Raw(`<section class="card auth-card wide"><h2>Create Account</h2><p class="muted">Join us today and get started</p>`),
		html.Banner(state.Banner, 0),
		templ.Raw(`<form method="POST" action="/register" novalidate><div class="grid-2">`),
		html.Input(html.InputProps{Name: "firstName", Label: "First Name", Value: state.Value("firstName"), Error: state.Error("firstName"), Autocomplete: "given-name", Required: true}),
		html.Input(html.InputProps{Name: "lastName", Label: "Last Name", Value: state.Value("lastName"), Error: state.Error("lastName"), Autocomplete: "family-name", Required: true}),
		templ.Raw(`</div>`),
		html.Input(html.InputProps{Name: "email", Label: "Email Address", Type: "email", Value: state.Value("email"), Error: state.Error("email"), Autocomplete: "email", Required: true}),
		templ.Raw(`<div class="grid-2">`),
		html.Input(html.InputProps{Name: "password", Label: "Password", Type: "password", Error: state.Error("password"), Autocomplete: "new-password", Required: true}),
		html.Input(html.InputProps{Name: "confirmPassword", Label: "Confirm Password", Type: "password", Error: state.Error("confirmPassword"), Autocomplete: "new-password", Required: true}),
		templ.Raw(`</div><div class="grid-2">`),
		html.Input(html.InputProps{Name: "phoneNumber", Label: "Phone Number", Type: "tel", Value: state.Value("phoneNumber"), Error: state.Error("phoneNumber"), Placeholder: "+1234567890", Autocomplete: "tel"}),
		html.Select(html.SelectProps{Name: "country", Label: "Country", Value: state.Value("country"), Error: state.Error("country"), Options: countries.Options(), Prompt: "Select a country", Required: true}),
		templ.Raw(`</div>`),
		html.CheckboxGroup(html.CheckboxGroupProps{
			Name:     "roles",
			Label:    "Select Roles",
			Options:  roleOptions,
			Checked:  func(v string) bool { return state.Selected("roles", v) },
			Error:    state.Error("roles"),
			Required: true,
		}),
		html.Button(html.ButtonProps{Label: "Create Account", Busy: state.Busy(), Disabled: state.Phase == viewmodel.Succeeded, Class: "btn-block"}),
		templ.Raw(`</form><p class="muted">Already have an account? <a href="/login">Sign in here</a></p></section>`),
	)
}
