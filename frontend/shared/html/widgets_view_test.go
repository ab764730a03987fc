package html

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var b strings.Builder
	if err := c.Render(context.Background(), &b); err != nil {
		t.Fatalf("render: %v", err)
	}
	return b.String()
}

func TestButtonBusyIsDisabled(t *testing.T) {
	out := render(t, Button(ButtonProps{Label: "Save", Busy: true}))
	if !strings.Contains(out, " disabled") || !strings.Contains(out, `aria-busy="true"`) {
		t.Fatalf("expected busy disabled button, got %s", out)
	}

	out = render(t, Button(ButtonProps{Label: "Delete", Variant: ButtonDanger, Disabled: true}))
	if !strings.Contains(out, " disabled") || strings.Contains(out, "aria-busy") {
		t.Fatalf("expected plain disabled button, got %s", out)
	}

	out = render(t, Button(ButtonProps{Label: "Go"}))
	if strings.Contains(out, "disabled") {
		t.Fatalf("expected enabled button, got %s", out)
	}
}

func TestInputShowsInlineError(t *testing.T) {
	out := render(t, Input(InputProps{Name: "email", Label: "Email", Value: `a"b`, Error: "Email is required"}))
	if !strings.Contains(out, `<p class="field-error" role="alert">Email is required</p>`) {
		t.Fatalf("expected inline error, got %s", out)
	}
	if !strings.Contains(out, `value="a&#34;b"`) {
		t.Fatalf("expected escaped value, got %s", out)
	}

	out = render(t, Input(InputProps{Name: "password", Type: "password", Value: "secret"}))
	if strings.Contains(out, "secret") {
		t.Fatalf("password values must not be echoed: %s", out)
	}
}

func TestAlertDismissAfter(t *testing.T) {
	if out := render(t, Alert(AlertError, "", time.Second)); out != "" {
		t.Fatalf("expected empty alert to render nothing, got %q", out)
	}
	out := render(t, Alert(AlertSuccess, "Role created successfully", 2*time.Second))
	if !strings.Contains(out, `data-dismiss-after="2000"`) || !strings.Contains(out, "alert-success") {
		t.Fatalf("unexpected alert %s", out)
	}
}

func TestConfirmDialog(t *testing.T) {
	if out := render(t, ConfirmDialog(ConfirmDialogProps{Title: "Delete User"})); out != "" {
		t.Fatalf("expected closed dialog to render nothing, got %q", out)
	}

	out := render(t, ConfirmDialog(ConfirmDialogProps{
		Open:          true,
		Title:         "Delete User",
		Message:       `Are you sure you want to delete "<b>"?`,
		ConfirmLabel:  "Delete User",
		Busy:          true,
		ConfirmAction: "/admin/users/4/delete",
		CloseHref:     "/admin?tab=users",
	}))
	for _, want := range []string{
		`action="/admin/users/4/delete"`,
		`href="/admin?tab=users"`,
		"&lt;b&gt;",
		" disabled",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %s", want, out)
		}
	}
}

func TestSelectAndCheckboxes(t *testing.T) {
	out := render(t, Select(SelectProps{Name: "country", Label: "Country", Value: "FR", Prompt: "Select a country", Options: []Option{{Value: "DE", Label: "Germany"}, {Value: "FR", Label: "France"}}}))
	if !strings.Contains(out, `<option value="FR" selected>France</option>`) {
		t.Fatalf("expected selected option, got %s", out)
	}

	out = render(t, CheckboxGroup(CheckboxGroupProps{
		Name:    "roles",
		Label:   "Roles",
		Options: []Option{{Value: "Admin", Label: "Admin"}, {Value: "Professional", Label: "Professional"}},
		Checked: func(v string) bool { return v == "Professional" },
		Error:   "Please select at least one role",
	}))
	if !strings.Contains(out, `value="Professional" checked`) || strings.Contains(out, `value="Admin" checked`) {
		t.Fatalf("unexpected checkbox state %s", out)
	}
}

func TestLayoutRedirect(t *testing.T) {
	out := render(t, Layout(LayoutProps{Title: "Login", Body: templ.Raw("<p>hi</p>"), RedirectTo: "/dashboard", RedirectAfter: 2 * time.Second}))
	if !strings.Contains(out, `content="2;url=/dashboard"`) {
		t.Fatalf("expected refresh meta, got %s", out)
	}
	if !strings.Contains(out, "X-CSRF-Token") || !strings.Contains(out, "<p>hi</p>") {
		t.Fatalf("expected body and page script, got %s", out)
	}
}
