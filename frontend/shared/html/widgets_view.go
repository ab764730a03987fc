package html

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/a-h/templ"

	"userhub/frontend/shared/viewmodel"
)

type ButtonVariant string

const (
	ButtonPrimary   ButtonVariant = "primary"
	ButtonSecondary ButtonVariant = "secondary"
	ButtonDanger    ButtonVariant = "danger"
)

type ButtonProps struct {
	Label    string
	Type     string
	Variant  ButtonVariant
	Name     string
	Value    string
	Busy     bool
	Disabled bool
	Class    string
}

// Button renders a spinner while busy and is disabled when busy or explicitly disabled.
func Button(p ButtonProps) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		if p.Type == "" {
			p.Type = "submit"
		}
		if p.Variant == "" {
			p.Variant = ButtonPrimary
		}
		w.raw("<button")
		w.attr("type", p.Type)
		w.attr("class", strings.TrimSpace("btn btn-"+string(p.Variant)+" "+p.Class))
		if p.Name != "" {
			w.attr("name", p.Name)
			w.attr("value", p.Value)
		}
		if p.Type == "submit" {
			w.raw(" data-busy-on-submit")
		}
		w.flag("disabled", p.Busy || p.Disabled)
		if p.Busy {
			w.raw(` aria-busy="true"><span class="spinner" aria-hidden="true"></span>`)
		} else {
			w.raw(">")
		}
		w.text(p.Label)
		w.raw("</button>")
		return w.err
	})
}

type InputProps struct {
	Name         string
	Label        string
	Type         string
	Value        string
	Error        string
	Placeholder  string
	Autocomplete string
	Required     bool
}

// Input renders a labelled input with its inline error.
func Input(p InputProps) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		if p.Type == "" {
			p.Type = "text"
		}
		id := "field-" + p.Name
		w.raw(`<div class="field">`)
		if p.Label != "" {
			w.raw("<label")
			w.attr("for", id)
			w.raw(">")
			w.text(p.Label)
			if p.Required {
				w.raw(` <span class="required">*</span>`)
			}
			w.raw("</label>")
		}
		w.raw("<input")
		w.attr("id", id)
		w.attr("name", p.Name)
		w.attr("type", p.Type)
		if p.Type != "password" {
			w.attr("value", p.Value)
		}
		if p.Placeholder != "" {
			w.attr("placeholder", p.Placeholder)
		}
		if p.Autocomplete != "" {
			w.attr("autocomplete", p.Autocomplete)
		}
		if p.Error != "" {
			w.raw(` class="input input-error" aria-invalid="true"`)
		} else {
			w.raw(` class="input"`)
		}
		w.raw(">")
		fieldError(w, p.Error)
		w.raw("</div>")
		return w.err
	})
}

type Option struct {
	Value string
	Label string
}

type SelectProps struct {
	Name     string
	Label    string
	Value    string
	Error    string
	Options  []Option
	Prompt   string
	Required bool
}

func Select(p SelectProps) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		id := "field-" + p.Name
		w.raw(`<div class="field"><label`)
		w.attr("for", id)
		w.raw(">")
		w.text(p.Label)
		if p.Required {
			w.raw(` <span class="required">*</span>`)
		}
		w.raw("</label><select")
		w.attr("id", id)
		w.attr("name", p.Name)
		if p.Error != "" {
			w.raw(` class="input input-error" aria-invalid="true">`)
		} else {
			w.raw(` class="input">`)
		}
		if p.Prompt != "" {
			w.raw(`<option value="">`)
			w.text(p.Prompt)
			w.raw("</option>")
		}
		for _, o := range p.Options {
			w.raw("<option")
			w.attr("value", o.Value)
			w.flag("selected", o.Value == p.Value)
			w.raw(">")
			w.text(o.Label)
			w.raw("</option>")
		}
		w.raw("</select>")
		fieldError(w, p.Error)
		w.raw("</div>")
		return w.err
	})
}

type CheckboxGroupProps struct {
	Name     string
	Label    string
	Options  []Option
	Checked  func(value string) bool
	Error    string
	Required bool
}

func CheckboxGroup(p CheckboxGroupProps) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw(`<fieldset class="field"><legend>`)
		w.text(p.Label)
		if p.Required {
			w.raw(` <span class="required">*</span>`)
		}
		w.raw("</legend>")
		for _, o := range p.Options {
			w.raw(`<label class="checkbox"><input type="checkbox"`)
			w.attr("name", p.Name)
			w.attr("value", o.Value)
			w.flag("checked", p.Checked != nil && p.Checked(o.Value))
			w.raw("> ")
			w.text(o.Label)
			w.raw("</label>")
		}
		fieldError(w, p.Error)
		w.raw("</fieldset>")
		return w.err
	})
}

func fieldError(w *writer, msg string) {
	if msg == "" {
		return
	}
	w.raw(`<p class="field-error" role="alert">`)
	w.text(msg)
	w.raw("</p>")
}

type AlertKind string

const (
	AlertSuccess AlertKind = "success"
	AlertError   AlertKind = "error"
)

// Alert renders a banner; a positive dismissAfter lets the page script remove it after that delay.
// An empty text renders nothing.
func Alert(kind AlertKind, text string, dismissAfter time.Duration) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		if text == "" {
			return nil
		}
		w := &writer{w: out}
		w.raw("<div")
		w.attr("class", "alert alert-"+string(kind))
		w.attr("role", "alert")
		if dismissAfter > 0 {
			w.attr("data-dismiss-after", itoa(dismissAfter.Milliseconds()))
		}
		w.raw(">")
		w.text(text)
		w.raw("</div>")
		return w.err
	})
}

// Banner renders the form's transient banner.
func Banner(b viewmodel.Banner, dismissAfter time.Duration) templ.Component {
	kind := AlertError
	if b.Kind == viewmodel.BannerSuccess {
		kind = AlertSuccess
	}
	return Alert(kind, b.Text, dismissAfter)
}

// ConfirmDialogProps describes a confirmation. Confirm posts to ConfirmAction; Close links to CloseHref.
type ConfirmDialogProps struct {
	Open          bool
	Title         string
	Message       string
	ConfirmLabel  string
	CancelLabel   string
	Busy          bool
	ConfirmAction string
	CloseHref     string
}

// ConfirmDialog renders nothing when closed.
func ConfirmDialog(p ConfirmDialogProps) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		if !p.Open {
			return nil
		}
		if p.ConfirmLabel == "" {
			p.ConfirmLabel = "Confirm"
		}
		if p.CancelLabel == "" {
			p.CancelLabel = "Cancel"
		}
		w := &writer{w: out}
		w.raw(`<div class="modal-backdrop"><div class="modal" role="dialog" aria-modal="true" aria-labelledby="confirm-title"><h3 id="confirm-title">`)
		w.text(p.Title)
		w.raw(`</h3><p class="modal-message">`)
		w.text(p.Message)
		w.raw(`</p><form method="POST" class="modal-action"`)
		w.attr("action", p.ConfirmAction)
		w.raw("><a")
		w.attr("href", p.CloseHref)
		if p.Busy {
			w.raw(` class="btn btn-secondary" aria-disabled="true" tabindex="-1">`)
		} else {
			w.raw(` class="btn btn-secondary">`)
		}
		w.text(p.CancelLabel)
		w.raw("</a>")
		w.render(Button(ButtonProps{Label: p.ConfirmLabel, Variant: ButtonDanger, Busy: p.Busy}), ctx)
		w.raw("</form></div></div>")
		return w.err
	})
}
