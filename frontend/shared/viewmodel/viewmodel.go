// Package viewmodel is the form state every page renders from.
//
// Handlers never mutate a Form directly: they feed events through Update and render the result.
package viewmodel

import (
	"net/url"

	"userhub/frontend/shared/validation"
)

type Phase int

const (
	Viewing Phase = iota
	Editing
	Submitting
	Succeeded
	FieldErrors
	Failed
)

func (p Phase) String() string {
	switch p {
	case Viewing:
		return "viewing"
	case Editing:
		return "editing"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case FieldErrors:
		return "field-errors"
	case Failed:
		return "failed"
	}
	return "unknown"
}

type BannerKind string

const (
	BannerSuccess BannerKind = "success"
	BannerError   BannerKind = "error"
)

// NetworkErrorMessage is shown whenever the backend could not be reached or answered garbage.
const NetworkErrorMessage = "Network error. Please try again."

type Banner struct {
	Kind BannerKind
	Text string
}

func (b Banner) Visible() bool {
	return b.Text != ""
}

// Form holds the editable copy (Values), the last values loaded from the backend (Loaded),
// per-field errors, the phase and the transient banner.
type Form struct {
	Values url.Values
	Loaded url.Values
	Errors validation.Errors
	Phase  Phase
	Banner Banner
}

// New returns a form in the viewing phase showing loaded.
func New(loaded url.Values) Form {
	return Form{
		Values: clone(loaded),
		Loaded: clone(loaded),
		Errors: validation.Errors{},
		Phase:  Viewing,
	}
}

func (f Form) Value(field string) string {
	return f.Values.Get(field)
}

func (f Form) Error(field string) string {
	return f.Errors[field]
}

// Selected reports whether value is one of the values of a multi-valued field.
func (f Form) Selected(field, value string) bool {
	for _, v := range f.Values[field] {
		if v == value {
			return true
		}
	}
	return false
}

func (f Form) Busy() bool {
	return f.Phase == Submitting
}

func (f Form) Editing() bool {
	switch f.Phase {
	case Editing, Submitting, FieldErrors, Failed:
		return true
	}
	return false
}

type Event interface {
	event()
}

// EditStarted opens the editable copy with the given values.
type EditStarted struct {
	Values url.Values
}

type ValidationFailed struct {
	Errors validation.Errors
}

type SubmitStarted struct{}

// SubmitSucceeded replaces the loaded values with the server's answer when Values is set.
type SubmitSucceeded struct {
	Message string
	Values  url.Values
}

// ServerFieldErrors overwrites only the fields it names.
type ServerFieldErrors struct {
	Errors validation.Errors
}

// SubmitFailed shows Message, or Fallback when the server sent none.
type SubmitFailed struct {
	Message  string
	Fallback string
}

type NetworkFailed struct{}

func (EditStarted) event()       {}
func (ValidationFailed) event()  {}
func (SubmitStarted) event()     {}
func (SubmitSucceeded) event()   {}
func (ServerFieldErrors) event() {}
func (SubmitFailed) event()      {}
func (NetworkFailed) event()     {}

// Update returns the state that follows s after ev. s is not modified.
func Update(s Form, ev Event) Form {
	next := Form{
		Values: clone(s.Values),
		Loaded: clone(s.Loaded),
		Errors: validation.Errors{}.Merge(s.Errors),
		Phase:  s.Phase,
		Banner: s.Banner,
	}

	switch e := ev.(type) {
	case EditStarted:
		next.Values = clone(e.Values)
		next.Errors = validation.Errors{}
		next.Phase = Editing
	case ValidationFailed:
		next.Errors = validation.Errors{}.Merge(e.Errors)
		next.Banner = Banner{}
		next.Phase = Editing
	case SubmitStarted:
		next.Errors = validation.Errors{}
		next.Banner = Banner{}
		next.Phase = Submitting
	case SubmitSucceeded:
		if e.Values != nil {
			next.Values = clone(e.Values)
			next.Loaded = clone(e.Values)
		}
		next.Errors = validation.Errors{}
		next.Banner = Banner{Kind: BannerSuccess, Text: e.Message}
		next.Phase = Succeeded
	case ServerFieldErrors:
		next.Errors = next.Errors.Merge(e.Errors)
		next.Phase = FieldErrors
	case SubmitFailed:
		text := e.Message
		if text == "" {
			text = e.Fallback
		}
		next.Banner = Banner{Kind: BannerError, Text: text}
		next.Phase = Failed
	case NetworkFailed:
		next.Banner = Banner{Kind: BannerError, Text: NetworkErrorMessage}
		next.Phase = Failed
	}
	return next
}

func clone(v url.Values) url.Values {
	if v == nil {
		return url.Values{}
	}
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}
