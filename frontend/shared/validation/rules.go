package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Errors maps a form field name to its message.
type Errors map[string]string

func (e Errors) Empty() bool {
	return len(e) == 0
}

// Merge overwrites only the fields named in other.
func (e Errors) Merge(other Errors) Errors {
	out := make(Errors, len(e)+len(other))
	for k, v := range e {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

var (
	once     sync.Once
	instance *validator.Validate
)

func engine() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
		mustRegister(v, "notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		mustRegister(v, "useremail", func(fl validator.FieldLevel) bool {
			return Email(fl.Field().String()) == ""
		})
		mustRegister(v, "userpassword", func(fl validator.FieldLevel) bool {
			return Password(fl.Field().String()) == ""
		})
		mustRegister(v, "userphone", func(fl validator.FieldLevel) bool {
			return Phone(fl.Field().String()) == ""
		})
		instance = v
	})
	return instance
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// Check validates form against its `validate` tags.
//
// Each failing field gets one message: the `msg` tag entry for the failing rule
// ("rule=text;rule=text") when present, otherwise the message of the matching plain check.
// `label` names the field in "<label> is required".
func Check(form any) Errors {
	err := engine().Struct(form)
	if err == nil {
		return Errors{}
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return Errors{"form": err.Error()}
	}

	typ := reflect.TypeOf(form)
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}

	out := make(Errors, len(fieldErrs))
	for _, fe := range fieldErrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		sf, _ := typ.FieldByName(fe.StructField())
		out[fe.Field()] = message(sf, fe)
	}
	return out
}

func message(sf reflect.StructField, fe validator.FieldError) string {
	if custom := customMessage(sf.Tag.Get("msg"), fe.Tag()); custom != "" {
		return custom
	}
	value, _ := fe.Value().(string)
	label := sf.Tag.Get("label")
	if label == "" {
		label = sf.Name
	}
	switch fe.Tag() {
	case "useremail":
		return Email(value)
	case "userpassword":
		return Password(value)
	case "userphone":
		return Phone(value)
	case "required", "notblank":
		return Required("", label)
	}
	return label + " is invalid"
}

func customMessage(spec, rule string) string {
	for _, part := range strings.Split(spec, ";") {
		name, text, ok := strings.Cut(part, "=")
		if ok && strings.TrimSpace(name) == rule {
			return strings.TrimSpace(text)
		}
	}
	return ""
}
