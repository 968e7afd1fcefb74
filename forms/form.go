// Package forms parses submitted HTML forms, validates them and copies the accepted values
// onto model records.
package forms

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	msgRequired = "This field is required."
	msgChoice   = "Not a valid choice."
)

var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
	return v
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return msgRequired
	case "url":
		return "Invalid URL."
	case "email":
		return "Invalid email address."
	case "oneof":
		return msgChoice
	case "max":
		return fmt.Sprintf("Field cannot be longer than %s characters.", fe.Param())
	case "min":
		return fmt.Sprintf("Field must be at least %s characters long.", fe.Param())
	case "datetime":
		return "Not a valid date value."
	case "eqfield":
		return "Passwords must match."
	case "slug":
		return "Only lowercase letters, digits, '-' and '_' are allowed."
	default:
		return "Invalid value."
	}
}

// Option is one choice of a select field.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// Field describes one input for the edit templates.
type Field struct {
	Name     string
	Label    string
	Type     string // text, textarea, password, checkbox, select, date, email, url, file
	Value    string
	Checked  bool
	Multiple bool
	Required bool
	Options  []Option
	Error    string
}

// base carries per-field error messages. An empty map means the form is valid.
type base struct {
	Errors map[string]string
}

// check runs the struct tag validators over form and records one message per field.
func (b *base) check(form any) bool {
	b.Errors = map[string]string{}
	err := validate.Struct(form)
	var verrs validator.ValidationErrors
	switch {
	case err == nil:
	case errors.As(err, &verrs):
		for _, fe := range verrs {
			if _, seen := b.Errors[fe.Field()]; !seen {
				b.Errors[fe.Field()] = message(fe)
			}
		}
	default:
		b.Errors["_form"] = err.Error()
	}
	return len(b.Errors) == 0
}

// AddError records msg for field unless the field already has an error.
func (b *base) AddError(field, msg string) {
	if b.Errors == nil {
		b.Errors = map[string]string{}
	}
	if _, ok := b.Errors[field]; !ok {
		b.Errors[field] = msg
	}
}

func (b *base) Error(field string) string {
	return b.Errors[field]
}

func (b *base) Valid() bool {
	return len(b.Errors) == 0
}

// field builds a Field, attaching any recorded error.
func (b *base) field(name, label, typ, value string, required bool) Field {
	return Field{Name: name, Label: label, Type: typ, Value: value, Required: required, Error: b.Errors[name]}
}

// Uploadable is implemented by forms whose URL may come from an uploaded file.
type Uploadable interface {
	// UploadField names the multipart file input.
	UploadField() string
	// SetUploadedURL stores the link of the uploaded file.
	SetUploadedURL(url string)
}

func trimmed(vals map[string][]string, key string) string {
	v := vals[key]
	if len(v) == 0 {
		return ""
	}
	return strings.TrimSpace(v[0])
}

func checked(vals map[string][]string, key string) bool {
	switch strings.ToLower(trimmed(vals, key)) {
	case "", "0", "false", "off", "n", "no":
		return false
	default:
		return true
	}
}
