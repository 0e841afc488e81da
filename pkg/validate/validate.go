// Package validate wraps go-playground/validator with English messages
// and field names taken from json tags.
package validate

import (
	"errors"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// custom validation tags & texts
const (
	notBlankTag  = "notblank"
	notBlankText = "{0} must not be blank"

	usernameTag  = "username"
	usernameText = "{0} must be a single word without spaces"

	requiredTag  = "required"
	requiredText = "{0} is required"
)

// FieldError is one failed rule, already translated.
type FieldError struct {
	Field   string
	Message string
}

// Errors lists every failed rule of a single Struct call.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, f := range e {
		parts = append(parts, f.Message)
	}
	return strings.Join(parts, "; ")
}

// Validator validates tagged structs.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// New builds a validator with English translations and the custom tags registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, translator)

	// Use JSON tag names for errors instead of Go struct names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	out := &Validator{validate: v, translator: translator}

	_ = v.RegisterValidation(notBlankTag, notBlankValidation)
	out.RegisterCustomTranslation(notBlankTag, notBlankText)

	_ = v.RegisterValidation(usernameTag, usernameValidation)
	out.RegisterCustomTranslation(usernameTag, usernameText)

	out.RegisterCustomTranslation(requiredTag, requiredText, true)

	return out
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
func (v *Validator) RegisterCustomTranslation(tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = v.validate.RegisterTranslation(
		tag, v.translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// Struct validates s. It returns nil, an Errors value, or a non-validation
// error when s is not a struct.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: fe.Translate(v.translator)})
	}
	return out
}

// Custom Global Validators

// notBlankValidation rejects strings made only of whitespace.
func notBlankValidation(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// usernameValidation rejects empty values and values containing whitespace.
func usernameValidation(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return s != "" && strings.IndexFunc(s, unicode.IsSpace) < 0
}
