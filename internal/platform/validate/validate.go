// Package validate owns the process-wide struct validator with English
// translations and json tag names in messages. HTTP binding, ingestion and the
// analyze service share it.
package validate

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	perr "attractor/internal/platform/errors"
)

// FieldError aliases validator.FieldError
type FieldError = validator.FieldError

// Svc holds the validator and its translator
type Svc struct {
	Validator  *validator.Validate
	Translator ut.Translator
}

var (
	once sync.Once
	svc  *Svc
)

// Get returns the singleton, building it on first use
func Get() *Svc {
	once.Do(func() {
		enLoc := en.New()
		uni := ut.New(enLoc, enLoc)
		trans, _ := uni.GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			tag := fld.Tag.Get("json")
			if tag == "-" || tag == "" {
				return fld.Name
			}
			if idx := strings.Index(tag, ","); idx >= 0 {
				tag = tag[:idx]
			}
			return tag
		})
		_ = en_translations.RegisterDefaultTranslations(v, trans)
		short(v, trans, "min", "{0} must be at least {1}")
		short(v, trans, "max", "{0} must be at most {1}")

		svc = &Svc{Validator: v, Translator: trans}
	})
	return svc
}

// Struct validates s and returns the first failure as an ErrorCodeValidation
// error with the offending json field attached
func Struct(s any) error {
	err := Get().Validator.Struct(s)
	if err == nil {
		return nil
	}
	var inv *validator.InvalidValidationError
	if errors.As(err, &inv) {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "validator misuse")
	}
	field, msg, tag := First(err)
	return perr.WithField(perr.WithOp(perr.New(perr.ErrorCodeValidation, msg), tag), field)
}

// First returns the first failing field, its translated message and the failing tag
func First(err error) (field, message, tag string) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fe.Field(), fe.Translate(Get().Translator), fe.Tag()
	}
	if err == nil {
		return "", "", ""
	}
	return "", err.Error(), ""
}

func short(v *validator.Validate, trans ut.Translator, tag, text string) {
	_ = v.RegisterTranslation(tag, trans,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T(tag, fe.Field(), fe.Param())
			return msg
		},
	)
}
