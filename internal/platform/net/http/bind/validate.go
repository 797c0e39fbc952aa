package bind

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	perr "opendash/internal/platform/errors"
	"opendash/internal/platform/logger"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entrans "github.com/go-playground/validator/v10/translations/en"
)

var (
	validate *validator.Validate
	trans    ut.Translator
	setup    sync.Once
)

// shortMessages override the stock english text for the bounds tags
var shortMessages = map[string]string{
	"min": "{0} must be at least {1}",
	"max": "{0} must be at most {1}",
}

func engine() (*validator.Validate, ut.Translator) {
	setup.Do(func() {
		loc := en.New()
		trans, _ = ut.New(loc, loc).GetTranslator("en")

		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(wireName)
		_ = entrans.RegisterDefaultTranslations(validate, trans)

		for tag, text := range shortMessages {
			_ = validate.RegisterTranslation(tag, trans,
				func(t ut.Translator) error { return t.Add(tag, text, true) },
				func(t ut.Translator, fe validator.FieldError) string {
					s, _ := t.T(fe.Tag(), fe.Field(), fe.Param())
					return s
				})
		}
	})
	return validate, trans
}

// wireName reports fields by their json or query name so messages match the request
func wireName(f reflect.StructField) string {
	for _, key := range []string{"json", "query"} {
		name, _, _ := strings.Cut(f.Tag.Get(key), ",")
		if name != "" && name != "-" {
			return name
		}
	}
	return f.Name
}

// Validate checks v against its validate tags; the first failure becomes a
// validation error pointing at the offending field
func Validate(v any) error {
	eng, tr := engine()
	err := eng.Struct(v)
	if err == nil {
		return nil
	}

	var bad *validator.InvalidValidationError
	if errors.As(err, &bad) {
		logger.Get().Error().Err(bad).Msg("validate called on a non struct")
		return perr.Internalf("validation setup error")
	}
	var fields validator.ValidationErrors
	if errors.As(err, &fields) && len(fields) > 0 {
		fe := fields[0]
		return perr.WithField(perr.New(perr.ErrorCodeValidation, fe.Translate(tr)), fe.Field())
	}
	return perr.Wrap(err, perr.ErrorCodeValidation, "validation failed")
}
