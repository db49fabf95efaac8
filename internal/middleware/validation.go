package middleware

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// ValidationError is one failed field of a bound form.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationConfig represents validation configuration
type ValidationConfig struct {
	CustomValidators    map[string]validator.Func
	CustomErrorMessages map[string]string
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// ValidSlug accepts lowercase alphanumeric runs joined by single hyphens.
func ValidSlug(fl validator.FieldLevel) bool {
	return slugPattern.MatchString(fl.Field().String())
}

func DefaultValidationConfig() ValidationConfig {
	return ValidationConfig{
		CustomValidators: map[string]validator.Func{
			"slug": ValidSlug,
		},
		CustomErrorMessages: map[string]string{
			"required": "Field is required",
			"email":    "Invalid email format",
			"oneof":    "Value is not one of the allowed options",
			"slug":     "Use lowercase letters, digits and single hyphens",
		},
	}
}

// RegisterValidation installs the custom rules on gin's validator and
// reports fields by their json name. Call it once before serving.
func RegisterValidation(config ValidationConfig) error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	for tag, fn := range config.CustomValidators {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return nil
}

// ValidationErrors flattens a binding error into per-field messages. It
// returns nil for errors that are not validation failures.
func ValidationErrors(config ValidationConfig, err error) []ValidationError {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}
	out := make([]ValidationError, 0, len(errs))
	for _, e := range errs {
		msg := config.CustomErrorMessages[e.Tag()]
		if msg == "" {
			msg = e.Error()
		}
		out = append(out, ValidationError{Field: e.Field(), Message: msg})
	}
	return out
}
