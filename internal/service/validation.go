package service

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// quoteInput mirrors the insert arguments after trimming. Lengths are counted in runes
// and must match model.MaxTextLength and model.MaxAuthorLength.
type quoteInput struct {
	Text   string `json:"text" validate:"required,max=500"`
	Author string `json:"autor" validate:"required,max=100"`
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func quoteValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// Report JSON field names so messages match the API.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// normalize trims both fields and checks them against the model bounds.
func normalize(text, author string) (quoteInput, error) {
	in := quoteInput{
		Text:   strings.TrimSpace(text),
		Author: strings.TrimSpace(author),
	}
	if err := quoteValidator().Struct(in); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return in, &ValidationError{Field: fieldErrs[0].Field(), Message: message(fieldErrs[0])}
		}
		return in, &ValidationError{Message: err.Error()}
	}
	return in, nil
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must not be empty"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	default:
		return "failed validation: " + fe.Tag()
	}
}
