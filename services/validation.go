package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/rpupo63/portfolio-blog/errs"
)

// formValidator validates submission structs and reports failures per form
// field, keyed by each field's `form` tag.
type formValidator struct {
	validate *validator.Validate
}

func newFormValidator(classifier Classifier) *formValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		switch name {
		case "-":
			return ""
		case "":
			return f.Name
		}
		return name
	})
	// clean rejects text the profanity classifier flags.
	_ = v.RegisterValidation("clean", func(fl validator.FieldLevel) bool {
		if classifier == nil {
			return true
		}
		return !classifier.ContainsProfanity(fl.Field().String())
	})
	return &formValidator{validate: v}
}

// Struct returns nil or an *errs.ApiErr with one message per failing field.
func (f *formValidator) Struct(s any) error {
	err := f.validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return errs.NewInternalErrorWithCause("Failed to validate submission", err)
	}

	fields := errs.FieldErrors{}
	for _, fe := range validationErrors {
		fields.Add(fe.Field(), fieldMessage(fe))
	}
	return errs.NewValidationFailedError(fields)
}

func fieldMessage(fe validator.FieldError) string {
	length := utf8.RuneCountInString(fmt.Sprint(fe.Value()))
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "min":
		return fmt.Sprintf("Ensure this value has at least %s characters (it has %d).", fe.Param(), length)
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters (it has %d).", fe.Param(), length)
	case "url":
		return "Enter a valid URL."
	case "clean":
		return fmt.Sprintf("You cannot use swearing words in the %s.", fe.Field())
	}
	return fmt.Sprintf("Invalid value (%s).", fe.Tag())
}
