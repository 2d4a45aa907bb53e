package models

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError is returned when a payload violates an entity schema.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Invalid builds a ValidationError for noun ("skill", "contact", ...).
func Invalid(noun string, details ...string) *ValidationError {
	msg := "Invalid " + noun + " data"
	if len(details) > 0 {
		msg += ": " + strings.Join(details, "; ")
	}
	return &ValidationError{Message: msg}
}

// Patch is a typed partial update for T.
type Patch[T any] interface {
	Validate(partial bool) error
	Apply(*T)
}

// Defaulter is implemented by entities whose zero value is not a valid
// starting point for a create.
type Defaulter interface {
	SetDefaults()
}

// New builds the record a validated create patch describes.
func New[T any](p Patch[T]) *T {
	item := new(T)
	if d, ok := any(item).(Defaulter); ok {
		d.SetDefaults()
	}
	p.Apply(item)
	return item
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("skillcategory", func(fl validator.FieldLevel) bool {
		return slices.Contains(SkillCategories, fl.Field().String())
	})
	return v
}

// check validates a patch struct. In partial mode only the fields that are
// present (non-nil) are checked, so "required" means required on create.
func check(noun string, patch any, partial bool) error {
	var err error
	if partial {
		fields := presentFields(patch)
		if len(fields) == 0 {
			return nil
		}
		err = validate.StructPartial(patch, fields...)
	} else {
		err = validate.Struct(patch)
	}
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Invalid(noun)
	}
	details := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, describe(fe))
	}
	return Invalid(noun, details...)
}

// presentFields lists the Go names of the non-nil pointer fields of a patch.
func presentFields(patch any) []string {
	v := reflect.Indirect(reflect.ValueOf(patch))
	t := v.Type()
	var names []string
	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)
		if f.Kind() == reflect.Pointer && !f.IsNil() {
			names = append(names, t.Field(i).Name)
		}
	}
	return names
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		if fe.Kind() == reflect.String {
			if fe.Param() == "1" {
				return field + " must not be empty"
			}
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be %s or greater", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(strings.Fields(fe.Param()), ", "))
	case "skillcategory":
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(SkillCategories, ", "))
	case "email":
		return field + " must be a valid email address"
	default:
		return field + " is invalid"
	}
}
