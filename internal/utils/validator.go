package utils

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"foodgram/domain"

	"github.com/go-playground/validator/v10"
)

var (
	Validate *validator.Validate

	usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)
	slugPattern     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
	dataURIPattern  = regexp.MustCompile(`^data:image/[a-zA-Z0-9.+-]+;base64,`)
)

func InitValidator() {
	if Validate != nil {
		return
	}
	Validate = NewValidator()
}

func NewValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("notme", func(fl validator.FieldLevel) bool {
		return !strings.EqualFold(fl.Field().String(), "me")
	})
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("tagcolor", func(fl validator.FieldLevel) bool {
		_, ok := domain.TagColors[strings.ToUpper(fl.Field().String())]
		return ok
	})
	_ = v.RegisterValidation("imagedatauri", func(fl validator.FieldLevel) bool {
		return dataURIPattern.MatchString(fl.Field().String())
	})

	return v
}

// ValidationError turns validator output into a domain validation error keyed by JSON field.
func ValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return domain.Validation(err.Error())
	}

	details := make(map[string]string, len(validationErrs))
	for _, e := range validationErrs {
		details[fieldPath(e)] = friendlyMessage(e)
	}
	return domain.ValidationWithDetails("validation failed", details)
}

// fieldPath drops the root struct name: "CreateRecipeRequest.ingredients[0].amount" -> "ingredients[0].amount".
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return e.Field()
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if e.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s item(s)", e.Param())
		}
		return fmt.Sprintf("must be at least %s characters", e.Param())
	case "max":
		return fmt.Sprintf("must not exceed %s characters", e.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", e.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", e.Param())
	case "uuid":
		return "must be a valid id"
	case "unique":
		return "must not contain duplicates"
	case "username":
		return "may contain only letters, digits and @/./+/-/_"
	case "notme":
		return `"me" cannot be used as a username`
	case "slug":
		return "may contain only letters, digits, hyphens and underscores"
	case "tagcolor":
		return "must be one of the palette colors"
	case "imagedatauri":
		return "must be a base64 encoded image data URI"
	default:
		return fmt.Sprintf("failed on %s validation", e.Tag())
	}
}
