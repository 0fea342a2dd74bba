package shared

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/currency"

	"github.com/hisaab-cloud/hisaab/internal/platform/httpx"
)

// Spec-mandated email shape; intentionally simpler than full RFC parsing.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("email_basic", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})

	_ = v.RegisterValidation("iso4217", func(fl validator.FieldLevel) bool {
		_, err := currency.ParseISO(fl.Field().String())
		return err == nil
	})

	return v
}

// Validate runs struct-tag validation against v and converts the first
// failure into the API error envelope: required fields surface as
// MISSING_<FIELD>, everything else as INVALID_<FIELD>.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	field := FieldCode(fe.Field())
	switch fe.Tag() {
	case "required":
		return httpx.BadRequest("MISSING_"+field, fmt.Sprintf("%s is required", fe.Field()))
	default:
		return httpx.BadRequest("INVALID_"+field, fmt.Sprintf("%s is invalid", fe.Field()))
	}
}

// FieldCode converts a camelCase JSON field name into the UPPER_SNAKE form
// used in error codes: unitPrice -> UNIT_PRICE.
func FieldCode(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) && i > 0 {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// TrimOptional trims a free-text pointer field; empty-after-trim collapses
// to nil so absent and blank are indistinguishable downstream.
func TrimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
