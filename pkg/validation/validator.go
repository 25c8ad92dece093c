package validation

import (
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// PasswordSymbols are the characters that satisfy the "special character" rule.
const PasswordSymbols = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`

var (
	std     *validator.Validate
	stdOnce sync.Once
)

// Engine returns the shared validator, configured on first use.
func Engine() *validator.Validate {
	stdOnce.Do(func() {
		std = validator.New(validator.WithRequiredStructEnabled())
		configure(std)
	})
	return std
}

// Init configures the validator used by Gin's binding the same way as Engine.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		configure(v)
	}
}

func configure(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

// StrongPassword reports whether s is 8-30 characters long, at most MaxPasswordBytes
// bytes, and contains a lowercase letter, an uppercase letter, a digit and one of PasswordSymbols.
func StrongPassword(s string) bool {
	n := utf8.RuneCountInString(s)
	if n < 8 || n > 30 || len(s) > MaxPasswordBytes {
		return false
	}
	var lower, upper, digit, symbol bool
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(PasswordSymbols, r):
			symbol = true
		}
	}
	return lower && upper && digit && symbol
}

// IsEmail reports whether s is a well-formed email address.
func IsEmail(s string) bool {
	return s != "" && Engine().Var(s, "email") == nil
}

// ToDetails converts validation/binding errors into a map[field]message suitable for API error.details.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return map[string]string{"payload": "invalid json"}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fe.Field()] = formatFieldError(fe)
		}
		return out
	}

	return map[string]string{"payload": "invalid payload"}
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	default:
		if p := fe.Param(); p != "" {
			return "validation failed for '" + fe.Tag() + "' with parameter '" + p + "'"
		}
		return "validation failed for '" + fe.Tag() + "'"
	}
}
