package validator

import (
	"errors"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// FieldErrors maps a JSON field name to a human readable message.
type FieldErrors map[string]string

// Summary renders the errors as "field message; field message" in field order.
func (fe FieldErrors) Summary() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+fe[k])
	}
	return strings.Join(parts, "; ")
}

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return strings.ToLower(f.Name)
			}
			return name
		})
	})
	return validate
}

// Struct validates v against its `validate` tags. A nil result means v is valid.
func Struct(v any) FieldErrors {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}

	out := FieldErrors{}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			out[fe.Field()] = messageForTag(fe.Tag(), fe.Param())
		}
		return out
	}

	out["_"] = err.Error()
	return out
}

func messageForTag(tag, param string) string {
	switch tag {
	case "required":
		return "is required"
	case "url", "http_url":
		return "must be an absolute http(s) URL"
	case "max":
		return "must be at most " + param + " characters"
	case "min":
		return "must be at least " + param + " characters"
	default:
		return "is invalid"
	}
}
