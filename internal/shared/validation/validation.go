// Package validation turns validator/v10 errors into field -> message maps.
package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

type FieldErrors map[string]string

var (
	once sync.Once
	v    *validator.Validate
)

// Validator returns the shared validator configured with the same tag gin binds with,
// so service-level structs and request DTOs share one rule syntax.
func Validator() *validator.Validate {
	once.Do(func() {
		v = validator.New()
		v.SetTagName("binding")
	})
	return v
}

// Struct validates dst and returns field errors, or nil when dst is valid.
func Struct(dst any) FieldErrors {
	if err := Validator().Struct(dst); err != nil {
		return FromBindError(err, dst)
	}
	return nil
}

// FromBindError maps a bind/validation error to field -> message.
// dst is the bound struct pointer, used to read json/form tags for the keys.
func FromBindError(err error, dst any) FieldErrors {
	out := FieldErrors{}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			key := fieldKey(dst, fe.StructField())
			out[key] = messageForTag(fe.Tag(), fe.Param())
		}
		return out
	}

	// type mismatches, malformed JSON, ...
	out["_"] = "Request body is invalid."
	return out
}

func fieldKey(dst any, structField string) string {
	t := reflect.TypeOf(dst)
	if t == nil {
		return strings.ToLower(structField)
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return strings.ToLower(structField)
	}

	f, ok := t.FieldByName(structField)
	if !ok {
		return strings.ToLower(structField)
	}
	for _, name := range []string{"json", "form"} {
		tag := f.Tag.Get(name)
		if i := strings.Index(tag, ","); i >= 0 {
			tag = tag[:i]
		}
		if tag != "" && tag != "-" {
			return tag
		}
	}
	return strings.ToLower(structField)
}

func messageForTag(tag, param string) string {
	switch tag {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "min":
		return "Must be at least " + param + "."
	case "max":
		return "Must be at most " + param + "."
	case "gt":
		return "Must be greater than " + param + "."
	case "gte":
		return "Must be at least " + param + "."
	case "eqfield":
		return "Does not match."
	case "oneof":
		return "Must be one of: " + strings.ReplaceAll(param, " ", ", ") + "."
	case "url":
		return "Enter a valid URL."
	default:
		return "Invalid value."
	}
}
