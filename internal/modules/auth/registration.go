package auth

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"glamup.com/app/internal/shared/validation"
)

const (
	MinAge        = 16
	MaxAge        = 100
	DefaultAge    = 25
	MinBudget     = 50
	MaxBudget     = 2000
	DefaultBudget = 500
	LastStep      = 3
)

var Cities = []string{
	"New York", "Los Angeles", "Chicago", "Houston", "Phoenix",
	"Philadelphia", "San Antonio", "San Diego", "Dallas", "San Francisco",
}

var Interests = []string{
	"Clothing & Fashion", "Makeup & Beauty", "Accessories", "Shoes", "Jewelry",
	"Home Decor", "Wellness", "Skincare", "Vintage Fashion", "Sustainable Fashion",
}

var Genders = []string{"male", "female", "other", "prefer-not-to-say"}

// RegisterInput carries the fields of all registration steps:
// 1 account (name, email, password), 2 profile (gender, city, age),
// 3 preferences (budget, interests).
type RegisterInput struct {
	Name            string   `json:"name" binding:"required,max=255"`
	Email           string   `json:"email" binding:"required,email,max=191"`
	Password        string   `json:"password" binding:"required,min=6,max=72"`
	ConfirmPassword string   `json:"confirmPassword" binding:"eqfield=Password"`
	Gender          string   `json:"gender" binding:"required,oneof=male female other prefer-not-to-say"`
	City            string   `json:"city" binding:"required,max=128"`
	Age             int      `json:"age"`
	Budget          int      `json:"budget"`
	Interests       []string `json:"interests"`
}

var stepFields = map[int][]string{
	1: {"Name", "Email", "Password", "ConfirmPassword"},
	2: {"Gender", "City"},
	3: {},
}

type fieldMsg struct{ key, msg string }

// Messages shown on the registration form, by struct field and failing rule.
// A "" rule is the fallback for the field.
var registerMessages = map[string]fieldMsg{
	"Name.":            {"name", "Name is required"},
	"Email.email":      {"email", "Email is invalid"},
	"Email.":           {"email", "Email is required"},
	"Password.min":     {"password", "Password must be at least 6 characters"},
	"Password.max":     {"password", "Password must be at most 72 characters"},
	"Password.":        {"password", "Password is required"},
	"ConfirmPassword.": {"confirmPassword", "Passwords do not match"},
	"Gender.":          {"gender", "Please select a gender"},
	"City.":            {"city", "Please select a city"},
	"City.max":         {"city", "City is too long"},
	"Name.max":         {"name", "Name is too long"},
	"Email.max":        {"email", "Email is too long"},
}

// ValidateStep checks only the fields that belong to step. Nil means the form
// may advance.
func ValidateStep(step int, in RegisterInput) validation.FieldErrors {
	fields, ok := stepFields[step]
	if !ok {
		return validation.FieldErrors{"step": "Unknown registration step."}
	}
	if len(fields) == 0 {
		return nil
	}
	in = normalizeRegister(in)
	err := validation.Validator().StructPartial(in, fields...)
	return registerErrors(err)
}

// validateRegister runs every step and merges the results.
func validateRegister(in RegisterInput) validation.FieldErrors {
	out := validation.FieldErrors{}
	for step := 1; step <= LastStep; step++ {
		for k, v := range ValidateStep(step, in) {
			out[k] = v
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func registerErrors(err error) validation.FieldErrors {
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return validation.FieldErrors{"_": "Request body is invalid."}
	}
	out := validation.FieldErrors{}
	for _, fe := range ve {
		m, ok := registerMessages[fe.StructField()+"."+fe.Tag()]
		if !ok {
			m, ok = registerMessages[fe.StructField()+"."]
		}
		if !ok {
			out[strings.ToLower(fe.StructField())] = "Invalid value."
			continue
		}
		out[m.key] = m.msg
	}
	return out
}

func normalizeRegister(in RegisterInput) RegisterInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.City = strings.TrimSpace(in.City)
	in.Gender = strings.TrimSpace(in.Gender)
	in.Age = clamp(in.Age, MinAge, MaxAge, DefaultAge)
	in.Budget = clamp(in.Budget, MinBudget, MaxBudget, DefaultBudget)
	in.Interests = knownInterests(in.Interests)
	return in
}

// clamp maps zero to def and pins everything else to [lo, hi].
func clamp(v, lo, hi, def int) int {
	switch {
	case v == 0:
		return def
	case v < lo:
		return lo
	case v > hi:
		return hi
	}
	return v
}

// knownInterests drops unknown and repeated entries, keeping the caller's order.
func knownInterests(in []string) []string {
	out := make([]string, 0, len(in))
	seen := map[string]bool{}
	for _, v := range in {
		v = strings.TrimSpace(v)
		if seen[v] {
			continue
		}
		for _, known := range Interests {
			if v == known {
				out = append(out, v)
				seen[v] = true
				break
			}
		}
	}
	return out
}
