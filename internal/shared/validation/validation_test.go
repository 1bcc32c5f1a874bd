package validation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupInput struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=6"`
	PasswordConfirm string `json:"confirmPassword" binding:"required,eqfield=Password"`
	Payment         string `form:"payment_method" binding:"omitempty,oneof=card cod"`
}

func TestStruct(t *testing.T) {
	t.Run("valid input has no errors", func(t *testing.T) {
		in := signupInput{Email: "a@b.co", Password: "secret1", PasswordConfirm: "secret1"}
		assert.Nil(t, Struct(&in))
	})

	t.Run("keys come from json then form tags", func(t *testing.T) {
		in := signupInput{Email: "nope", Password: "123", PasswordConfirm: "456", Payment: "cash"}
		errs := Struct(&in)
		require.NotNil(t, errs)
		assert.Equal(t, "Enter a valid email address.", errs["email"])
		assert.Equal(t, "Must be at least 6.", errs["password"])
		assert.Equal(t, "Does not match.", errs["confirmPassword"])
		assert.Equal(t, "Must be one of: card, cod.", errs["payment_method"])
	})
}

func TestFromBindError_NonValidation(t *testing.T) {
	var in signupInput
	err := json.Unmarshal([]byte(`{"email": 5}`), &in)
	require.Error(t, err)
	errs := FromBindError(err, &in)
	assert.Equal(t, "Request body is invalid.", errs["_"])
}
