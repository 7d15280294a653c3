// internal/utils/validator_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sampleRequest struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Username string `validate:"omitempty,username"`
	Password string `validate:"omitempty,strong_password"`
}

func TestValidateStruct(t *testing.T) {
	valid := sampleRequest{Name: "Widget", Email: "boss@shop.test"}
	assert.NoError(t, ValidateStruct(&valid))

	invalid := sampleRequest{Email: "nope"}
	err := ValidateStruct(&invalid)
	assert.Error(t, err)

	validationErrors := GetValidationErrors(err)
	assert.Len(t, validationErrors, 2)
	assert.Equal(t, "name", validationErrors[0].Field)
	assert.Equal(t, "required", validationErrors[0].Tag)
	assert.Equal(t, "Name is required", validationErrors[0].Message)
	assert.Equal(t, "Invalid email format", validationErrors[1].Message)
}

func TestStrongPassword(t *testing.T) {
	tests := []struct {
		password string
		valid    bool
	}{
		{"Passw0rd", true},
		{"password1", false}, // no uppercase
		{"PASSWORD1", false}, // no lowercase
		{"Password", false},  // no number
		{"Pw1", false},       // too short
	}

	for _, tt := range tests {
		err := ValidateStruct(&sampleRequest{Name: "x", Email: "a@b.c", Password: tt.password})
		if tt.valid {
			assert.NoError(t, err, "password %q should pass", tt.password)
		} else {
			assert.Error(t, err, "password %q should fail", tt.password)
		}
	}
}

func TestUsernameRule(t *testing.T) {
	ok := sampleRequest{Name: "x", Email: "a@b.c", Username: "store_admin1"}
	assert.NoError(t, ValidateStruct(&ok))

	bad := sampleRequest{Name: "x", Email: "a@b.c", Username: "no spaces!"}
	assert.Error(t, ValidateStruct(&bad))
}

func TestGetValidationErrorsIgnoresOtherErrors(t *testing.T) {
	assert.Nil(t, GetValidationErrors(nil))
	assert.Nil(t, GetValidationErrors(assert.AnError))
}
