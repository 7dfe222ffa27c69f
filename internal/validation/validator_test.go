package validation

import (
	"testing"

	"quiztube/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegistration() dto.RegistrationRequest {
	return dto.RegistrationRequest{
		Username:          "gopher",
		Email:             "gopher@example.com",
		Password:          "s3cret-password",
		ConfirmedPassword: "s3cret-password",
	}
}

func TestValidateRegistration_Valid(t *testing.T) {
	v := NewValidator()
	assert.Empty(t, v.ValidateRegistration(validRegistration()))
}

func TestValidateRegistration_PasswordMismatch(t *testing.T) {
	v := NewValidator()
	req := validRegistration()
	req.ConfirmedPassword = "different"

	errs := v.ValidateRegistration(req)

	require.Len(t, errs, 1)
	assert.Equal(t, "confirmed_password", errs[0].Field)
	assert.Equal(t, "Passwords do not match", errs[0].Message)
}

func TestValidateRegistration_BadEmail(t *testing.T) {
	v := NewValidator()

	for _, email := range []string{"not-an-email", "missing@tld", "spaces in@example.com", "@example.com"} {
		req := validRegistration()
		req.Email = email

		errs := v.ValidateRegistration(req)

		require.NotEmpty(t, errs, "email %q should be rejected", email)
		assert.Equal(t, "email", errs[0].Field)
	}
}

func TestValidateRegistration_MissingFields(t *testing.T) {
	v := NewValidator()

	errs := v.ValidateRegistration(dto.RegistrationRequest{})

	fields := make(map[string]bool)
	for _, e := range errs {
		fields[e.Field] = true
	}
	assert.True(t, fields["username"])
	assert.True(t, fields["email"])
	assert.True(t, fields["password"])
	assert.True(t, fields["confirmed_password"])
}

func TestValidateLogin(t *testing.T) {
	v := NewValidator()

	assert.Empty(t, v.ValidateLogin(dto.LoginRequest{Username: "gopher", Password: "pw"}))

	errs := v.ValidateLogin(dto.LoginRequest{})
	assert.Len(t, errs, 2)
}
