package validation

import (
	"regexp"
	"strings"

	"quiztube/internal/domain"
	"quiztube/internal/dto"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Validator provides request validation functionality.
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// ValidateRegistration checks the registration request fields. The
// password/confirmation mismatch is reported on the confirmation field,
// matching the field the user got wrong.
func (v *Validator) ValidateRegistration(req dto.RegistrationRequest) domain.ValidationErrors {
	var errs domain.ValidationErrors

	if strings.TrimSpace(req.Username) == "" {
		errs = append(errs, domain.NewValidationError("username", "username is required"))
	} else if len(req.Username) > 150 {
		errs = append(errs, domain.NewValidationError("username", "username is too long"))
	}

	if strings.TrimSpace(req.Email) == "" {
		errs = append(errs, domain.NewValidationError("email", "email is required"))
	} else if !emailPattern.MatchString(req.Email) {
		errs = append(errs, domain.NewValidationError("email", "email is not a valid address"))
	}

	if req.Password == "" {
		errs = append(errs, domain.NewValidationError("password", "password is required"))
	}

	if req.Password != "" && req.ConfirmedPassword != "" && req.Password != req.ConfirmedPassword {
		errs = append(errs, domain.NewValidationError("confirmed_password", "Passwords do not match"))
	} else if req.ConfirmedPassword == "" {
		errs = append(errs, domain.NewValidationError("confirmed_password", "password confirmation is required"))
	}

	return errs
}

// ValidateLogin checks the login request fields.
func (v *Validator) ValidateLogin(req dto.LoginRequest) domain.ValidationErrors {
	var errs domain.ValidationErrors

	if strings.TrimSpace(req.Username) == "" {
		errs = append(errs, domain.NewValidationError("username", "username is required"))
	}
	if req.Password == "" {
		errs = append(errs, domain.NewValidationError("password", "password is required"))
	}

	return errs
}
