package validation

import "strings"

// SettingsValidator validates email configuration input.
type SettingsValidator struct {
	validator *Validator
}

// NewSettingsValidator creates a new settings validator
func NewSettingsValidator() *SettingsValidator {
	return &SettingsValidator{validator: NewValidator()}
}

// ValidateEmail requires a well-formed address in field.
func (sv *SettingsValidator) ValidateEmail(field, email string) error {
	ve := NewValidationError()
	email = strings.TrimSpace(email)
	switch {
	case email == "":
		ve.AddRequiredError(field)
	case !sv.validator.IsValidEmail(email):
		ve.AddInvalidFormatError(field, email, "name@example.com")
	}
	return ve.OrNil()
}

// ValidatePassword requires a non-blank app password.
func (sv *SettingsValidator) ValidatePassword(password string) error {
	if strings.TrimSpace(password) == "" {
		ve := NewValidationError()
		ve.AddRequiredError("password")
		return ve
	}
	return nil
}

// ValidateOwnerEntry checks one owner directory assignment.
func (sv *SettingsValidator) ValidateOwnerEntry(owner, email string) error {
	ve := NewValidationError()
	if !sv.validator.IsNonEmptyString(owner) {
		ve.AddRequiredError("owner")
	} else if !sv.validator.HasNoControlCharacters(owner) {
		ve.AddInvalidCharacterError("owner", owner)
	}
	if err := sv.ValidateEmail("email", email); err != nil {
		ve.Merge("", err)
	}
	return ve.OrNil()
}
