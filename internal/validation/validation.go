// Package validation checks guest and gift input on the API side.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateEmail checks if an email address is valid
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}

// ValidateName checks if a name is valid
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: "name", Message: "name is required"}
	}
	if utf8.RuneCountInString(name) < 2 {
		return ValidationError{Field: "name", Message: "name must be at least 2 characters"}
	}
	return nil
}

// ValidatePhone accepts Brazilian numbers with or without country code and punctuation
func ValidatePhone(phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ValidationError{Field: "phone", Message: "phone is required"}
	}

	digits := 0
	for _, r := range phone {
		switch {
		case unicode.IsDigit(r):
			digits++
		case strings.ContainsRune("+()- .", r):
		default:
			return ValidationError{Field: "phone", Message: "phone contains invalid characters"}
		}
	}
	if digits < 10 || digits > 13 {
		return ValidationError{Field: "phone", Message: "phone must have between 10 and 13 digits"}
	}
	return nil
}

// ValidateInvitationCode checks the shape of an invitation code
func ValidateInvitationCode(code string) error {
	if utf8.RuneCountInString(code) != 6 {
		return ValidationError{Field: "invitationCode", Message: "invitation code must have 6 characters"}
	}
	for _, r := range code {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return ValidationError{Field: "invitationCode", Message: "invitation code must be alphanumeric"}
		}
	}
	return nil
}

// ValidatePassword checks the admin password policy
func ValidatePassword(password string) error {
	if password == "" {
		return ValidationError{Field: "password", Message: "password is required"}
	}
	if len(password) < 8 {
		return ValidationError{Field: "password", Message: "password must be at least 8 characters"}
	}
	return nil
}

// ValidateGift checks a catalog entry before it is stored
func ValidateGift(name string, priceCentavos int64) error {
	if strings.TrimSpace(name) == "" {
		return ValidationError{Field: "name", Message: "gift name is required"}
	}
	if priceCentavos <= 0 {
		return ValidationError{Field: "price", Message: "price must be positive"}
	}
	return nil
}
