package users

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"tour-backoffice/internal/domain/apperr"
)

// IsPasswordStrong requires 8 characters with at least one letter and one
// digit.
func IsPasswordStrong(password string) bool {
	if len(password) < 8 {
		return false
	}
	hasLetter := false
	hasDigit := false
	for _, c := range password {
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
			hasLetter = true
		case '0' <= c && c <= '9':
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

func HashPassword(password string) (string, error) {
	if !IsPasswordStrong(password) {
		return "", apperr.Validationf("Password must be at least 8 characters long and contain both letters and numbers")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", apperr.Validationf("Password must be at most 72 bytes")
		}
		return "", apperr.Wrap(apperr.Internal, err, "failed to hash password")
	}
	return string(hashed), nil
}

// CheckPassword reports whether password matches the stored hash.
func CheckPassword(hash, password string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
