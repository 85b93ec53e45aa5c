// internal/app/system/authutil/authutil.go
package authutil

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

/*──────────────────────────── passwords ───────────────────────────*/

const (
	// MinPasswordLength is the minimum accepted password length.
	MinPasswordLength = 6
	// MaxPasswordLength is the maximum accepted password length. bcrypt
	// silently truncates at 72 bytes; we cap well before anything odd.
	MaxPasswordLength = 128
)

var (
	ErrPasswordTooShort = errors.New("password too short")
	ErrPasswordTooLong  = errors.New("password too long")
	ErrPasswordCommon   = errors.New("password too common")
)

// commonPasswords are rejected outright, case-insensitively.
var commonPasswords = map[string]struct{}{
	"password":  {},
	"passwort":  {},
	"123456":    {},
	"12345678":  {},
	"qwerty":    {},
	"qwertz":    {},
	"abc123":    {},
	"letmein":   {},
	"111111":    {},
	"123456789": {},
}

// ValidatePassword checks a candidate password against the length and
// common-password rules. It does not hash.
func ValidatePassword(plain string) error {
	if len(plain) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if len(plain) > MaxPasswordLength {
		return ErrPasswordTooLong
	}
	if _, ok := commonPasswords[strings.ToLower(plain)]; ok {
		return ErrPasswordCommon
	}
	return nil
}

// PasswordRules returns a human-readable summary of the password rules.
func PasswordRules() string {
	return "Passwords must be 6-128 characters and not a commonly used password."
}

// HashPassword returns the bcrypt hash of plain.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword reports whether plain matches the bcrypt hash.
func CheckPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

/*──────────────────────────── PINs ────────────────────────────────*/

// PINLength is the required PIN length.
const PINLength = 4

// ErrInvalidPIN is returned when a PIN is not exactly four digits.
var ErrInvalidPIN = errors.New("pin must be exactly four digits")

// ValidatePIN checks that pin is exactly four ASCII digits.
func ValidatePIN(pin string) error {
	if len(pin) != PINLength {
		return ErrInvalidPIN
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return ErrInvalidPIN
		}
	}
	return nil
}

// HashPIN returns the bcrypt hash of pin after validating its format.
func HashPIN(pin string) (string, error) {
	if err := ValidatePIN(pin); err != nil {
		return "", err
	}
	b, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPIN reports whether pin matches the bcrypt hash.
func CheckPIN(pin, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) == nil
}
