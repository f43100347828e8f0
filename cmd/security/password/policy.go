package password

import (
	"strings"
	"unicode/utf8"
)

// specialChars is the accepted set of special characters for RequireComplexity.
const specialChars = "!@#$%^&*()_+-=[]{};':\"\\|,.<>/?"

// Validate checks password policy. It does not mutate input.
// Length errors are reported before complexity errors.
func (c Config) Validate(password string) error {
	// Count characters (runes), not bytes, to be user-friendly.
	n := utf8.RuneCountInString(password)

	if n < c.Policy.MinLength {
		return ErrPasswordTooShort
	}
	if n > c.Policy.MaxLength {
		return ErrPasswordTooLong
	}

	if c.Policy.RequireComplexity && !hasRequiredClasses(password) {
		return ErrWeakPassword
	}

	return nil
}

// hasRequiredClasses reports whether pw contains an ASCII lowercase letter,
// an ASCII digit and one of specialChars.
func hasRequiredClasses(pw string) bool {
	var lower, digit, special bool
	for _, r := range pw {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(specialChars, r):
			special = true
		}
	}
	return lower && digit && special
}
