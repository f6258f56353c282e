package checkout

import "regexp"

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^(\+7|7|8)?[\s\-]?\(?[489][0-9]{2}\)?[\s\-]?[0-9]{3}[\s\-]?[0-9]{2}[\s\-]?[0-9]{2}$`)
)

// IsValidEmail reports whether the value looks like an email address.
func IsValidEmail(value string) bool {
	return emailPattern.MatchString(value)
}

// IsValidPhone reports whether the value looks like a Russian phone number,
// with or without the country prefix and common separators.
func IsValidPhone(value string) bool {
	return phonePattern.MatchString(value)
}
