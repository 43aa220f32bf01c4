package domain

import (
	"regexp"

	apperrors "github.com/kurihiro0119/github-profile-api/internal/errors"
)

// GitHub logins are 1-39 characters of letters, digits and hyphens and
// never start with a hyphen.
var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9-]{0,38}$`)

// IsValidUsername reports whether username can be a GitHub login
func IsValidUsername(username string) bool {
	return usernamePattern.MatchString(username)
}

// ValidateUsername rejects names that cannot be a GitHub login, such as
// "." or "..", before they are placed into an upstream URL path
func ValidateUsername(username string) error {
	if !IsValidUsername(username) {
		return apperrors.NewBadRequestError("invalid GitHub username")
	}
	return nil
}
