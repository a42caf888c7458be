package profile

import (
	"regexp"
	"strings"

	"github.com/goaly/core/errs"
)

const (
	ReasonBadUsername      = "Username must be 5-20 characters and contain only letters, numbers, and underscores"
	ReasonBioTooLong       = "Bio must be 80 characters or fewer"
	ReasonBadPetfinderLink = "Please enter a valid Petfinder.com link"
	ReasonBadLink          = "links must start with http:// or https://"
)

var usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// ValidateUsername rejects usernames outside 5-20 characters or containing
// anything beyond letters, digits, and underscores.
func ValidateUsername(s string) error {
	if len(s) < UsernameMinLen || len(s) > UsernameMaxLen || !usernameRe.MatchString(s) {
		return errs.Validation(ReasonBadUsername)
	}
	return nil
}

// ValidateBio rejects bios longer than 80 characters.
func ValidateBio(s string) error {
	if len(s) > BioMaxLen {
		return errs.Validation(ReasonBioTooLong)
	}
	return nil
}

// ValidatePetfinderLink requires the https scheme and the petfinder.com host
// somewhere in the link.
func ValidatePetfinderLink(s string) error {
	if !strings.HasPrefix(s, "https://") || !strings.Contains(s, "petfinder.com") {
		return errs.Validation(ReasonBadPetfinderLink)
	}
	return nil
}

// ValidateLink accepts empty links and the "not set" placeholder; anything
// else must carry an http or https scheme.
func ValidateLink(s string) error {
	if s == "" || s == DefaultPersonalLink {
		return nil
	}
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		return errs.Validation(ReasonBadLink)
	}
	return nil
}
