package profile

import (
	"time"

	"github.com/goaly/core/errs"
)

const (
	ReasonAnimalProfileRequired = "animal profile required"
	ReasonAnimalPhotoRequired   = "animal photo required"
	ReasonAnimalDetailsRequired = "animal name and location required"
	ReasonUsernameCooldown      = "username can only be changed once every 7 days"
)

// ApplyAnimalProfile populates the four animal fields, completing the animal
// profile. The state is returned unchanged on the first violated rule.
func ApplyAnimalProfile(s State, photoRef, name, location, link string) (State, error) {
	if photoRef == "" {
		return s, errs.Validation(ReasonAnimalPhotoRequired)
	}
	if name == "" || location == "" {
		return s, errs.Validation(ReasonAnimalDetailsRequired)
	}
	if err := ValidatePetfinderLink(link); err != nil {
		return s, err
	}

	s.AnimalPhoto = photoRef
	s.AnimalName = name
	s.AnimalLocation = location
	s.PetfinderLink = link
	return s, nil
}

// ApplyEdits applies a partial personal-profile update. Personal fields are
// locked until the animal profile is complete. The username cooldown is
// consulted only when the username actually changes, and UsernameChangedAt
// advances only in that case, so replaying identical edits is idempotent.
// An on-post link from a free-tier account is dropped, not rejected.
func ApplyEdits(s State, e Edits, now time.Time) (State, error) {
	if !CanEditPersonalFields(s) {
		return s, errs.Entitlement(ReasonAnimalProfileRequired)
	}

	changingUsername := e.Username != nil && *e.Username != s.Username
	if changingUsername {
		if !CanChangeUsername(s, now) {
			return s, errs.Entitlement(ReasonUsernameCooldown)
		}
		if err := ValidateUsername(*e.Username); err != nil {
			return s, err
		}
	}
	if e.Bio != nil {
		if err := ValidateBio(*e.Bio); err != nil {
			return s, err
		}
	}
	if e.PersonalLink != nil {
		if err := ValidateLink(*e.PersonalLink); err != nil {
			return s, err
		}
	}

	if changingUsername {
		s.Username = *e.Username
		at := now.UTC()
		s.UsernameChangedAt = &at
	}
	if e.Bio != nil {
		s.Bio = *e.Bio
	}
	if e.PersonalLink != nil {
		s.PersonalLink = *e.PersonalLink
	}
	if e.OnPostLink != nil && CanSetOnPostLink(s) {
		link := *e.OnPostLink
		s.OnPostLink = &link
	}

	return s, nil
}
