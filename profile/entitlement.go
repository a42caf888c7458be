package profile

import "time"

// AnimalProfileComplete reports whether the rescue-animal half of the profile
// exists: photo, name, location, and Petfinder link all present. Personal
// profile editing and posting are both gated on this.
func AnimalProfileComplete(s State) bool {
	return s.AnimalPhoto != "" &&
		s.AnimalName != "" &&
		s.AnimalLocation != "" &&
		s.PetfinderLink != ""
}

// CanEditPersonalFields reports whether bio, personal link, and on-post link
// may be changed.
func CanEditPersonalFields(s State) bool {
	return AnimalProfileComplete(s)
}

// CanChangeUsername applies the free-tier cooldown: premium accounts change
// anytime, free accounts once every seven days. A profile that never changed
// its username may always change it.
func CanChangeUsername(s State, now time.Time) bool {
	if s.IsPremium || s.UsernameChangedAt == nil {
		return true
	}
	return now.Sub(*s.UsernameChangedAt) >= UsernameChangeWindow
}

// MaxTagCount is the per-post tag allowance for the account's tier.
func MaxTagCount(s State) int {
	if s.IsPremium {
		return PremiumMaxTags
	}
	return FreeMaxTags
}

// CanSetOnPostLink reports whether the account may attach a link to its posts.
func CanSetOnPostLink(s State) bool {
	return s.IsPremium
}

// CanSubmitPost reports whether the account may submit posts at all. Posting
// is blocked until the animal profile exists, independent of tier.
func CanSubmitPost(s State) bool {
	return AnimalProfileComplete(s)
}
