// Package profile holds the canonical profile state of a Goaly user and the
// pure rules that govern it: field validation, tier entitlements, and the
// animal-profile completion gate. Nothing here touches storage; the workflow
// package persists the results.
package profile

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	UsernameMinLen = 5
	UsernameMaxLen = 20
	BioMaxLen      = 80

	// Free accounts may change their username once per window.
	UsernameChangeWindow = 7 * 24 * time.Hour

	FreeMaxTags    = 2
	PremiumMaxTags = 6

	DefaultBio          = "Thanks for checking out my profile!"
	DefaultPersonalLink = "Link (Optional)"
)

// Tier is the entitlement level of an account.
type Tier string

const (
	TierFree    Tier = "free"
	TierPremium Tier = "premium"
)

// State is the serializable profile record of a single user. It is a value:
// every mutation goes through a pure function returning a new State. The JSON
// field names are the persisted document contract and must stay stable.
type State struct {
	UserID uuid.UUID `json:"userId"`

	Username          string     `json:"username"`
	UsernameChangedAt *time.Time `json:"usernameChangedAt,omitempty"`
	Bio               string     `json:"bio"`
	PersonalLink      string     `json:"personalLink"`
	OnPostLink        *string    `json:"onPostLink,omitempty"`

	AnimalPhoto    string `json:"animalPhoto,omitempty"`
	AnimalName     string `json:"animalName,omitempty"`
	AnimalLocation string `json:"animalLocation,omitempty"`
	PetfinderLink  string `json:"petfinderLink,omitempty"`

	IsPremium bool `json:"isPremium"`
	IsAdmin   bool `json:"isAdmin"`
	IsFrozen  bool `json:"isFrozen"`

	CreatedAt time.Time `json:"createdAt"`
}

// New returns the profile a fresh signup starts with: a generated username,
// the stock bio and link placeholder, free tier, no animal profile yet.
func New(userID uuid.UUID, now time.Time) State {
	return State{
		UserID:       userID,
		Username:     generateUsername(),
		Bio:          DefaultBio,
		PersonalLink: DefaultPersonalLink,
		CreatedAt:    now.UTC(),
	}
}

func generateUsername() string {
	seed := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "User" + seed[:8]
}

func (s State) Tier() Tier {
	if s.IsPremium {
		return TierPremium
	}
	return TierFree
}

// Sanitized returns the state as readers should see it: the on-post link is a
// premium perk, so it is cleared whenever the account is on the free tier.
func (s State) Sanitized() State {
	if !s.IsPremium {
		s.OnPostLink = nil
	}
	return s
}

// Edits carries a partial profile update. Nil fields are left untouched.
type Edits struct {
	Username     *string
	Bio          *string
	PersonalLink *string
	OnPostLink   *string
}
