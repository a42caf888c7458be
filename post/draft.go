// Package post models affirmation/goal posts: the draft a user composes, its
// validation against the account's tier, and the pending post handed to
// moderation on submit.
package post

import (
	"errors"
	"strings"

	"github.com/goaly/core/profile"
)

const PhraseMaxLen = 101

// Categories is the closed category set. The order is the display order.
var Categories = []string{
	"Love",
	"Wealth",
	"Health",
	"Learn",
	"Speech",
	"Luck",
	"Humor",
	"Other",
}

// BurstAnimations is the closed set of burst-animation ids; the first member
// is the default for new drafts.
var BurstAnimations = []string{
	"heart",
	"money",
	"person",
	"stars",
	"clover",
}

var ErrIndexOutOfRange = errors.New("tag index out of range")

// Draft is the post being composed. It is a value: AddTag and RemoveTag
// return a new draft and never share the tags slice with the input.
type Draft struct {
	Phrase         string   `json:"phrase"`
	Category       string   `json:"category"`
	Tags           []string `json:"tags"`
	BurstAnimation string   `json:"burstAnimation"`
}

// NewDraft returns the empty draft a composer starts from.
func NewDraft() Draft {
	return Draft{BurstAnimation: BurstAnimations[0]}
}

// AddTag trims raw and appends it, preserving insertion order. It is a no-op
// when the trimmed tag is empty or the tier's tag allowance is already used.
func AddTag(d Draft, raw string, s profile.State) Draft {
	tag := strings.TrimSpace(raw)
	if tag == "" || len(d.Tags) >= profile.MaxTagCount(s) {
		return d
	}
	tags := make([]string, 0, len(d.Tags)+1)
	tags = append(tags, d.Tags...)
	d.Tags = append(tags, tag)
	return d
}

// RemoveTag removes the tag at index. Indices must come from iterating the
// current draft; anything else fails.
func RemoveTag(d Draft, index int) (Draft, error) {
	if index < 0 || index >= len(d.Tags) {
		return d, ErrIndexOutOfRange
	}
	tags := make([]string, 0, len(d.Tags)-1)
	tags = append(tags, d.Tags[:index]...)
	tags = append(tags, d.Tags[index+1:]...)
	d.Tags = tags
	return d, nil
}

func validCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

func validBurstAnimation(id string) bool {
	for _, known := range BurstAnimations {
		if id == known {
			return true
		}
	}
	return false
}
