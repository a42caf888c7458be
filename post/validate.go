package post

import (
	"strings"

	"github.com/goaly/core/errs"
	"github.com/goaly/core/profile"
)

const (
	ReasonBadPhrase        = "phrase must be 1-101 characters"
	ReasonUnknownCategory  = "unknown category"
	ReasonUnknownAnimation = "unknown burst animation"
	ReasonTagLimitExceeded = "tag limit exceeded"
	ReasonEmptyTag         = "tags cannot be empty"
)

// ValidateDraft checks the draft against the account's tier. Checks run in a
// fixed order and the first failing reason is returned; this is single-shot
// form validation, not an error aggregator.
func ValidateDraft(d Draft, s profile.State) error {
	phrase := strings.TrimSpace(d.Phrase)
	if phrase == "" || len(d.Phrase) > PhraseMaxLen {
		return errs.Validation(ReasonBadPhrase)
	}
	if !validCategory(d.Category) {
		return errs.Validation(ReasonUnknownCategory)
	}
	if !validBurstAnimation(d.BurstAnimation) {
		return errs.Validation(ReasonUnknownAnimation)
	}
	if len(d.Tags) > profile.MaxTagCount(s) {
		return errs.Validation(ReasonTagLimitExceeded)
	}
	for _, tag := range d.Tags {
		if strings.TrimSpace(tag) == "" {
			return errs.Validation(ReasonEmptyTag)
		}
	}
	return nil
}
