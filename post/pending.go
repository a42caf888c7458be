package post

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goaly/core/profile"
)

// Moderation status of a submitted post. Every post enters the queue pending;
// the moderation service owns it from there.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// PendingPost is the immutable snapshot handed to the moderation queue.
type PendingPost struct {
	ID             uuid.UUID `json:"id"`
	AccountID      uuid.UUID `json:"account_id"`
	Phrase         string    `json:"phrase"`
	Category       string    `json:"category"`
	Tags           []string  `json:"tags"`
	BurstAnimation string    `json:"burstAnimation"`
	OnPostLink     *string   `json:"onPostLink,omitempty"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
}

// BuildPending turns a validated draft into a pending post. The on-post link
// is copied from the profile, which already strips it for free accounts.
func BuildPending(d Draft, s profile.State, now time.Time) PendingPost {
	tags := make([]string, len(d.Tags))
	copy(tags, d.Tags)

	var link *string
	if onPost := s.Sanitized().OnPostLink; onPost != nil {
		l := *onPost
		link = &l
	}

	return PendingPost{
		ID:             uuid.New(),
		AccountID:      s.UserID,
		Phrase:         strings.TrimSpace(d.Phrase),
		Category:       d.Category,
		Tags:           tags,
		BurstAnimation: d.BurstAnimation,
		OnPostLink:     link,
		Status:         StatusPending,
		CreatedAt:      now.UTC(),
	}
}
