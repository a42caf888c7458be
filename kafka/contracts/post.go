package contracts

import (
	"time"

	"github.com/google/uuid"
)

const PostSubmittedEvent = "post.submitted"

type PostSubmittedPayload struct {
	Post struct {
		ID             uuid.UUID `json:"id"`
		AccountID      uuid.UUID `json:"account_id"`
		Phrase         string    `json:"phrase"`
		Category       string    `json:"category"`
		Tags           []string  `json:"tags"`
		BurstAnimation string    `json:"burst_animation"`
		OnPostLink     *string   `json:"on_post_link,omitempty"`
		Status         string    `json:"status"`
		CreatedAt      time.Time `json:"created_at"`
	} `json:"post"`
}

const PostApprovedEvent = "post.approved"

type PostApprovedPayload struct {
	PostID uuid.UUID `json:"post_id"`
}

const PostRejectedEvent = "post.rejected"

type PostRejectedPayload struct {
	PostID uuid.UUID `json:"post_id"`
	Reason string    `json:"reason,omitempty"`
}

const PostDeletedEvent = "post.deleted"

type PostDeletedPayload struct {
	PostID uuid.UUID `json:"post_id"`
}
