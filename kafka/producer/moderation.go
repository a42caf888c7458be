// Package producer publishes submitted posts onto the posts topic, which is
// the hand-off point to the moderation service.
package producer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/netbill/logium"
	"github.com/segmentio/kafka-go"

	"github.com/goaly/core/kafka/contracts"
	"github.com/goaly/core/post"
)

type ModerationQueue struct {
	log    logium.Logger
	writer *kafka.Writer
}

func NewModerationQueue(log logium.Logger, addr ...string) *ModerationQueue {
	return &ModerationQueue{
		log: log,
		writer: &kafka.Writer{
			Addr:     kafka.TCP(addr...),
			Topic:    contracts.PostsTopicV1,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

// Enqueue publishes the pending post as a post.submitted event, keyed by the
// post id.
func (q *ModerationQueue) Enqueue(ctx context.Context, p post.PendingPost) error {
	var payload contracts.PostSubmittedPayload
	payload.Post.ID = p.ID
	payload.Post.AccountID = p.AccountID
	payload.Post.Phrase = p.Phrase
	payload.Post.Category = p.Category
	payload.Post.Tags = p.Tags
	payload.Post.BurstAnimation = p.BurstAnimation
	payload.Post.OnPostLink = p.OnPostLink
	payload.Post.Status = p.Status
	payload.Post.CreatedAt = p.CreatedAt

	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling %s payload: %w", contracts.PostSubmittedEvent, err)
	}

	msg := kafka.Message{
		Key:   []byte(p.ID.String()),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(contracts.PostSubmittedEvent)},
		},
	}

	if err = q.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("writing %s event: %w", contracts.PostSubmittedEvent, err)
	}

	q.log.Info("post handed to moderation", "post_id", p.ID)
	return nil
}

func (q *ModerationQueue) Close() error {
	return q.writer.Close()
}
