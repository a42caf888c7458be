package consumers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/netbill/kafkakit/box"
	"github.com/netbill/kafkakit/subscriber"
	"github.com/netbill/logium"
	"github.com/segmentio/kafka-go"
	"golang.org/x/sync/errgroup"

	"github.com/goaly/core/kafka/contracts"
	"github.com/goaly/core/post"
)

const (
	statusProcessed = "processed"
	statusFailed    = "failed"
)

type Inbox interface {
	CreateInboxEvent(
		ctx context.Context,
		message kafka.Message,
	) (box.InboxEvent, error)

	UpdateInboxEventStatus(
		ctx context.Context,
		id uuid.UUID,
		status string,
	) (box.InboxEvent, error)

	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type archive interface {
	InsertPending(ctx context.Context, p post.PendingPost) error
	SetStatus(ctx context.Context, id uuid.UUID, status string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Posts replicates the posts topic into the local posts table: submissions
// land as pending rows, moderation decisions update or remove them.
type Posts struct {
	log     logium.Logger
	inbox   Inbox
	archive archive
}

func NewPosts(log logium.Logger, inbox Inbox, archive archive) *Posts {
	return &Posts{
		log:     log,
		inbox:   inbox,
		archive: archive,
	}
}

func (c Posts) Run(ctx context.Context, g *errgroup.Group, group string, addr ...string) {
	c.log.Info("starting posts consumer", "addr", addr)

	g.Go(func() error {
		postsSub := subscriber.New(addr, contracts.PostsTopicV1, group)
		err := postsSub.Consume(ctx, func(m kafka.Message) (subscriber.HandlerFunc, bool) {
			et, ok := subscriber.Header(m, "event_type")
			if !ok {
				return nil, false
			}
			switch et {
			case contracts.PostSubmittedEvent:
				return c.PostSubmitted, true
			case contracts.PostApprovedEvent:
				return c.PostApproved, true
			case contracts.PostRejectedEvent:
				return c.PostRejected, true
			case contracts.PostDeletedEvent:
				return c.PostDeleted, true
			default:
				return nil, false
			}
		})
		if err != nil {
			c.log.Warnf("posts consumer stopped: %v", err)
		}
		return err
	})

	_ = g.Wait()
}

func (c Posts) PostSubmitted(ctx context.Context, event kafka.Message) error {
	return c.handle(ctx, event, c.applySubmitted)
}

func (c Posts) PostApproved(ctx context.Context, event kafka.Message) error {
	return c.handle(ctx, event, c.applyApproved)
}

func (c Posts) PostRejected(ctx context.Context, event kafka.Message) error {
	return c.handle(ctx, event, c.applyRejected)
}

func (c Posts) PostDeleted(ctx context.Context, event kafka.Message) error {
	return c.handle(ctx, event, c.applyDeleted)
}

func (c Posts) handle(
	ctx context.Context,
	event kafka.Message,
	apply func(ctx context.Context, m kafka.Message) error,
) error {
	return c.inbox.Transaction(ctx, func(ctx context.Context) error {
		eventInBox, err := c.inbox.CreateInboxEvent(ctx, event)
		if err != nil {
			c.log.Errorf("failed to upsert inbox event for key %s: %v", string(event.Key), err)
			return err
		}

		status := statusProcessed
		if err = apply(ctx, event); err != nil {
			c.log.Errorf("failed to apply event for key %s: %v", string(event.Key), err)
			status = statusFailed
		}

		if _, err = c.inbox.UpdateInboxEventStatus(ctx, eventInBox.ID, status); err != nil {
			c.log.Errorf(
				"failed to update inbox event status for key %s, id: %s, error: %v", eventInBox.Key, eventInBox.ID, err,
			)
		}

		return nil
	})
}

func (c Posts) applySubmitted(ctx context.Context, m kafka.Message) error {
	var payload contracts.PostSubmittedPayload
	if err := json.Unmarshal(m.Value, &payload); err != nil {
		return fmt.Errorf("decoding %s payload: %w", contracts.PostSubmittedEvent, err)
	}

	p := payload.Post
	return c.archive.InsertPending(ctx, post.PendingPost{
		ID:             p.ID,
		AccountID:      p.AccountID,
		Phrase:         p.Phrase,
		Category:       p.Category,
		Tags:           p.Tags,
		BurstAnimation: p.BurstAnimation,
		OnPostLink:     p.OnPostLink,
		Status:         p.Status,
		CreatedAt:      p.CreatedAt,
	})
}

func (c Posts) applyApproved(ctx context.Context, m kafka.Message) error {
	var payload contracts.PostApprovedPayload
	if err := json.Unmarshal(m.Value, &payload); err != nil {
		return fmt.Errorf("decoding %s payload: %w", contracts.PostApprovedEvent, err)
	}
	return c.archive.SetStatus(ctx, payload.PostID, post.StatusApproved)
}

func (c Posts) applyRejected(ctx context.Context, m kafka.Message) error {
	var payload contracts.PostRejectedPayload
	if err := json.Unmarshal(m.Value, &payload); err != nil {
		return fmt.Errorf("decoding %s payload: %w", contracts.PostRejectedEvent, err)
	}
	return c.archive.SetStatus(ctx, payload.PostID, post.StatusRejected)
}

func (c Posts) applyDeleted(ctx context.Context, m kafka.Message) error {
	var payload contracts.PostDeletedPayload
	if err := json.Unmarshal(m.Value, &payload); err != nil {
		return fmt.Errorf("decoding %s payload: %w", contracts.PostDeletedEvent, err)
	}
	return c.archive.Delete(ctx, payload.PostID)
}
