package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/goaly/core/post"
	"github.com/goaly/core/repo/pgdb"
)

// PostArchive maintains the local replica of submitted posts. The rows are
// written from the posts event stream, never from the composer directly.
type PostArchive struct {
	svc Service
}

func NewPostArchive(svc Service) PostArchive {
	return PostArchive{svc: svc}
}

func (a PostArchive) InsertPending(ctx context.Context, p post.PendingPost) error {
	_, err := a.svc.PostsQ(ctx).Upsert(ctx, pgdb.PostUpsertInput{
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
	if err != nil {
		return fmt.Errorf("inserting pending post %s: %w", p.ID, err)
	}
	return nil
}

func (a PostArchive) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := a.svc.PostsQ(ctx).FilterByID(id).UpdateStatus(status).UpdateOne(ctx)
	if err != nil {
		return fmt.Errorf("updating post %s status: %w", id, err)
	}
	return nil
}

func (a PostArchive) Delete(ctx context.Context, id uuid.UUID) error {
	if err := a.svc.PostsQ(ctx).FilterByID(id).Delete(ctx); err != nil {
		return fmt.Errorf("deleting post %s: %w", id, err)
	}
	return nil
}
