package repo

import (
	"context"
	"fmt"
)

const (
	blockKindUsername = "username"
)

// Blocklist answers moderation blocklist lookups. Username matches are
// case-insensitive exact matches; phrase matches are case-insensitive
// substring matches.
type Blocklist struct {
	svc Service
}

func NewBlocklist(svc Service) Blocklist {
	return Blocklist{svc: svc}
}

func (b Blocklist) UsernameBlocked(ctx context.Context, username string) (bool, error) {
	count, err := b.svc.BlocklistQ(ctx).
		FilterByKind(blockKindUsername).
		FilterByValue(username).
		Count(ctx)
	if err != nil {
		return false, fmt.Errorf("checking blocked usernames: %w", err)
	}
	return count > 0, nil
}

func (b Blocklist) PhraseBlocked(ctx context.Context, phrase string) (bool, error) {
	return b.svc.BlocklistQ(ctx).MatchPhrase(ctx, phrase)
}

func (b Blocklist) Add(ctx context.Context, kind, value string) error {
	if _, err := b.svc.BlocklistQ(ctx).Insert(ctx, kind, value); err != nil {
		return fmt.Errorf("adding blocklist entry: %w", err)
	}
	return nil
}

func (b Blocklist) Remove(ctx context.Context, kind, value string) error {
	if err := b.svc.BlocklistQ(ctx).FilterByKind(kind).FilterByValue(value).Delete(ctx); err != nil {
		return fmt.Errorf("removing blocklist entry: %w", err)
	}
	return nil
}
