package repo

import (
	"context"
	"fmt"

	"github.com/goaly/core/repo/pgdb"
)

// Settings exposes the admin switches. A switch with no row yet counts as
// enabled.
type Settings struct {
	svc Service
}

func NewSettings(svc Service) Settings {
	return Settings{svc: svc}
}

func (s Settings) SignupsEnabled(ctx context.Context) (bool, error) {
	return s.enabled(ctx, pgdb.SettingSignupsEnabled)
}

func (s Settings) PostingEnabled(ctx context.Context) (bool, error) {
	return s.enabled(ctx, pgdb.SettingPostsEnabled)
}

func (s Settings) SetSignupsEnabled(ctx context.Context, enabled bool) error {
	return s.set(ctx, pgdb.SettingSignupsEnabled, enabled)
}

func (s Settings) SetPostingEnabled(ctx context.Context, enabled bool) error {
	return s.set(ctx, pgdb.SettingPostsEnabled, enabled)
}

func (s Settings) enabled(ctx context.Context, key string) (bool, error) {
	setting, err := s.svc.SettingsQ(ctx).FilterByKey(key).Get(ctx)
	if err != nil {
		return false, fmt.Errorf("reading setting %s: %w", key, err)
	}
	if setting.Key == "" {
		return true, nil
	}
	return setting.Enabled, nil
}

func (s Settings) set(ctx context.Context, key string, enabled bool) error {
	if _, err := s.svc.SettingsQ(ctx).Upsert(ctx, key, enabled); err != nil {
		return fmt.Errorf("writing setting %s: %w", key, err)
	}
	return nil
}
