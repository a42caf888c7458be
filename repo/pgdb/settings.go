package pgdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/netbill/pgx"
)

const SettingTable = "app_settings"

const SettingColumns = "key, enabled, updated_at"
const SettingColumnsS = "s.key, s.enabled, s.updated_at"

// Admin switch keys.
const (
	SettingSignupsEnabled = "signups_enabled"
	SettingPostsEnabled   = "posts_enabled"
)

type Setting struct {
	Key     string `json:"key"`
	Enabled bool   `json:"enabled"`

	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Setting) scan(row sq.RowScanner) error {
	err := row.Scan(
		&s.Key,
		&s.Enabled,
		&s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("scanning setting: %w", err)
	}
	return nil
}

type SettingsQ struct {
	db       pgx.DBTX
	selector sq.SelectBuilder
	inserter sq.InsertBuilder
	deleter  sq.DeleteBuilder
}

func NewSettingsQ(db pgx.DBTX) SettingsQ {
	builder := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	return SettingsQ{
		db:       db,
		selector: builder.Select(SettingColumnsS).From(SettingTable + " s"),
		inserter: builder.Insert(SettingTable),
		deleter:  builder.Delete(SettingTable + " s"),
	}
}

func (q SettingsQ) Upsert(ctx context.Context, key string, enabled bool) (Setting, error) {
	query, args, err := q.inserter.
		SetMap(map[string]interface{}{
			"key":     key,
			"enabled": enabled,
		}).
		Suffix(`
			ON CONFLICT (key) DO UPDATE SET
				enabled    = EXCLUDED.enabled,
				updated_at = (now() at time zone 'utc')
			RETURNING ` + SettingColumns,
		).
		ToSql()
	if err != nil {
		return Setting{}, fmt.Errorf("building upsert query for %s: %w", SettingTable, err)
	}

	var result Setting
	if err = result.scan(q.db.QueryRowContext(ctx, query, args...)); err != nil {
		return Setting{}, err
	}
	return result, nil
}

// Get returns the setting for the filtered key. A missing row comes back as
// the zero Setting; callers treat absent switches as enabled.
func (q SettingsQ) Get(ctx context.Context) (Setting, error) {
	query, args, err := q.selector.Limit(1).ToSql()
	if err != nil {
		return Setting{}, fmt.Errorf("building select query for %s: %w", SettingTable, err)
	}

	var s Setting
	if err = s.scan(q.db.QueryRowContext(ctx, query, args...)); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return Setting{}, nil
		default:
			return Setting{}, err
		}
	}
	return s, nil
}

func (q SettingsQ) Select(ctx context.Context) ([]Setting, error) {
	query, args, err := q.selector.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select query for %s: %w", SettingTable, err)
	}

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("executing select query for %s: %w", SettingTable, err)
	}
	defer rows.Close()

	var out []Setting
	for rows.Next() {
		var s Setting
		if err = s.scan(rows); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

func (q SettingsQ) Delete(ctx context.Context) error {
	query, args, err := q.deleter.ToSql()
	if err != nil {
		return fmt.Errorf("building delete query for %s: %w", SettingTable, err)
	}

	_, err = q.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("executing delete query for %s: %w", SettingTable, err)
	}

	return nil
}

func (q SettingsQ) FilterByKey(key string) SettingsQ {
	q.selector = q.selector.Where(sq.Eq{"s.key": key})
	q.deleter = q.deleter.Where(sq.Eq{"s.key": key})
	return q
}
