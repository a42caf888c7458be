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

const BlocklistTable = "blocklist_entries"

const BlocklistColumns = "kind, value, created_at"
const BlocklistColumnsB = "b.kind, b.value, b.created_at"

type BlocklistEntry struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`

	CreatedAt time.Time `json:"created_at"`
}

func (e *BlocklistEntry) scan(row sq.RowScanner) error {
	err := row.Scan(
		&e.Kind,
		&e.Value,
		&e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("scanning blocklist entry: %w", err)
	}
	return nil
}

type BlocklistQ struct {
	db       pgx.DBTX
	selector sq.SelectBuilder
	inserter sq.InsertBuilder
	deleter  sq.DeleteBuilder
	counter  sq.SelectBuilder
}

func NewBlocklistQ(db pgx.DBTX) BlocklistQ {
	builder := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	return BlocklistQ{
		db:       db,
		selector: builder.Select(BlocklistColumnsB).From(BlocklistTable + " b"),
		inserter: builder.Insert(BlocklistTable),
		deleter:  builder.Delete(BlocklistTable + " b"),
		counter:  builder.Select("COUNT(*)").From(BlocklistTable + " b"),
	}
}

func (q BlocklistQ) Insert(ctx context.Context, kind, value string) (BlocklistEntry, error) {
	query, args, err := q.inserter.
		SetMap(map[string]interface{}{
			"kind":  kind,
			"value": value,
		}).
		Suffix(`
			ON CONFLICT (kind, value) DO UPDATE SET
				value = EXCLUDED.value
			RETURNING ` + BlocklistColumns,
		).
		ToSql()
	if err != nil {
		return BlocklistEntry{}, fmt.Errorf("building insert query for %s: %w", BlocklistTable, err)
	}

	var inserted BlocklistEntry
	if err = inserted.scan(q.db.QueryRowContext(ctx, query, args...)); err != nil {
		return BlocklistEntry{}, err
	}
	return inserted, nil
}

func (q BlocklistQ) Get(ctx context.Context) (BlocklistEntry, error) {
	query, args, err := q.selector.Limit(1).ToSql()
	if err != nil {
		return BlocklistEntry{}, fmt.Errorf("building select query for %s: %w", BlocklistTable, err)
	}

	var e BlocklistEntry
	if err = e.scan(q.db.QueryRowContext(ctx, query, args...)); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return BlocklistEntry{}, nil
		default:
			return BlocklistEntry{}, err
		}
	}
	return e, nil
}

func (q BlocklistQ) Select(ctx context.Context) ([]BlocklistEntry, error) {
	query, args, err := q.selector.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select query for %s: %w", BlocklistTable, err)
	}

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("executing select query for %s: %w", BlocklistTable, err)
	}
	defer rows.Close()

	var out []BlocklistEntry
	for rows.Next() {
		var e BlocklistEntry
		if err = e.scan(rows); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

func (q BlocklistQ) Delete(ctx context.Context) error {
	query, args, err := q.deleter.ToSql()
	if err != nil {
		return fmt.Errorf("building delete query for %s: %w", BlocklistTable, err)
	}

	_, err = q.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("executing delete query for %s: %w", BlocklistTable, err)
	}

	return nil
}

func (q BlocklistQ) Count(ctx context.Context) (uint, error) {
	query, args, err := q.counter.ToSql()
	if err != nil {
		return 0, fmt.Errorf("building count query for %s: %w", BlocklistTable, err)
	}

	var count uint
	if err = q.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("scanning count for %s: %w", BlocklistTable, err)
	}

	return count, nil
}

func (q BlocklistQ) FilterByKind(kind string) BlocklistQ {
	q.selector = q.selector.Where(sq.Eq{"b.kind": kind})
	q.counter = q.counter.Where(sq.Eq{"b.kind": kind})
	q.deleter = q.deleter.Where(sq.Eq{"b.kind": kind})
	return q
}

func (q BlocklistQ) FilterByValue(value string) BlocklistQ {
	q.selector = q.selector.Where(sq.ILike{"b.value": value})
	q.counter = q.counter.Where(sq.ILike{"b.value": value})
	q.deleter = q.deleter.Where(sq.ILike{"b.value": value})
	return q
}

// MatchPhrase reports whether any blocked phrase occurs inside the given
// phrase, case-insensitively.
func (q BlocklistQ) MatchPhrase(ctx context.Context, phrase string) (bool, error) {
	const sqlq = `
		SELECT EXISTS (
			SELECT 1 FROM blocklist_entries
			WHERE kind = 'phrase'
			  AND $1 ILIKE '%' || value || '%'
		)
	`

	var blocked bool
	if err := q.db.QueryRowContext(ctx, sqlq, phrase).Scan(&blocked); err != nil {
		return false, fmt.Errorf("matching blocked phrases: %w", err)
	}

	return blocked, nil
}
