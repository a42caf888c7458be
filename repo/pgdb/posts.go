package pgdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/netbill/pgx"
)

const PostTable = "posts"

const PostColumns = "id, account_id, phrase, category, tags, burst_animation, on_post_link, status, created_at, updated_at"
const PostColumnsT = "t.id, t.account_id, t.phrase, t.category, t.tags, t.burst_animation, t.on_post_link, t.status, t.created_at, t.updated_at"

type Post struct {
	ID             uuid.UUID `json:"id"`
	AccountID      uuid.UUID `json:"account_id"`
	Phrase         string    `json:"phrase"`
	Category       string    `json:"category"`
	Tags           []string  `json:"tags"`
	BurstAnimation string    `json:"burst_animation"`
	OnPostLink     *string   `json:"on_post_link,omitempty"`
	Status         string    `json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Post) scan(row sq.RowScanner) error {
	err := row.Scan(
		&p.ID,
		&p.AccountID,
		&p.Phrase,
		&p.Category,
		pq.Array(&p.Tags),
		&p.BurstAnimation,
		&p.OnPostLink,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("scanning post: %w", err)
	}
	return nil
}

type PostsQ struct {
	db       pgx.DBTX
	selector sq.SelectBuilder
	inserter sq.InsertBuilder
	updater  sq.UpdateBuilder
	deleter  sq.DeleteBuilder
	counter  sq.SelectBuilder
}

func NewPostsQ(db pgx.DBTX) PostsQ {
	builder := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	return PostsQ{
		db:       db,
		selector: builder.Select(PostColumnsT).From(PostTable + " t"),
		inserter: builder.Insert(PostTable),
		updater:  builder.Update(PostTable + " t"),
		deleter:  builder.Delete(PostTable + " t"),
		counter:  builder.Select("COUNT(*)").From(PostTable + " t"),
	}
}

type PostUpsertInput struct {
	ID             uuid.UUID
	AccountID      uuid.UUID
	Phrase         string
	Category       string
	Tags           []string
	BurstAnimation string
	OnPostLink     *string
	Status         string
	CreatedAt      time.Time
}

func (q PostsQ) Upsert(ctx context.Context, data PostUpsertInput) (Post, error) {
	query, args, err := q.inserter.
		SetMap(map[string]interface{}{
			"id":              data.ID,
			"account_id":      data.AccountID,
			"phrase":          data.Phrase,
			"category":        data.Category,
			"tags":            pq.Array(data.Tags),
			"burst_animation": data.BurstAnimation,
			"on_post_link":    data.OnPostLink,
			"status":          data.Status,
			"created_at":      data.CreatedAt,
		}).
		Suffix(`
			ON CONFLICT (id) DO UPDATE SET
				phrase          = EXCLUDED.phrase,
				category        = EXCLUDED.category,
				tags            = EXCLUDED.tags,
				burst_animation = EXCLUDED.burst_animation,
				on_post_link    = EXCLUDED.on_post_link,
				status          = EXCLUDED.status,
				updated_at      = (now() at time zone 'utc')
			RETURNING ` + PostColumns,
		).
		ToSql()

	if err != nil {
		return Post{}, fmt.Errorf("building upsert query for %s: %w", PostTable, err)
	}

	var result Post
	if err = result.scan(q.db.QueryRowContext(ctx, query, args...)); err != nil {
		return Post{}, err
	}

	return result, nil
}

func (q PostsQ) Get(ctx context.Context) (Post, error) {
	query, args, err := q.selector.Limit(1).ToSql()
	if err != nil {
		return Post{}, fmt.Errorf("building select query for %s: %w", PostTable, err)
	}

	var p Post
	if err = p.scan(q.db.QueryRowContext(ctx, query, args...)); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return Post{}, nil
		default:
			return Post{}, err
		}
	}
	return p, nil
}

func (q PostsQ) Select(ctx context.Context) ([]Post, error) {
	query, args, err := q.selector.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select query for %s: %w", PostTable, err)
	}

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("executing select query for %s: %w", PostTable, err)
	}
	defer rows.Close()

	var out []Post
	for rows.Next() {
		var p Post
		if err = p.scan(rows); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

func (q PostsQ) Delete(ctx context.Context) error {
	query, args, err := q.deleter.ToSql()
	if err != nil {
		return fmt.Errorf("building delete query for %s: %w", PostTable, err)
	}

	_, err = q.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("executing delete query for %s: %w", PostTable, err)
	}

	return nil
}

func (q PostsQ) Count(ctx context.Context) (uint, error) {
	query, args, err := q.counter.ToSql()
	if err != nil {
		return 0, fmt.Errorf("building count query for %s: %w", PostTable, err)
	}

	var count uint
	if err = q.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("scanning count for %s: %w", PostTable, err)
	}

	return count, nil
}

func (q PostsQ) UpdateOne(ctx context.Context) (Post, error) {
	q.updater = q.updater.Set("updated_at", time.Now().UTC())

	query, args, err := q.updater.Suffix("RETURNING " + PostColumns).ToSql()
	if err != nil {
		return Post{}, fmt.Errorf("building update query for %s: %w", PostTable, err)
	}

	var updated Post
	if err = updated.scan(q.db.QueryRowContext(ctx, query, args...)); err != nil {
		return Post{}, err
	}
	return updated, nil
}

func (q PostsQ) UpdateStatus(status string) PostsQ {
	q.updater = q.updater.Set("status", status)
	return q
}

func (q PostsQ) FilterByID(id uuid.UUID) PostsQ {
	q.selector = q.selector.Where(sq.Eq{"t.id": id})
	q.counter = q.counter.Where(sq.Eq{"t.id": id})
	q.updater = q.updater.Where(sq.Eq{"t.id": id})
	q.deleter = q.deleter.Where(sq.Eq{"t.id": id})
	return q
}

func (q PostsQ) FilterByAccountID(accountID uuid.UUID) PostsQ {
	q.selector = q.selector.Where(sq.Eq{"t.account_id": accountID})
	q.counter = q.counter.Where(sq.Eq{"t.account_id": accountID})
	q.updater = q.updater.Where(sq.Eq{"t.account_id": accountID})
	q.deleter = q.deleter.Where(sq.Eq{"t.account_id": accountID})
	return q
}

func (q PostsQ) FilterByStatus(status string) PostsQ {
	q.selector = q.selector.Where(sq.Eq{"t.status": status})
	q.counter = q.counter.Where(sq.Eq{"t.status": status})
	q.updater = q.updater.Where(sq.Eq{"t.status": status})
	q.deleter = q.deleter.Where(sq.Eq{"t.status": status})
	return q
}

func (q PostsQ) FilterByCategory(category string) PostsQ {
	q.selector = q.selector.Where(sq.Eq{"t.category": category})
	q.counter = q.counter.Where(sq.Eq{"t.category": category})
	q.updater = q.updater.Where(sq.Eq{"t.category": category})
	q.deleter = q.deleter.Where(sq.Eq{"t.category": category})
	return q
}

func (q PostsQ) FilterByTag(tag string) PostsQ {
	expr := sq.Expr("? = ANY(t.tags)", tag)
	q.selector = q.selector.Where(expr)
	q.counter = q.counter.Where(expr)
	q.updater = q.updater.Where(expr)
	q.deleter = q.deleter.Where(expr)
	return q
}

func (q PostsQ) CursorCreatedAt(limit uint, asc bool, createdAt time.Time, id uuid.UUID) PostsQ {
	if asc {
		q.selector = q.selector.OrderBy("t.created_at ASC", "t.id ASC")
	} else {
		q.selector = q.selector.OrderBy("t.created_at DESC", "t.id DESC")
	}

	q.selector = q.selector.Limit(uint64(limit))

	if asc {
		q.selector = q.selector.Where(sq.Expr("(t.created_at, t.id) > (?, ?)", createdAt, id))
	} else {
		q.selector = q.selector.Where(sq.Expr("(t.created_at, t.id) < (?, ?)", createdAt, id))
	}

	return q
}
