package repo

import (
	"context"
	"database/sql"

	"github.com/netbill/pgx"

	"github.com/goaly/core/repo/pgdb"
)

type Service struct {
	db *sql.DB
}

func New(db *sql.DB) Service {
	return Service{db: db}
}

func (s Service) ProfilesQ(ctx context.Context) pgdb.ProfilesQ {
	return pgdb.NewProfilesQ(pgx.Exec(s.db, ctx))
}

func (s Service) PostsQ(ctx context.Context) pgdb.PostsQ {
	return pgdb.NewPostsQ(pgx.Exec(s.db, ctx))
}

func (s Service) BlocklistQ(ctx context.Context) pgdb.BlocklistQ {
	return pgdb.NewBlocklistQ(pgx.Exec(s.db, ctx))
}

func (s Service) SettingsQ(ctx context.Context) pgdb.SettingsQ {
	return pgdb.NewSettingsQ(pgx.Exec(s.db, ctx))
}

func (s Service) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return pgx.Transaction(s.db, ctx, fn)
}
