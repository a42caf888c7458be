package pgdb

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/netbill/pgx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (pgx.DBTX, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return pgx.Exec(db, context.Background()), mock
}

func TestProfilesQGet(t *testing.T) {
	db, mock := newMock(t)

	id := uuid.New()
	now := time.Now().UTC()

	rows := sqlmock.NewRows(strings.Split(ProfileColumns, ", ")).AddRow(
		id.String(), "pet_lover", "hi", "Link (Optional)", nil,
		"photos/rex.jpg", "Rex", "Austin, TX", "https://www.petfinder.com/dog/rex",
		false, false, false, nil, now, now,
	)
	mock.ExpectQuery(`SELECT .+ FROM profiles p WHERE p\.account_id = \$1 LIMIT 1`).
		WithArgs(id).
		WillReturnRows(rows)

	p, err := NewProfilesQ(db).FilterByAccountID(id).Get(context.Background())
	require.NoError(t, err)

	assert.Equal(t, id, p.AccountID)
	assert.Equal(t, "pet_lover", p.Username)
	assert.Equal(t, "Rex", p.AnimalName)
	assert.Nil(t, p.OnPostLink)
	assert.Nil(t, p.UsernameChangedAt)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfilesQGetMissing(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(`SELECT .+ FROM profiles p WHERE p\.account_id = \$1 LIMIT 1`).
		WillReturnError(sql.ErrNoRows)

	p, err := NewProfilesQ(db).FilterByAccountID(uuid.New()).Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Profile{}, p)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfilesQCount(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM profiles p WHERE p\.username = \$1`).
		WithArgs("pet_lover").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	count, err := NewProfilesQ(db).FilterByUsername("pet_lover").Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint(1), count)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBlocklistQMatchPhrase(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("you should give up").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	blocked, err := NewBlocklistQ(db).MatchPhrase(context.Background(), "you should give up")
	require.NoError(t, err)
	assert.True(t, blocked)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsQGetMissing(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(`SELECT .+ FROM app_settings s WHERE s\.key = \$1 LIMIT 1`).
		WithArgs(SettingSignupsEnabled).
		WillReturnError(sql.ErrNoRows)

	s, err := NewSettingsQ(db).FilterByKey(SettingSignupsEnabled).Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Setting{}, s)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsQUpsert(t *testing.T) {
	db, mock := newMock(t)

	now := time.Now().UTC()
	mock.ExpectQuery(`INSERT INTO app_settings`).
		WithArgs(false, SettingPostsEnabled).
		WillReturnRows(sqlmock.NewRows(strings.Split(SettingColumns, ", ")).
			AddRow(SettingPostsEnabled, false, now))

	s, err := NewSettingsQ(db).Upsert(context.Background(), SettingPostsEnabled, false)
	require.NoError(t, err)
	assert.Equal(t, SettingPostsEnabled, s.Key)
	assert.False(t, s.Enabled)

	assert.NoError(t, mock.ExpectationsWereMet())
}
