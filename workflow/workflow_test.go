package workflow

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goaly/core/errs"
	"github.com/goaly/core/post"
	"github.com/goaly/core/profile"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})   {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}

type memStore struct {
	profiles map[uuid.UUID]profile.State
	saveErr  error
}

func newMemStore() *memStore {
	return &memStore{profiles: make(map[uuid.UUID]profile.State)}
}

func (m *memStore) Load(_ context.Context, userID uuid.UUID) (profile.State, error) {
	s, ok := m.profiles[userID]
	if !ok {
		return profile.State{}, errs.ErrNotFound
	}
	return s, nil
}

func (m *memStore) Save(_ context.Context, s profile.State) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.profiles[s.UserID] = s
	return nil
}

type memQueue struct {
	enqueued []post.PendingPost
	err      error
}

func (m *memQueue) Enqueue(_ context.Context, p post.PendingPost) error {
	if m.err != nil {
		return m.err
	}
	m.enqueued = append(m.enqueued, p)
	return nil
}

type memSettings struct {
	signups bool
	posting bool
}

func (m *memSettings) SignupsEnabled(context.Context) (bool, error) { return m.signups, nil }
func (m *memSettings) PostingEnabled(context.Context) (bool, error) { return m.posting, nil }

func (m *memSettings) SetSignupsEnabled(_ context.Context, enabled bool) error {
	m.signups = enabled
	return nil
}

func (m *memSettings) SetPostingEnabled(_ context.Context, enabled bool) error {
	m.posting = enabled
	return nil
}

type memBlocklist struct {
	entries map[string][]string
}

func newMemBlocklist() *memBlocklist {
	return &memBlocklist{entries: make(map[string][]string)}
}

func (m *memBlocklist) UsernameBlocked(_ context.Context, username string) (bool, error) {
	for _, v := range m.entries[BlockKindUsername] {
		if strings.EqualFold(v, username) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memBlocklist) PhraseBlocked(_ context.Context, phrase string) (bool, error) {
	lower := strings.ToLower(phrase)
	for _, v := range m.entries[BlockKindPhrase] {
		if strings.Contains(lower, strings.ToLower(v)) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memBlocklist) Add(_ context.Context, kind, value string) error {
	m.entries[kind] = append(m.entries[kind], value)
	return nil
}

func (m *memBlocklist) Remove(_ context.Context, kind, value string) error {
	kept := m.entries[kind][:0]
	for _, v := range m.entries[kind] {
		if v != value {
			kept = append(kept, v)
		}
	}
	m.entries[kind] = kept
	return nil
}

type fixture struct {
	svc       Service
	admin     Admin
	store     *memStore
	queue     *memQueue
	settings  *memSettings
	blocklist *memBlocklist
}

func newFixture() fixture {
	store := newMemStore()
	queue := &memQueue{}
	settings := &memSettings{signups: true, posting: true}
	blocklist := newMemBlocklist()

	return fixture{
		svc:       New(nopLogger{}, store, queue, settings, blocklist),
		admin:     NewAdmin(nopLogger{}, store, settings, blocklist),
		store:     store,
		queue:     queue,
		settings:  settings,
		blocklist: blocklist,
	}
}

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func strptr(s string) *string { return &s }

func (f fixture) registered(t *testing.T) profile.State {
	t.Helper()
	state, err := f.svc.Register(context.Background(), uuid.New(), testNow)
	require.NoError(t, err)
	return state
}

func (f fixture) animalComplete(t *testing.T) profile.State {
	t.Helper()
	state := f.registered(t)
	state, err := f.svc.SubmitAnimalProfile(
		context.Background(), state.UserID,
		"photos/rex.jpg", "Rex", "Austin, TX", "https://www.petfinder.com/dog/rex",
	)
	require.NoError(t, err)
	return state
}

func TestRegister(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	state := f.registered(t)
	assert.Equal(t, profile.DefaultBio, state.Bio)
	assert.False(t, state.IsPremium)

	stored, err := f.svc.Profile(ctx, state.UserID)
	require.NoError(t, err)
	assert.Equal(t, state.Username, stored.Username)
}

func TestRegisterSignupsPaused(t *testing.T) {
	f := newFixture()
	f.settings.signups = false

	_, err := f.svc.Register(context.Background(), uuid.New(), testNow)
	require.Error(t, err)
	assert.True(t, errs.IsEntitlement(err))
	assert.EqualError(t, err, ReasonSignupsPaused)
}

func TestProfileNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Profile(context.Background(), uuid.New())
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestProfileSanitizesOnPostLink(t *testing.T) {
	f := newFixture()
	state := f.registered(t)

	raw := f.store.profiles[state.UserID]
	raw.OnPostLink = strptr("https://bonus.example.com")
	f.store.profiles[state.UserID] = raw

	got, err := f.svc.Profile(context.Background(), state.UserID)
	require.NoError(t, err)
	assert.Nil(t, got.OnPostLink)
}

func TestEditBeforeAnimalProfile(t *testing.T) {
	f := newFixture()
	state := f.registered(t)

	_, err := f.svc.SubmitProfileEdits(
		context.Background(), state.UserID, profile.Edits{Bio: strptr("hi")}, testNow,
	)
	require.Error(t, err)
	assert.True(t, errs.IsEntitlement(err))
	assert.EqualError(t, err, profile.ReasonAnimalProfileRequired)
}

func TestAnimalProfileThenEdits(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	state := f.animalComplete(t)

	next, err := f.svc.SubmitProfileEdits(ctx, state.UserID, profile.Edits{Bio: strptr("hi")}, testNow)
	require.NoError(t, err)
	assert.Equal(t, "hi", next.Bio)

	stored, err := f.svc.Profile(ctx, state.UserID)
	require.NoError(t, err)
	assert.Equal(t, "hi", stored.Bio)
}

func TestAnimalProfileBadLinkLeavesStoreUntouched(t *testing.T) {
	f := newFixture()
	state := f.registered(t)
	before := f.store.profiles[state.UserID]

	_, err := f.svc.SubmitAnimalProfile(
		context.Background(), state.UserID,
		"photos/rex.jpg", "Rex", "Austin, TX", "http://petfinder.com/x",
	)
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
	assert.Equal(t, before, f.store.profiles[state.UserID])
}

func TestBlockedUsernameEdit(t *testing.T) {
	f := newFixture()
	state := f.animalComplete(t)
	require.NoError(t, f.blocklist.Add(context.Background(), BlockKindUsername, "forbidden_name"))

	_, err := f.svc.SubmitProfileEdits(
		context.Background(), state.UserID,
		profile.Edits{Username: strptr("forbidden_name")}, testNow,
	)
	require.Error(t, err)
	assert.EqualError(t, err, ReasonUsernameTaken)
}

func TestFrozenAccount(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	state := f.animalComplete(t)

	frozen := f.store.profiles[state.UserID]
	frozen.IsFrozen = true
	f.store.profiles[state.UserID] = frozen

	_, err := f.svc.SubmitProfileEdits(ctx, state.UserID, profile.Edits{Bio: strptr("hi")}, testNow)
	assert.EqualError(t, err, ReasonFrozen)

	draft := validDraft()
	_, _, err = f.svc.SubmitPost(ctx, state.UserID, draft, testNow)
	assert.EqualError(t, err, ReasonFrozen)
}

func validDraft() post.Draft {
	d := post.NewDraft()
	d.Phrase = "Never give up on your dreams"
	d.Category = "Luck"
	return d
}

func TestSubmitPost(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	state := f.animalComplete(t)

	draft := validDraft()
	draft.Tags = []string{"inspiration", "dreams"}

	pending, cleared, err := f.svc.SubmitPost(ctx, state.UserID, draft, testNow)
	require.NoError(t, err)

	assert.Equal(t, post.StatusPending, pending.Status)
	assert.Equal(t, state.UserID, pending.AccountID)
	assert.Equal(t, post.NewDraft(), cleared)

	require.Len(t, f.queue.enqueued, 1)
	assert.Equal(t, pending.ID, f.queue.enqueued[0].ID)
}

func TestSubmitPostBeforeAnimalProfile(t *testing.T) {
	f := newFixture()
	state := f.registered(t)

	_, returned, err := f.svc.SubmitPost(context.Background(), state.UserID, validDraft(), testNow)
	require.Error(t, err)
	assert.EqualError(t, err, profile.ReasonAnimalProfileRequired)
	assert.Equal(t, validDraft(), returned)
	assert.Empty(t, f.queue.enqueued)
}

func TestSubmitPostTagLimit(t *testing.T) {
	f := newFixture()
	state := f.animalComplete(t)

	draft := validDraft()
	draft.Tags = []string{"one", "two", "three"}

	_, _, err := f.svc.SubmitPost(context.Background(), state.UserID, draft, testNow)
	require.Error(t, err)
	assert.EqualError(t, err, post.ReasonTagLimitExceeded)

	draft.Tags = draft.Tags[:2]
	_, _, err = f.svc.SubmitPost(context.Background(), state.UserID, draft, testNow)
	assert.NoError(t, err)
}

func TestSubmitPostPaused(t *testing.T) {
	f := newFixture()
	state := f.animalComplete(t)
	f.settings.posting = false

	_, _, err := f.svc.SubmitPost(context.Background(), state.UserID, validDraft(), testNow)
	require.Error(t, err)
	assert.EqualError(t, err, ReasonPostingPaused)
}

func TestSubmitPostBlockedPhrase(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	state := f.animalComplete(t)
	require.NoError(t, f.blocklist.Add(ctx, BlockKindPhrase, "give up"))

	_, _, err := f.svc.SubmitPost(ctx, state.UserID, validDraft(), testNow)
	require.Error(t, err)
	assert.EqualError(t, err, ReasonBlockedPhrase)
}

func TestSubmitPostQueueFailure(t *testing.T) {
	f := newFixture()
	state := f.animalComplete(t)
	f.queue.err = errors.New("broker unreachable")

	draft := validDraft()
	_, returned, err := f.svc.SubmitPost(context.Background(), state.UserID, draft, testNow)
	require.Error(t, err)

	var pe errs.PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, draft, returned)
}

func TestPersistenceFailureSurfaced(t *testing.T) {
	f := newFixture()
	state := f.animalComplete(t)
	f.store.saveErr = errors.New("connection reset")

	_, err := f.svc.SubmitProfileEdits(
		context.Background(), state.UserID, profile.Edits{Bio: strptr("hi")}, testNow,
	)
	require.Error(t, err)

	var pe errs.PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, err.Error(), "persistence failed")
}

func TestAdminAuthorization(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	actor := f.registered(t)
	target := f.registered(t)

	_, err := f.admin.SetFrozen(ctx, actor.UserID, target.UserID, true)
	require.Error(t, err)
	assert.EqualError(t, err, ReasonAdminRequired)
}

func TestAdminOperations(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	actor := f.registered(t)
	elevated := f.store.profiles[actor.UserID]
	elevated.IsAdmin = true
	f.store.profiles[actor.UserID] = elevated

	target := f.registered(t)

	t.Run("freeze and unfreeze", func(t *testing.T) {
		state, err := f.admin.SetFrozen(ctx, actor.UserID, target.UserID, true)
		require.NoError(t, err)
		assert.True(t, state.IsFrozen)

		state, err = f.admin.SetFrozen(ctx, actor.UserID, target.UserID, false)
		require.NoError(t, err)
		assert.False(t, state.IsFrozen)
	})

	t.Run("premium toggle clears on-post link on downgrade", func(t *testing.T) {
		state, err := f.admin.SetPremium(ctx, actor.UserID, target.UserID, true)
		require.NoError(t, err)
		assert.True(t, state.IsPremium)

		withLink := f.store.profiles[target.UserID]
		withLink.OnPostLink = strptr("https://bonus.example.com")
		f.store.profiles[target.UserID] = withLink

		state, err = f.admin.SetPremium(ctx, actor.UserID, target.UserID, false)
		require.NoError(t, err)
		assert.False(t, state.IsPremium)
		assert.Nil(t, state.OnPostLink)
	})

	t.Run("switches", func(t *testing.T) {
		require.NoError(t, f.admin.SetPostingEnabled(ctx, actor.UserID, false))
		assert.False(t, f.settings.posting)

		require.NoError(t, f.admin.SetSignupsEnabled(ctx, actor.UserID, false))
		assert.False(t, f.settings.signups)
	})

	t.Run("blocklist kinds", func(t *testing.T) {
		require.NoError(t, f.admin.Block(ctx, actor.UserID, BlockKindEmail, "spam@example.com"))
		require.NoError(t, f.admin.Unblock(ctx, actor.UserID, BlockKindEmail, "spam@example.com"))

		err := f.admin.Block(ctx, actor.UserID, "ip", "127.0.0.1")
		require.Error(t, err)
		assert.EqualError(t, err, ReasonUnknownBlockKind)
	})
}
