// Package workflow sequences the profile and posting rules into the two user
// journeys: complete the animal profile to unlock personal editing, and
// validate a draft to submit it for moderation. It owns no state of its own;
// the authoritative profile record lives behind ProfileStore and submitted
// posts behind ModerationQueue.
package workflow

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goaly/core/errs"
	"github.com/goaly/core/post"
	"github.com/goaly/core/profile"
)

// Logger is the logging surface the workflow needs; the process logger is
// passed in by the caller.
type Logger interface {
	Info(msg string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

const (
	ReasonFrozen        = "account is frozen"
	ReasonPostingPaused = "posting is temporarily paused"
	ReasonSignupsPaused = "signups are temporarily paused"
	ReasonUsernameTaken = "username is not available"
	ReasonBlockedPhrase = "phrase contains blocked content"
)

// Blocklist entry kinds.
const (
	BlockKindUsername = "username"
	BlockKindPhrase   = "phrase"
	BlockKindEmail    = "email"
)

// ProfileStore is the external profile record. Load returns errs.ErrNotFound
// for unknown users; Save is a full-document write, last write wins.
type ProfileStore interface {
	Load(ctx context.Context, userID uuid.UUID) (profile.State, error)
	Save(ctx context.Context, s profile.State) error
}

// ModerationQueue receives submitted posts; the moderation service owns them
// from there.
type ModerationQueue interface {
	Enqueue(ctx context.Context, p post.PendingPost) error
}

// SettingsStore holds the admin kill switches.
type SettingsStore interface {
	SignupsEnabled(ctx context.Context) (bool, error)
	PostingEnabled(ctx context.Context) (bool, error)
	SetSignupsEnabled(ctx context.Context, enabled bool) error
	SetPostingEnabled(ctx context.Context, enabled bool) error
}

// BlocklistStore answers whether a value is blocked and lets admins manage
// the lists.
type BlocklistStore interface {
	UsernameBlocked(ctx context.Context, username string) (bool, error)
	PhraseBlocked(ctx context.Context, phrase string) (bool, error)
	Add(ctx context.Context, kind, value string) error
	Remove(ctx context.Context, kind, value string) error
}

// Service is the workflow orchestrator for a user acting on their own
// profile. One caller per profile at a time; operations are synchronous
// read-modify-write against the store.
type Service struct {
	log       Logger
	profiles  ProfileStore
	queue     ModerationQueue
	settings  SettingsStore
	blocklist BlocklistStore
}

func New(
	log Logger,
	profiles ProfileStore,
	queue ModerationQueue,
	settings SettingsStore,
	blocklist BlocklistStore,
) Service {
	return Service{
		log:       log,
		profiles:  profiles,
		queue:     queue,
		settings:  settings,
		blocklist: blocklist,
	}
}

// Register creates the default profile for a fresh signup.
func (s Service) Register(ctx context.Context, userID uuid.UUID, now time.Time) (profile.State, error) {
	enabled, err := s.settings.SignupsEnabled(ctx)
	if err != nil {
		return profile.State{}, errs.Persistence(err)
	}
	if !enabled {
		return profile.State{}, errs.Entitlement(ReasonSignupsPaused)
	}

	state := profile.New(userID, now)
	if err = s.profiles.Save(ctx, state); err != nil {
		return profile.State{}, errs.Persistence(err)
	}

	s.log.Info("profile registered", "user_id", userID, "username", state.Username)
	return state, nil
}

// Profile returns the profile as readers should see it.
func (s Service) Profile(ctx context.Context, userID uuid.UUID) (profile.State, error) {
	return s.load(ctx, userID)
}

// SubmitAnimalProfile completes the animal half of the profile, moving the
// user from AwaitingAnimalProfile to ProfileEditable. On any violated rule
// the stored state is untouched.
func (s Service) SubmitAnimalProfile(
	ctx context.Context,
	userID uuid.UUID,
	photoRef, name, location, link string,
) (profile.State, error) {
	state, err := s.load(ctx, userID)
	if err != nil {
		return profile.State{}, err
	}
	if state.IsFrozen {
		return profile.State{}, errs.Entitlement(ReasonFrozen)
	}

	next, err := profile.ApplyAnimalProfile(state, photoRef, name, location, link)
	if err != nil {
		return profile.State{}, err
	}
	if err = s.profiles.Save(ctx, next); err != nil {
		return profile.State{}, errs.Persistence(err)
	}

	s.log.Info("animal profile completed", "user_id", userID, "animal", name)
	return next, nil
}

// SubmitProfileEdits applies a partial personal-profile update. The whole
// update lands or none of it does.
func (s Service) SubmitProfileEdits(
	ctx context.Context,
	userID uuid.UUID,
	edits profile.Edits,
	now time.Time,
) (profile.State, error) {
	state, err := s.load(ctx, userID)
	if err != nil {
		return profile.State{}, err
	}
	if state.IsFrozen {
		return profile.State{}, errs.Entitlement(ReasonFrozen)
	}

	if edits.Username != nil && *edits.Username != state.Username {
		blocked, err := s.blocklist.UsernameBlocked(ctx, strings.TrimSpace(*edits.Username))
		if err != nil {
			return profile.State{}, errs.Persistence(err)
		}
		if blocked {
			return profile.State{}, errs.Validation(ReasonUsernameTaken)
		}
	}

	next, err := profile.ApplyEdits(state, edits, now)
	if err != nil {
		return profile.State{}, err
	}
	if err = s.profiles.Save(ctx, next); err != nil {
		return profile.State{}, errs.Persistence(err)
	}

	return next, nil
}

// SubmitPost validates the draft against the account and hands the pending
// post to the moderation queue. The returned draft is the cleared composer
// state; on failure the original draft comes back unchanged.
func (s Service) SubmitPost(
	ctx context.Context,
	userID uuid.UUID,
	draft post.Draft,
	now time.Time,
) (post.PendingPost, post.Draft, error) {
	state, err := s.load(ctx, userID)
	if err != nil {
		return post.PendingPost{}, draft, err
	}
	if state.IsFrozen {
		return post.PendingPost{}, draft, errs.Entitlement(ReasonFrozen)
	}

	enabled, err := s.settings.PostingEnabled(ctx)
	if err != nil {
		return post.PendingPost{}, draft, errs.Persistence(err)
	}
	if !enabled {
		return post.PendingPost{}, draft, errs.Entitlement(ReasonPostingPaused)
	}

	if !profile.CanSubmitPost(state) {
		return post.PendingPost{}, draft, errs.Entitlement(profile.ReasonAnimalProfileRequired)
	}
	if err = post.ValidateDraft(draft, state); err != nil {
		return post.PendingPost{}, draft, err
	}

	blocked, err := s.blocklist.PhraseBlocked(ctx, draft.Phrase)
	if err != nil {
		return post.PendingPost{}, draft, errs.Persistence(err)
	}
	if blocked {
		return post.PendingPost{}, draft, errs.Validation(ReasonBlockedPhrase)
	}

	pending := post.BuildPending(draft, state, now)
	if err = s.queue.Enqueue(ctx, pending); err != nil {
		return post.PendingPost{}, draft, errs.Persistence(err)
	}

	s.log.Info("post submitted", "user_id", userID, "post_id", pending.ID, "category", pending.Category)
	return pending, post.NewDraft(), nil
}

func (s Service) load(ctx context.Context, userID uuid.UUID) (profile.State, error) {
	state, err := s.profiles.Load(ctx, userID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return profile.State{}, err
		}
		return profile.State{}, errs.Persistence(err)
	}
	return state.Sanitized(), nil
}
