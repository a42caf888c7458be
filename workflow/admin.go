package workflow

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/goaly/core/errs"
	"github.com/goaly/core/profile"
)

const (
	ReasonAdminRequired    = "admin access required"
	ReasonUnknownBlockKind = "unknown blocklist kind"
)

// Admin carries the moderation-adjacent account operations: freezing
// accounts, toggling premium, flipping the signup/posting switches, and
// managing the blocklists. Every call is authorized against the acting
// profile's admin flag.
type Admin struct {
	log       Logger
	profiles  ProfileStore
	settings  SettingsStore
	blocklist BlocklistStore
}

func NewAdmin(
	log Logger,
	profiles ProfileStore,
	settings SettingsStore,
	blocklist BlocklistStore,
) Admin {
	return Admin{
		log:       log,
		profiles:  profiles,
		settings:  settings,
		blocklist: blocklist,
	}
}

// SetFrozen freezes or unfreezes the target account. Frozen accounts cannot
// edit their profile or submit posts.
func (a Admin) SetFrozen(ctx context.Context, actorID, targetID uuid.UUID, frozen bool) (profile.State, error) {
	if err := a.authorize(ctx, actorID); err != nil {
		return profile.State{}, err
	}

	state, err := a.loadTarget(ctx, targetID)
	if err != nil {
		return profile.State{}, err
	}

	state.IsFrozen = frozen
	if err = a.profiles.Save(ctx, state); err != nil {
		return profile.State{}, errs.Persistence(err)
	}

	a.log.Info("account freeze flag changed", "actor_id", actorID, "target_id", targetID, "frozen", frozen)
	return state, nil
}

// SetPremium grants or revokes the premium tier on the target account.
func (a Admin) SetPremium(ctx context.Context, actorID, targetID uuid.UUID, premium bool) (profile.State, error) {
	if err := a.authorize(ctx, actorID); err != nil {
		return profile.State{}, err
	}

	state, err := a.loadTarget(ctx, targetID)
	if err != nil {
		return profile.State{}, err
	}

	state.IsPremium = premium
	if !premium {
		state.OnPostLink = nil
	}
	if err = a.profiles.Save(ctx, state); err != nil {
		return profile.State{}, errs.Persistence(err)
	}

	a.log.Info("account tier changed", "actor_id", actorID, "target_id", targetID, "premium", premium)
	return state, nil
}

// SetSignupsEnabled flips the registration kill switch.
func (a Admin) SetSignupsEnabled(ctx context.Context, actorID uuid.UUID, enabled bool) error {
	if err := a.authorize(ctx, actorID); err != nil {
		return err
	}
	if err := a.settings.SetSignupsEnabled(ctx, enabled); err != nil {
		return errs.Persistence(err)
	}
	a.log.Info("signups switch changed", "actor_id", actorID, "enabled", enabled)
	return nil
}

// SetPostingEnabled flips the posting kill switch.
func (a Admin) SetPostingEnabled(ctx context.Context, actorID uuid.UUID, enabled bool) error {
	if err := a.authorize(ctx, actorID); err != nil {
		return err
	}
	if err := a.settings.SetPostingEnabled(ctx, enabled); err != nil {
		return errs.Persistence(err)
	}
	a.log.Info("posting switch changed", "actor_id", actorID, "enabled", enabled)
	return nil
}

// Block adds a value to one of the blocklists.
func (a Admin) Block(ctx context.Context, actorID uuid.UUID, kind, value string) error {
	if err := a.authorize(ctx, actorID); err != nil {
		return err
	}
	if !validBlockKind(kind) {
		return errs.Validation(ReasonUnknownBlockKind)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return errs.Validation("blocklist value cannot be empty")
	}
	if err := a.blocklist.Add(ctx, kind, value); err != nil {
		return errs.Persistence(err)
	}
	a.log.Info("blocklist entry added", "actor_id", actorID, "kind", kind)
	return nil
}

// Unblock removes a value from one of the blocklists.
func (a Admin) Unblock(ctx context.Context, actorID uuid.UUID, kind, value string) error {
	if err := a.authorize(ctx, actorID); err != nil {
		return err
	}
	if !validBlockKind(kind) {
		return errs.Validation(ReasonUnknownBlockKind)
	}
	if err := a.blocklist.Remove(ctx, kind, strings.TrimSpace(value)); err != nil {
		return errs.Persistence(err)
	}
	a.log.Info("blocklist entry removed", "actor_id", actorID, "kind", kind)
	return nil
}

func (a Admin) authorize(ctx context.Context, actorID uuid.UUID) error {
	actor, err := a.profiles.Load(ctx, actorID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return err
		}
		return errs.Persistence(err)
	}
	if !actor.IsAdmin {
		return errs.Entitlement(ReasonAdminRequired)
	}
	return nil
}

func (a Admin) loadTarget(ctx context.Context, targetID uuid.UUID) (profile.State, error) {
	state, err := a.profiles.Load(ctx, targetID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return profile.State{}, err
		}
		return profile.State{}, errs.Persistence(err)
	}
	return state, nil
}

func validBlockKind(kind string) bool {
	switch kind {
	case BlockKindUsername, BlockKindPhrase, BlockKindEmail:
		return true
	}
	return false
}
