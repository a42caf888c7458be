package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/goaly/core/errs"
	"github.com/goaly/core/profile"
	"github.com/goaly/core/repo/pgdb"
)

// ProfileStore adapts the profiles table to the workflow's profile record
// interface. Save is a full-document upsert, last write wins.
type ProfileStore struct {
	svc Service
}

func NewProfileStore(svc Service) ProfileStore {
	return ProfileStore{svc: svc}
}

func (s ProfileStore) Load(ctx context.Context, userID uuid.UUID) (profile.State, error) {
	row, err := s.svc.ProfilesQ(ctx).FilterByAccountID(userID).Get(ctx)
	if err != nil {
		return profile.State{}, fmt.Errorf("loading profile %s: %w", userID, err)
	}
	if row.AccountID == uuid.Nil {
		return profile.State{}, errs.ErrNotFound
	}
	return toState(row), nil
}

func (s ProfileStore) Save(ctx context.Context, state profile.State) error {
	_, err := s.svc.ProfilesQ(ctx).Upsert(ctx, fromState(state))
	if err != nil {
		return fmt.Errorf("saving profile %s: %w", state.UserID, err)
	}
	return nil
}

func toState(row pgdb.Profile) profile.State {
	return profile.State{
		UserID:            row.AccountID,
		Username:          row.Username,
		UsernameChangedAt: row.UsernameChangedAt,
		Bio:               row.Bio,
		PersonalLink:      row.PersonalLink,
		OnPostLink:        row.OnPostLink,
		AnimalPhoto:       row.AnimalPhoto,
		AnimalName:        row.AnimalName,
		AnimalLocation:    row.AnimalLocation,
		PetfinderLink:     row.PetfinderLink,
		IsPremium:         row.IsPremium,
		IsAdmin:           row.IsAdmin,
		IsFrozen:          row.IsFrozen,
		CreatedAt:         row.CreatedAt,
	}
}

func fromState(state profile.State) pgdb.ProfileUpsertInput {
	return pgdb.ProfileUpsertInput{
		AccountID:         state.UserID,
		Username:          state.Username,
		Bio:               state.Bio,
		PersonalLink:      state.PersonalLink,
		OnPostLink:        state.OnPostLink,
		AnimalPhoto:       state.AnimalPhoto,
		AnimalName:        state.AnimalName,
		AnimalLocation:    state.AnimalLocation,
		PetfinderLink:     state.PetfinderLink,
		IsPremium:         state.IsPremium,
		IsAdmin:           state.IsAdmin,
		IsFrozen:          state.IsFrozen,
		UsernameChangedAt: state.UsernameChangedAt,
		CreatedAt:         state.CreatedAt,
	}
}
