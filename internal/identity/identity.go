// Package identity signs users up and in by display name.
//
// A name is the whole credential: there is no password and no secret, so
// anyone who knows a name can act as that user. This is intentional for a
// small community app and must not be mistaken for authentication.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/smokyabdulrahman/ramadan-companion/internal/store"
)

var (
	// ErrDuplicateIdentity means signup found the name already taken; log in instead.
	ErrDuplicateIdentity = errors.New("this name is already registered, log in instead")
	// ErrIdentityNotFound means login found no profile with that name; sign up instead.
	ErrIdentityNotFound = errors.New("no account with this name, sign up instead")
	// ErrOperationFailed means the lookup or write failed; the same request may be retried.
	ErrOperationFailed = errors.New("could not reach the account store, try again")
	// ErrSignupNotSaved means signup created the profile but could not record it on this
	// client. The name is taken now, so the user must log in rather than sign up again.
	ErrSignupNotSaved = errors.New("account created but this device could not be signed in, log in to continue")
	// ErrInvalidName means the name was empty after trimming.
	ErrInvalidName = errors.New("name must not be empty")
)

// Mode selects whether Resolve creates or finds a profile.
type Mode int

const (
	ModeSignup Mode = iota
	ModeLogin
)

func (m Mode) String() string {
	if m == ModeSignup {
		return "signup"
	}
	return "login"
}

// ProfileStore looks up and creates profiles.
type ProfileStore interface {
	ByName(ctx context.Context, name string) (*store.Profile, error)
	Create(ctx context.Context, p *store.Profile) error
}

// Pointer records which profile is signed in on this client.
type Pointer interface {
	Save(p *store.Profile) error
	Clear() error
}

// Resolver maps a display name to a profile.
type Resolver struct {
	profiles ProfileStore
	newID    func() string
}

// NewResolver returns a Resolver backed by profiles.
func NewResolver(profiles ProfileStore) *Resolver {
	return &Resolver{profiles: profiles, newID: uuid.NewString}
}

// NormalizeName trims surrounding whitespace. Case is kept.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}

// Resolve signs up or logs in as name. On success the profile is written to
// pointer (when non-nil), which is what marks this client as signed in.
//
// Signup creates the profile before the pointer is written. If that write
// fails the profile already exists and Resolve returns ErrSignupNotSaved;
// retrying signup would return ErrDuplicateIdentity, logging in succeeds.
func (r *Resolver) Resolve(ctx context.Context, name string, mode Mode, pointer Pointer) (*store.Profile, error) {
	name = NormalizeName(name)
	if name == "" {
		return nil, ErrInvalidName
	}

	existing, err := r.profiles.ByName(ctx, name)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		log.Error().Err(err).Str("mode", mode.String()).Msg("profile lookup failed")
		return nil, fmt.Errorf("%w: %v", ErrOperationFailed, err)
	}

	var profile *store.Profile
	switch mode {
	case ModeSignup:
		if existing != nil {
			return nil, ErrDuplicateIdentity
		}
		profile, err = r.create(ctx, name)
		if err != nil {
			return nil, err
		}
	case ModeLogin:
		if existing == nil {
			return nil, ErrIdentityNotFound
		}
		profile = existing
	default:
		return nil, fmt.Errorf("unknown mode %d", mode)
	}

	if pointer != nil {
		if err := pointer.Save(profile); err != nil {
			log.Error().Err(err).Str("mode", mode.String()).Str("user", profile.ID).Msg("session save failed")
			if mode == ModeSignup {
				return nil, fmt.Errorf("%w: %q: %v", ErrSignupNotSaved, name, err)
			}
			return nil, fmt.Errorf("%w: %v", ErrOperationFailed, err)
		}
	}
	log.Info().Str("mode", mode.String()).Str("user", profile.ID).Msg("signed in")
	return profile, nil
}

func (r *Resolver) create(ctx context.Context, name string) (*store.Profile, error) {
	profile := &store.Profile{
		ID:           r.newID(),
		Name:         name,
		HasOnboarded: true,
		Role:         store.RoleUser,
		Badges:       []string{},
	}

	err := r.profiles.Create(ctx, profile)
	if errors.Is(err, store.ErrDuplicateName) {
		return nil, ErrDuplicateIdentity
	}
	if err != nil {
		log.Error().Err(err).Msg("profile create failed")
		return nil, fmt.Errorf("%w: %v", ErrOperationFailed, err)
	}
	return profile, nil
}

// Logout clears the pointer.
func Logout(pointer Pointer) error {
	return pointer.Clear()
}
