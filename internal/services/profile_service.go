package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"splitbook/internal/amqp"
	"splitbook/internal/auth"
	"splitbook/internal/core"
)

// ErrEmailExists marks a registration with an already-used address.
var ErrEmailExists = errors.New("email already registered")

// ProfileService manages accounts and resolves group rosters for the
// rest of the system.
type ProfileService struct {
	store             Store
	notifier          Notifier
	tokens            *auth.JWTManager
	activationBaseURL string
}

func NewProfileService(store Store, notifier Notifier, tokens *auth.JWTManager, activationBaseURL string) *ProfileService {
	return &ProfileService{
		store:             store,
		notifier:          notifier,
		tokens:            tokens,
		activationBaseURL: activationBaseURL,
	}
}

// RegisterInput holds the fields of a new account.
type RegisterInput struct {
	FullName        string
	Email           string
	Password        string
	ProfileImageURL string
	BudgetLimit     decimal.Decimal
}

// Register creates an inactive account and queues the activation mail.
// Mail delivery is asynchronous and best-effort; the account is created
// regardless.
func (s *ProfileService) Register(ctx context.Context, in RegisterInput) (*core.Profile, error) {
	if _, err := s.store.GetProfileByEmail(ctx, in.Email); err == nil {
		return nil, fmt.Errorf("register %q: %w", in.Email, ErrEmailExists)
	} else if !errors.Is(err, core.ErrNotFound) {
		return nil, fmt.Errorf("check existing email: %w", err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	profile := &core.Profile{
		FullName:        in.FullName,
		Email:           in.Email,
		PasswordHash:    hash,
		ProfileImageURL: in.ProfileImageURL,
		BudgetLimit:     in.BudgetLimit,
		ActivationToken: uuid.NewString(),
	}
	if err := s.store.CreateProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}

	link := fmt.Sprintf("%s/activate?token=%s", s.activationBaseURL, profile.ActivationToken)
	s.publish(ctx, amqp.NewActivation(profile.Email, profile.FullName, link))

	slog.InfoContext(ctx, "Profile registered", "profile_id", profile.ID)
	return profile, nil
}

// Activate flips the account active and consumes the token.
func (s *ProfileService) Activate(ctx context.Context, token string) error {
	profile, err := s.store.GetProfileByActivationToken(ctx, token)
	if err != nil {
		return err
	}
	profile.IsActive = true
	profile.ActivationToken = ""
	if err := s.store.UpdateProfile(ctx, profile); err != nil {
		return fmt.Errorf("activate profile: %w", err)
	}
	return nil
}

// Authenticate checks credentials and issues a session token.
func (s *ProfileService) Authenticate(ctx context.Context, email, password string) (string, *core.Profile, error) {
	profile, err := s.store.GetProfileByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return "", nil, fmt.Errorf("invalid email or password: %w", core.ErrUnauthorized)
		}
		return "", nil, err
	}
	if !auth.CheckPassword(profile.PasswordHash, password) {
		return "", nil, fmt.Errorf("invalid email or password: %w", core.ErrUnauthorized)
	}

	token, err := s.tokens.Generate(profile.ID, profile.Email)
	if err != nil {
		return "", nil, err
	}
	return token, profile, nil
}

// Get returns a profile by id.
func (s *ProfileService) Get(ctx context.Context, id int64) (*core.Profile, error) {
	return s.store.GetProfile(ctx, id)
}

// UpdateBudget sets the caller's monthly budget limit.
func (s *ProfileService) UpdateBudget(ctx context.Context, callerID int64, limit decimal.Decimal) (*core.Profile, error) {
	profile, err := s.store.GetProfile(ctx, callerID)
	if err != nil {
		return nil, err
	}
	profile.BudgetLimit = limit
	if err := s.store.UpdateProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("update budget: %w", err)
	}
	return profile, nil
}

// Roster returns the caller's effective member set: the whole group, or
// a self-only list when groupless.
func (s *ProfileService) Roster(ctx context.Context, callerID int64) ([]core.Profile, error) {
	profile, err := s.store.GetProfile(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if profile.GroupID == "" {
		return []core.Profile{*profile}, nil
	}
	return s.store.ListProfilesByGroup(ctx, profile.GroupID)
}

// EffectiveMemberIDs returns the ids of the caller's effective member
// set.
func (s *ProfileService) EffectiveMemberIDs(ctx context.Context, callerID int64) ([]int64, error) {
	members, err := s.Roster(ctx, callerID)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}
	return ids, nil
}

// publish enqueues a notification if the queue is configured. Delivery
// is best-effort here: a publish failure is logged and discarded so it
// never aborts the mutation that triggered it.
func (s *ProfileService) publish(ctx context.Context, n amqp.Notification) {
	if s.notifier == nil {
		slog.WarnContext(ctx, "Notifier not available, skipping notification", "kind", n.Kind)
		return
	}
	if err := s.notifier.Publish(ctx, n); err != nil {
		slog.ErrorContext(ctx, "Failed to publish notification",
			"kind", n.Kind, "recipient", n.Recipient, "error", err)
	}
}
