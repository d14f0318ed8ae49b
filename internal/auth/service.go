// Package auth implements signup, login and the role gates over the
// record store. The single current-session marker in the store is the
// session: one browser, one signed-in user at a time.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"bestbuddies/internal/kvstore"
	"bestbuddies/internal/metrics"
	"bestbuddies/internal/model"
)

var (
	ErrMissingFields      = errors.New("name, email and password are required")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotLoggedIn        = errors.New("not logged in")
	ErrForbidden          = errors.New("admin access required")
	ErrRateLimited        = errors.New("too many login attempts")
)

// Recorder appends an entry to the audit trail.
type Recorder interface {
	Record(ctx context.Context, actor, action, bookingID, detail string) error
}

// Options tunes the service. Zero values get defaults.
type Options struct {
	// LoginRate throttles login attempts; defaults to 10/min with a
	// burst of 5.
	LoginRate  rate.Limit
	LoginBurst int
}

// Service provides account and session operations.
type Service struct {
	store    kvstore.Store
	verifier CredentialVerifier
	limiter  *rate.Limiter
	audit    Recorder
	logger   zerolog.Logger
}

// NewService creates an auth service. audit may be nil.
func NewService(store kvstore.Store, verifier CredentialVerifier, audit Recorder, logger zerolog.Logger, opts Options) *Service {
	if opts.LoginRate <= 0 {
		opts.LoginRate = rate.Every(6 * time.Second)
	}
	if opts.LoginBurst <= 0 {
		opts.LoginBurst = 5
	}
	return &Service{
		store:    store,
		verifier: verifier,
		limiter:  rate.NewLimiter(opts.LoginRate, opts.LoginBurst),
		audit:    audit,
		logger:   logger.With().Str("component", "auth").Logger(),
	}
}

// Signup registers a new account and signs it in. Unknown roles fall
// back to customer.
func (s *Service) Signup(ctx context.Context, name, email, password string, role model.Role, now time.Time) (model.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return model.User{}, ErrMissingFields
	}
	if len(password) < 6 {
		return model.User{}, ErrWeakPassword
	}
	if !role.Valid() {
		role = model.RoleCustomer
	}

	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return model.User{}, fmt.Errorf("list users: %w", err)
	}
	for _, u := range users {
		if u.Email == email {
			return model.User{}, ErrEmailTaken
		}
	}

	u := model.User{
		ID:        "user-" + uuid.NewString(),
		Name:      name,
		Email:     email,
		Password:  password,
		Role:      role,
		CreatedAt: now,
	}
	if err := s.store.SaveUsers(ctx, append(users, u)); err != nil {
		return model.User{}, fmt.Errorf("save users: %w", err)
	}
	if err := s.store.SetCurrentUser(ctx, u); err != nil {
		return model.User{}, fmt.Errorf("set session: %w", err)
	}

	if s.audit != nil {
		if err := s.audit.Record(ctx, email, "signup", "", string(role)); err != nil {
			s.logger.Warn().Err(err).Msg("audit record failed")
		}
	}
	s.logger.Info().Str("user_id", u.ID).Str("role", string(role)).Msg("user registered")
	return u, nil
}

// Login verifies the credential and sets the session marker.
func (s *Service) Login(ctx context.Context, email, password string) (model.User, error) {
	if !s.limiter.Allow() {
		metrics.IncLoginAttempt("throttled")
		return model.User{}, ErrRateLimited
	}

	email = strings.TrimSpace(email)
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return model.User{}, fmt.Errorf("list users: %w", err)
	}

	for _, u := range users {
		if u.Email != email {
			continue
		}
		if !s.verifier.Verify(u.Password, password) {
			break
		}
		if err := s.store.SetCurrentUser(ctx, u); err != nil {
			return model.User{}, fmt.Errorf("set session: %w", err)
		}
		if s.audit != nil {
			if err := s.audit.Record(ctx, email, "login", "", ""); err != nil {
				s.logger.Warn().Err(err).Msg("audit record failed")
			}
		}
		metrics.IncLoginAttempt("success")
		s.logger.Info().Str("user_id", u.ID).Msg("user logged in")
		return u, nil
	}

	metrics.IncLoginAttempt("failure")
	s.logger.Warn().Str("email", email).Msg("failed login attempt")
	return model.User{}, ErrInvalidCredentials
}

// Logout clears the session marker.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.store.ClearCurrentUser(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.logger.Info().Msg("user logged out")
	return nil
}

// Current returns the signed-in user or ErrNotLoggedIn.
func (s *Service) Current(ctx context.Context) (model.User, error) {
	u, ok, err := s.store.CurrentUser(ctx)
	if err != nil {
		return model.User{}, fmt.Errorf("read session: %w", err)
	}
	if !ok {
		return model.User{}, ErrNotLoggedIn
	}
	return u, nil
}

// RequireAdmin returns the signed-in user if they hold the admin role.
func (s *Service) RequireAdmin(ctx context.Context) (model.User, error) {
	u, err := s.Current(ctx)
	if err != nil {
		return model.User{}, err
	}
	if u.Role != model.RoleAdmin {
		return model.User{}, ErrForbidden
	}
	return u, nil
}
