package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/quotemate/gateway/internal/core/domain"
	"github.com/quotemate/gateway/internal/core/ports"
)

// Authenticator checks credentials against the demo directory (when one is
// configured) and otherwise against the backend.
type Authenticator struct {
	backend  ports.AuthBackend
	accounts ports.AccountRepository
	log      zerolog.Logger
}

// NewAuthenticator returns an Authenticator. accounts may be nil, which
// disables demo accounts.
func NewAuthenticator(backend ports.AuthBackend, accounts ports.AccountRepository, log zerolog.Logger) *Authenticator {
	return &Authenticator{backend: backend, accounts: accounts, log: log}
}

func (a *Authenticator) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if a.accounts != nil {
		acct, err := a.accounts.FindByEmail(ctx, strings.ToLower(email))
		switch {
		case err == nil:
			if bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)) != nil {
				return nil, domain.ErrInvalidCredentials
			}
			u := acct.User
			a.log.Debug().Str("user_id", u.ID).Msg("demo account authenticated")
			return &u, nil
		case errors.Is(err, domain.ErrUserNotFound):
		default:
			a.log.Warn().Err(err).Msg("demo account lookup failed, using backend")
		}
	}

	user, err := a.backend.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := user.Validate(); err != nil {
		return nil, fmt.Errorf("%w: login returned an invalid user", domain.ErrBackendContract)
	}
	return user, nil
}

func (a *Authenticator) Register(ctx context.Context, email, password, userType string) (string, error) {
	return a.backend.Signup(ctx, strings.TrimSpace(email), password, userType)
}

// DemoSeed is a demo account before hashing.
type DemoSeed struct {
	User     domain.User
	Password string
}

// DefaultDemoSeeds are the accounts offered on the login screen in demo mode.
var DefaultDemoSeeds = []DemoSeed{
	{User: domain.User{ID: "1", Email: "builder@example.com", Name: "Builder User", Role: domain.RoleBuilder}, Password: "password123"},
	{User: domain.User{ID: "2", Email: "subcontractor@example.com", Name: "Subcontractor User", Role: domain.RoleSubcontractor}, Password: "password123"},
	{User: domain.User{ID: "3", Email: "admin@quotemate.com", Name: "Admin User", Role: domain.RoleAdmin}, Password: "admin123"},
	{User: domain.User{ID: "4", Email: "admin2@example.com", Name: "Admin User 2", Role: domain.RoleAdmin}, Password: "admin123"},
}

// SeedDemoAccounts hashes and upserts seeds into repo.
func SeedDemoAccounts(ctx context.Context, repo ports.AccountRepository, seeds []DemoSeed, cost int) error {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	now := time.Now().UTC()
	for _, s := range seeds {
		hash, err := bcrypt.GenerateFromPassword([]byte(s.Password), cost)
		if err != nil {
			return fmt.Errorf("hash demo password for %s: %w", s.User.Email, err)
		}
		u := s.User
		u.Email = strings.ToLower(u.Email)
		if err := repo.Upsert(ctx, &domain.DemoAccount{
			User:         u,
			PasswordHash: string(hash),
			CreatedAt:    now,
			UpdatedAt:    now,
		}); err != nil {
			return fmt.Errorf("seed demo account %s: %w", u.Email, err)
		}
	}
	return nil
}
