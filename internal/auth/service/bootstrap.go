package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/quickmarket/storeauth/internal/auth/domain"
	"github.com/quickmarket/storeauth/internal/auth/store"
	"github.com/quickmarket/storeauth/pkg/cryptox"
	"github.com/quickmarket/storeauth/pkg/idx"
	"github.com/quickmarket/storeauth/pkg/slogx"
)

var (
	ErrBootstrapAlready      = errors.New("system already bootstrapped")
	ErrBootstrapUnauthorized = errors.New("unauthorized bootstrap attempt")
)

// BootstrapService creates the first admin account on an empty store.
type BootstrapService struct {
	Store store.Store
	Token string // Pre-configured bootstrap token; empty disables the check
}

func (s *BootstrapService) IsBootstrapped(ctx context.Context) (bool, error) {
	empty, err := s.Store.Users().IsEmpty(ctx)
	if err != nil {
		return false, err
	}
	return !empty, nil
}

// Bootstrap creates the initial admin user. Admin accounts skip the email
// second factor by role, so the new account can log in immediately.
func (s *BootstrapService) Bootstrap(ctx context.Context, token, email, password, name string) (string, error) {
	l := slogx.FromContext(ctx)

	if bootstrapped, _ := s.IsBootstrapped(ctx); bootstrapped {
		l.Warn("attempted bootstrap on already-bootstrapped system")
		return "", ErrBootstrapAlready
	}

	if s.Token != "" && token != s.Token {
		l.Warn("unauthorized bootstrap attempt")
		return "", ErrBootstrapUnauthorized
	}

	passHash, err := cryptox.HashSecret(password)
	if err != nil {
		l.Error("failed to hash admin password", slog.Any("error", err))
		return "", errors.New("failed to create admin user")
	}

	adminID := idx.New().String()
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		// Re-check emptiness inside the transaction so two racing bootstrap
		// requests cannot both create an admin.
		empty, err := tx.Users().IsEmpty(ctx)
		if err != nil {
			return err
		}
		if !empty {
			return ErrBootstrapAlready
		}

		return tx.Users().CreateUser(ctx, domain.User{
			ID:               adminID,
			Email:            normalizeEmail(email),
			Name:             name,
			PasswordHash:     passHash,
			Role:             domain.RoleAdmin,
			TwoFactorEnabled: false,
		})
	})
	if err != nil {
		return "", err
	}

	l.Info("successfully bootstrapped system", slog.String("admin_user_id", adminID))
	return adminID, nil
}
