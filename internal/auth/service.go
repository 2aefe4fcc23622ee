// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sivakrishna1252/Bauhaus-Admin/internal/config"
	"github.com/sivakrishna1252/Bauhaus-Admin/internal/core"
	"github.com/sivakrishna1252/Bauhaus-Admin/internal/middleware"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountBlocked     = errors.New("account is blocked")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
)

const ResetRequestedMessage = "If an account exists with this email, you will receive a reset link shortly."

type AdminInfo struct {
	ID           string
	Email        string
	PasswordHash string
}

type ClientInfo struct {
	ID        string
	Username  string
	PinHash   string
	IsBlocked bool
}

type AdminProvider interface {
	GetByEmail(ctx context.Context, email string) (*AdminInfo, error)
	UpdatePassword(ctx context.Context, adminID, passwordHash string) error
	SetResetToken(
		ctx context.Context,
		adminID, tokenHash string,
		expiresAt time.Time,
	) error
	GetByResetToken(
		ctx context.Context,
		tokenHash string,
		now time.Time,
	) (*AdminInfo, error)
	CompleteReset(ctx context.Context, adminID, passwordHash string) error
}

type ClientProvider interface {
	GetByUsername(ctx context.Context, username string) (*ClientInfo, error)
	UpdatePinHash(ctx context.Context, clientID, pinHash string) error
}

type ResetNotifier interface {
	SendResetLink(ctx context.Context, email, link string) error
}

type Service struct {
	jwt      *JWTManager
	admins   AdminProvider
	clients  ClientProvider
	notifier ResetNotifier
	reset    config.ResetConfig
	now      func() time.Time
}

func NewService(
	jwt *JWTManager,
	admins AdminProvider,
	clients ClientProvider,
	notifier ResetNotifier,
	reset config.ResetConfig,
) *Service {
	return &Service{
		jwt:      jwt,
		admins:   admins,
		clients:  clients,
		notifier: notifier,
		reset:    reset,
		now:      time.Now,
	}
}

func (s *Service) AdminLogin(
	ctx context.Context,
	email, password string,
) (*TokenResponse, error) {
	admin, err := s.admins.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // timing attack prevention - always verify to prevent enumeration
			_, _, _ = core.VerifyPasswordTimingSafe(password, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get admin: %w", err)
	}

	valid, newHash, err := core.VerifyPasswordTimingSafe(
		password,
		&admin.PasswordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}

	if !valid {
		return nil, ErrInvalidCredentials
	}

	if newHash != "" {
		if err := s.admins.UpdatePassword(ctx, admin.ID, newHash); err != nil {
			slog.Warn("admin password rehash failed", "admin_id", admin.ID, "error", err)
		}
	}

	return s.issue(admin.ID, middleware.RoleAdmin, admin.Email)
}

// ClientLogin rejects blocked clients before the PIN is compared.
func (s *Service) ClientLogin(
	ctx context.Context,
	username, pin string,
) (*TokenResponse, error) {
	client, err := s.clients.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // timing attack prevention - always verify to prevent enumeration
			_, _, _ = core.VerifyPasswordTimingSafe(pin, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get client: %w", err)
	}

	if client.IsBlocked {
		return nil, ErrAccountBlocked
	}

	valid, newHash, err := core.VerifyPasswordTimingSafe(pin, &client.PinHash)
	if err != nil {
		return nil, fmt.Errorf("verify pin: %w", err)
	}

	if !valid {
		return nil, ErrInvalidCredentials
	}

	if newHash != "" {
		if err := s.clients.UpdatePinHash(ctx, client.ID, newHash); err != nil {
			slog.Warn("client pin rehash failed", "client_id", client.ID, "error", err)
		}
	}

	return s.issue(client.ID, middleware.RoleClient, client.Username)
}

// Login tries the admin path unconditionally first and falls back to the
// client path only when no admin matched the identifier and secret.
func (s *Service) Login(
	ctx context.Context,
	identifier, secret string,
) (*TokenResponse, error) {
	resp, err := s.AdminLogin(ctx, identifier, secret)
	if err == nil {
		return resp, nil
	}
	if !errors.Is(err, ErrInvalidCredentials) {
		return nil, err
	}

	return s.ClientLogin(ctx, identifier, secret)
}

// RequestPasswordReset never reveals whether the email belongs to an admin.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	admin, err := s.admins.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("get admin: %w", err)
	}

	token, err := core.GenerateResetToken()
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}

	expiresAt := s.now().Add(s.reset.TTL)
	if err := s.admins.SetResetToken(ctx, admin.ID, core.HashToken(token), expiresAt); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	link := s.reset.URLBase + "?token=" + token
	if err := s.notifier.SendResetLink(ctx, admin.Email, link); err != nil {
		return fmt.Errorf("send reset link: %w", err)
	}

	return nil
}

func (s *Service) ResetPassword(
	ctx context.Context,
	token, newPassword string,
) error {
	admin, err := s.admins.GetByResetToken(ctx, core.HashToken(token), s.now())
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("find reset token: %w", err)
	}

	hash, err := core.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.admins.CompleteReset(ctx, admin.ID, hash); err != nil {
		return fmt.Errorf("complete reset: %w", err)
	}

	return nil
}

func (s *Service) issue(id, role, identity string) (*TokenResponse, error) {
	token, err := s.jwt.CreateAccessToken(AccessTokenClaims{
		UserID:   id,
		Role:     role,
		Identity: identity,
	})
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	return &TokenResponse{Token: token, Role: role}, nil
}

// LogNotifier writes the reset link to the application log instead of
// sending mail.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) SendResetLink(_ context.Context, email, link string) error {
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("password reset requested", "email", email, "link", link)
	return nil
}
