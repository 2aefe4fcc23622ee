// AngelaMos | 2026
// service.go

package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sivakrishna1252/Bauhaus-Admin/internal/auth"
	"github.com/sivakrishna1252/Bauhaus-Admin/internal/core"
)

var ErrDuplicateEmail = errors.New("email already taken")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// UpdateProfile changes only the fields that were supplied; empty strings
// count as not supplied.
func (s *Service) UpdateProfile(
	ctx context.Context,
	adminID string,
	req UpdateProfileRequest,
) (*Admin, error) {
	var email, passwordHash *string

	if req.Email != nil && *req.Email != "" {
		normalized := strings.ToLower(strings.TrimSpace(*req.Email))
		email = &normalized
	}

	if req.NewPassword != nil && *req.NewPassword != "" {
		hash, err := core.HashPassword(*req.NewPassword)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		passwordHash = &hash
	}

	admin, err := s.repo.UpdateProfile(ctx, adminID, email, passwordHash)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	return admin, nil
}

// Seed creates the admin account or resets the password of an existing one.
func (s *Service) Seed(ctx context.Context, email, password string) (*Admin, bool, error) {
	hash, err := core.HashPassword(password)
	if err != nil {
		return nil, false, fmt.Errorf("hash password: %w", err)
	}

	admin := &Admin{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: hash,
	}

	created, err := s.repo.Upsert(ctx, admin)
	if err != nil {
		return nil, false, err
	}

	return admin, created, nil
}

func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	return s.repo.Overview(ctx)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*auth.AdminInfo, error) {
	admin, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return toAdminInfo(admin), nil
}

func (s *Service) UpdatePassword(ctx context.Context, adminID, passwordHash string) error {
	return s.repo.UpdatePassword(ctx, adminID, passwordHash)
}

func (s *Service) SetResetToken(
	ctx context.Context,
	adminID, tokenHash string,
	expiresAt time.Time,
) error {
	return s.repo.SetResetToken(ctx, adminID, tokenHash, expiresAt)
}

func (s *Service) GetByResetToken(
	ctx context.Context,
	tokenHash string,
	now time.Time,
) (*auth.AdminInfo, error) {
	admin, err := s.repo.GetByResetToken(ctx, tokenHash, now)
	if err != nil {
		return nil, err
	}
	return toAdminInfo(admin), nil
}

func (s *Service) CompleteReset(ctx context.Context, adminID, passwordHash string) error {
	return s.repo.CompleteReset(ctx, adminID, passwordHash)
}

func toAdminInfo(a *Admin) *auth.AdminInfo {
	return &auth.AdminInfo{
		ID:           a.ID,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
	}
}
