// AngelaMos | 2026
// service.go

package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/sivakrishna1252/Bauhaus-Admin/internal/auth"
	"github.com/sivakrishna1252/Bauhaus-Admin/internal/core"
)

var (
	ErrDuplicateUsername = errors.New("username already taken")
	ErrDuplicatePin      = errors.New("pin already taken")
)

type FileRemover interface {
	Delete(ctx context.Context, ref string) error
}

type DeleteResult struct {
	FilesRemoved int
	FilesFailed  int
}

type Service struct {
	repo  Repository
	pins  PinIndex
	files FileRemover
}

func NewService(repo Repository, pins PinIndex, files FileRemover) *Service {
	return &Service{
		repo:  repo,
		pins:  pins,
		files: files,
	}
}

func (s *Service) List(ctx context.Context) ([]Client, error) {
	return s.repo.List(ctx)
}

func (s *Service) Create(ctx context.Context, req CreateClientRequest) (*Client, error) {
	username := strings.TrimSpace(req.Username)

	_, err := s.repo.GetByUsername(ctx, username)
	if err == nil {
		return nil, ErrDuplicateUsername
	}
	if !errors.Is(err, core.ErrNotFound) {
		return nil, err
	}

	taken, err := s.pins.Taken(ctx, req.Pin, "")
	if err != nil {
		return nil, fmt.Errorf("check pin: %w", err)
	}
	if taken {
		return nil, ErrDuplicatePin
	}

	hash, err := core.HashPassword(req.Pin)
	if err != nil {
		return nil, fmt.Errorf("hash pin: %w", err)
	}

	client := &Client{
		ID:       uuid.New().String(),
		Username: username,
		PinHash:  hash,
	}

	if err := s.repo.Create(ctx, client); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrDuplicateUsername
		}
		return nil, err
	}

	return client, nil
}

// ResetPin leaves the client's own current PIN out of the uniqueness scan,
// so resetting to the same PIN is allowed.
func (s *Service) ResetPin(ctx context.Context, id, newPin string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	taken, err := s.pins.Taken(ctx, newPin, id)
	if err != nil {
		return fmt.Errorf("check pin: %w", err)
	}
	if taken {
		return ErrDuplicatePin
	}

	hash, err := core.HashPassword(newPin)
	if err != nil {
		return fmt.Errorf("hash pin: %w", err)
	}

	return s.repo.UpdatePinHash(ctx, id, hash)
}

func (s *Service) Block(ctx context.Context, id string) error {
	return s.repo.SetBlocked(ctx, id, true)
}

func (s *Service) Unblock(ctx context.Context, id string) error {
	return s.repo.SetBlocked(ctx, id, false)
}

// Delete removes the client with its projects and entries, then tries to
// remove every stored file those entries referenced. File failures are
// logged and counted; once the row is gone the delete has succeeded.
func (s *Service) Delete(ctx context.Context, id string) (*DeleteResult, error) {
	ctx, span := core.StartSpan(ctx, "client.delete", attribute.String("client.id", id))
	defer span.End()

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	refs, err := s.repo.FileRefs(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}

	// the rows are gone; a caller hanging up must not orphan the files
	cleanupCtx := context.WithoutCancel(ctx)

	result := &DeleteResult{}
	for _, ref := range refs {
		if err := s.files.Delete(cleanupCtx, ref); err != nil {
			result.FilesFailed++
			slog.Error("failed to delete client file",
				"client_id", id,
				"file", ref,
				"error", err,
			)
			continue
		}
		result.FilesRemoved++
	}

	span.SetAttributes(
		attribute.Int("files.removed", result.FilesRemoved),
		attribute.Int("files.failed", result.FilesFailed),
	)

	slog.Info("client deleted",
		"client_id", id,
		"files_removed", result.FilesRemoved,
		"files_failed", result.FilesFailed,
	)

	return result, nil
}

func (s *Service) GetByUsername(ctx context.Context, username string) (*auth.ClientInfo, error) {
	c, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	return &auth.ClientInfo{
		ID:        c.ID,
		Username:  c.Username,
		PinHash:   c.PinHash,
		IsBlocked: c.IsBlocked,
	}, nil
}

func (s *Service) UpdatePinHash(ctx context.Context, clientID, pinHash string) error {
	return s.repo.UpdatePinHash(ctx, clientID, pinHash)
}

func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	_, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, core.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
