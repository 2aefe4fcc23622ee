// AngelaMos | 2026
// service.go

package project

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/sivakrishna1252/Bauhaus-Admin/internal/core"
	"github.com/sivakrishna1252/Bauhaus-Admin/internal/entry"
	"github.com/sivakrishna1252/Bauhaus-Admin/internal/middleware"
)

var (
	ErrClientNotFound = errors.New("selected client does not exist")
	ErrInvalidStatus  = errors.New("invalid project status")
)

var statuses = map[string]struct{}{
	StatusPending:    {},
	StatusInProgress: {},
	StatusDelayed:    {},
	StatusCompleted:  {},
}

type ClientChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type EntryLister interface {
	ListByProjects(ctx context.Context, projectIDs []string) ([]entry.Entry, error)
}

type Service struct {
	repo    Repository
	clients ClientChecker
	entries EntryLister
}

func NewService(repo Repository, clients ClientChecker, entries EntryLister) *Service {
	return &Service{
		repo:    repo,
		clients: clients,
		entries: entries,
	}
}

func (s *Service) Create(ctx context.Context, req CreateProjectRequest) (*Project, error) {
	if !core.ValidID(req.ClientID) {
		return nil, ErrClientNotFound
	}

	exists, err := s.clients.Exists(ctx, req.ClientID)
	if err != nil {
		return nil, fmt.Errorf("check client: %w", err)
	}
	if !exists {
		return nil, ErrClientNotFound
	}

	p := &Project{
		ID:          uuid.New().String(),
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		ClientID:    req.ClientID,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *Service) List(ctx context.Context) ([]Project, error) {
	return s.repo.List(ctx)
}

// ListForClient returns the client's projects newest first, each with its
// entries.
func (s *Service) ListForClient(ctx context.Context, clientID string) ([]Detail, error) {
	projects, err := s.repo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ID)
	}

	entries, err := s.listEntries(ctx, ids)
	if err != nil {
		return nil, err
	}

	byProject := make(map[string][]entry.Entry, len(projects))
	for _, e := range entries {
		byProject[e.ProjectID] = append(byProject[e.ProjectID], e)
	}

	details := make([]Detail, 0, len(projects))
	for _, p := range projects {
		details = append(details, Detail{Project: p, Entries: byProject[p.ID]})
	}

	return details, nil
}

// UpdateStatus allows any transition between the four statuses.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) (*Project, error) {
	if _, ok := statuses[status]; !ok {
		return nil, ErrInvalidStatus
	}

	return s.repo.UpdateStatus(ctx, id, status)
}

func (s *Service) GetDetail(
	ctx context.Context,
	id string,
	requester *middleware.AccessTokenClaims,
) (*Detail, error) {
	p, err := s.authorize(ctx, id, requester)
	if err != nil {
		return nil, err
	}

	entries, err := s.listEntries(ctx, []string{p.ID})
	if err != nil {
		return nil, err
	}

	return &Detail{Project: *p, Entries: entries}, nil
}

// CheckAccess reports core.ErrNotFound for a missing project and
// core.ErrForbidden when a client requests a project it does not own. A nil
// requester is treated as an admin.
func (s *Service) CheckAccess(
	ctx context.Context,
	id string,
	requester *middleware.AccessTokenClaims,
) error {
	_, err := s.authorize(ctx, id, requester)
	return err
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) authorize(
	ctx context.Context,
	id string,
	requester *middleware.AccessTokenClaims,
) (*Project, error) {
	if !core.ValidID(id) {
		return nil, fmt.Errorf("get project: %w", core.ErrNotFound)
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if requester != nil &&
		requester.Role == middleware.RoleClient &&
		requester.UserID != p.ClientID {
		return nil, fmt.Errorf("project %s: %w", id, core.ErrForbidden)
	}

	return p, nil
}

func (s *Service) listEntries(ctx context.Context, ids []string) ([]entry.Entry, error) {
	if len(ids) == 0 {
		return []entry.Entry{}, nil
	}
	return s.entries.ListByProjects(ctx, ids)
}
