// AngelaMos | 2026
// service.go

package entry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/sivakrishna1252/Bauhaus-Admin/internal/core"
	"github.com/sivakrishna1252/Bauhaus-Admin/internal/middleware"
	"github.com/sivakrishna1252/Bauhaus-Admin/internal/storage"
	"github.com/sivakrishna1252/Bauhaus-Admin/internal/timeline"
)

var (
	ErrNoFiles         = errors.New(`missing files in the "media" field`)
	ErrInvalidCategory = errors.New("invalid category")
)

// ProjectAccess resolves whether requester may see a project. It returns
// core.ErrNotFound for a missing project and core.ErrForbidden when a client
// asks for a project it does not own.
type ProjectAccess interface {
	CheckAccess(ctx context.Context, projectID string, requester *middleware.AccessTokenClaims) error
}

type CreateInput struct {
	ProjectID   string
	Description string
	Category    string
	Files       []*multipart.FileHeader
}

// UpdateInput fields left empty keep their stored value.
type UpdateInput struct {
	Description string
	Category    string
	File        *multipart.FileHeader
}

type Service struct {
	repo     Repository
	projects ProjectAccess
	store    storage.Store
	policy   storage.Policy
	window   time.Duration
}

func NewService(
	repo Repository,
	projects ProjectAccess,
	store storage.Store,
	policy storage.Policy,
) *Service {
	return &Service{
		repo:     repo,
		projects: projects,
		store:    store,
		policy:   policy,
		window:   timeline.DefaultWindow,
	}
}

// Create stores every uploaded file and records one entry per file. A
// request without files is rejected even when it carries a description.
// All files are validated before the first one is written; if storing
// fails partway, files already written stay on storage.
func (s *Service) Create(ctx context.Context, in CreateInput) ([]Entry, error) {
	ctx, span := core.StartSpan(ctx, "entry.create",
		attribute.String("project.id", in.ProjectID),
		attribute.Int("upload.files", len(in.Files)),
	)
	defer span.End()

	if len(in.Files) == 0 {
		return nil, ErrNoFiles
	}

	category, err := normalizeCategory(in.Category)
	if err != nil {
		return nil, err
	}

	if err := s.projects.CheckAccess(ctx, in.ProjectID, nil); err != nil {
		return nil, err
	}

	files, err := s.policy.Check(in.Files)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(files))
	stored := make([]string, 0, len(files))
	for _, f := range files {
		ref, err := s.save(ctx, f)
		if err != nil {
			logOrphans(in.ProjectID, stored, err)
			return nil, err
		}
		stored = append(stored, ref)
		core.AddSpanEvent(ctx, "upload.stored", attribute.String("upload.kind", f.Kind))

		entries = append(entries, Entry{
			ID:          uuid.New().String(),
			ProjectID:   in.ProjectID,
			Description: in.Description,
			Category:    category,
			FileURL:     ref,
			FileType:    f.Kind,
		})
	}

	if err := s.repo.CreateBatch(ctx, entries); err != nil {
		logOrphans(in.ProjectID, stored, err)
		return nil, err
	}

	return entries, nil
}

func (s *Service) List(
	ctx context.Context,
	projectID string,
	requester *middleware.AccessTokenClaims,
) ([]Entry, error) {
	if err := s.projects.CheckAccess(ctx, projectID, requester); err != nil {
		return nil, err
	}

	return s.repo.ListByProject(ctx, projectID)
}

func (s *Service) ListByProjects(ctx context.Context, projectIDs []string) ([]Entry, error) {
	return s.repo.ListByProjects(ctx, projectIDs)
}

func (s *Service) Timeline(
	ctx context.Context,
	projectID string,
	requester *middleware.AccessTokenClaims,
) ([]timeline.Card, error) {
	entries, err := s.List(ctx, projectID, requester)
	if err != nil {
		return nil, err
	}

	return timeline.Timeline(ToTimelineEntries(ToResponseList(entries)), s.window), nil
}

func (s *Service) Documents(
	ctx context.Context,
	projectID string,
	requester *middleware.AccessTokenClaims,
) (*DocumentsResponse, error) {
	entries, err := s.List(ctx, projectID, requester)
	if err != nil {
		return nil, err
	}

	folders := timeline.Folders(ToTimelineEntries(ToResponseList(entries)))
	total := 0
	for _, f := range folders {
		total += f.Count
	}

	return &DocumentsResponse{Total: total, Folders: folders}, nil
}

// Update applies a partial change. A replacement file overwrites the stored
// reference; the previous file is left on storage.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*Entry, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Category != "" {
		if !ValidCategory(in.Category) {
			return nil, ErrInvalidCategory
		}
		e.Category = in.Category
	}

	if in.Description != "" {
		e.Description = in.Description
	}

	if in.File != nil {
		f, err := s.policy.CheckOne(in.File)
		if err != nil {
			return nil, err
		}

		ref, err := s.save(ctx, f)
		if err != nil {
			return nil, err
		}

		slog.Debug("entry file replaced, previous file kept",
			"entry_id", e.ID,
			"previous", e.FileURL,
			"current", ref,
		)

		e.FileURL = ref
		e.FileType = f.Kind
	}

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}

	return e, nil
}

// Delete removes the row only; the stored file is not touched.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) save(ctx context.Context, f storage.File) (string, error) {
	src, err := f.Header.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close() //nolint:errcheck // read-only

	ref, err := s.store.Save(ctx, storage.GenerateName(f.Header.Filename), f.ContentType, src)
	if err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}

	return ref, nil
}

func normalizeCategory(c string) (string, error) {
	if c == "" {
		return CategoryTimeline, nil
	}
	if !ValidCategory(c) {
		return "", ErrInvalidCategory
	}
	return c, nil
}

func logOrphans(projectID string, refs []string, cause error) {
	if len(refs) == 0 {
		return
	}
	slog.Warn("upload aborted, stored files left without entries",
		"project_id", projectID,
		"files", refs,
		"error", cause,
	)
}
