// AngelaMos | 2026
// handler.go

package entry

import (
	"errors"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sivakrishna1252/Bauhaus-Admin/internal/config"
	"github.com/sivakrishna1252/Bauhaus-Admin/internal/core"
	"github.com/sivakrishna1252/Bauhaus-Admin/internal/middleware"
	"github.com/sivakrishna1252/Bauhaus-Admin/internal/storage"
)

const multipartMemory = 32 << 20

type Handler struct {
	service *Service
	upload  config.UploadConfig
}

func NewHandler(service *Service, upload config.UploadConfig) *Handler {
	return &Handler{
		service: service,
		upload:  upload,
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/projects/{projectID}/entries", h.List)
		r.Get("/projects/{projectID}/timeline", h.Timeline)
		r.Get("/projects/{projectID}/documents", h.Documents)

		r.Group(func(r chi.Router) {
			r.Use(adminOnly)

			r.Post("/projects/{projectID}/entries", h.Create)
			r.Patch("/projects/entries/{entryID}", h.Update)
			r.Delete("/projects/entries/{entryID}", h.Delete)
		})
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	if !core.ValidID(projectID) {
		core.NotFound(w, "project")
		return
	}

	if !h.parseMultipart(w, r) {
		return
	}

	entries, err := h.service.Create(r.Context(), CreateInput{
		ProjectID:   projectID,
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
		Files:       r.MultipartForm.File[h.upload.FieldName],
	})
	if err != nil {
		h.writeError(w, r, err, "project")
		return
	}

	core.Created(w, ToResponseList(entries))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	if !core.ValidID(projectID) {
		core.NotFound(w, "project")
		return
	}

	entries, err := h.service.List(r.Context(), projectID, middleware.GetClaims(r.Context()))
	if err != nil {
		h.writeError(w, r, err, "project")
		return
	}

	core.OK(w, ToResponseList(entries))
}

func (h *Handler) Timeline(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	if !core.ValidID(projectID) {
		core.NotFound(w, "project")
		return
	}

	cards, err := h.service.Timeline(r.Context(), projectID, middleware.GetClaims(r.Context()))
	if err != nil {
		h.writeError(w, r, err, "project")
		return
	}

	core.OK(w, cards)
}

func (h *Handler) Documents(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	if !core.ValidID(projectID) {
		core.NotFound(w, "project")
		return
	}

	docs, err := h.service.Documents(r.Context(), projectID, middleware.GetClaims(r.Context()))
	if err != nil {
		h.writeError(w, r, err, "project")
		return
	}

	core.OK(w, docs)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "entryID")
	if !core.ValidID(entryID) {
		core.NotFound(w, "entry")
		return
	}

	var in UpdateInput

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		var req UpdateEntryRequest
		if err := core.DecodeJSON(r.Body, &req); err != nil {
			core.BadRequest(w, "invalid request body")
			return
		}
		in.Description = req.Description
		in.Category = req.Category

	case "multipart/form-data", "application/x-www-form-urlencoded":
		if !h.parseMultipart(w, r) {
			return
		}
		in.Description = r.FormValue("description")
		in.Category = r.FormValue("category")
		if files := r.MultipartForm.File[h.upload.FieldName]; len(files) > 0 {
			in.File = files[0]
		}

	default:
		core.JSONError(w, core.NewAppError(
			core.ErrInvalidInput,
			"Send the update as multipart/form-data, a url-encoded form or JSON",
			http.StatusBadRequest,
			"UNSUPPORTED_CONTENT_TYPE",
		))
		return
	}

	e, err := h.service.Update(r.Context(), entryID, in)
	if err != nil {
		h.writeError(w, r, err, "entry")
		return
	}

	core.OK(w, ToResponse(e))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "entryID")
	if !core.ValidID(entryID) {
		core.NotFound(w, "entry")
		return
	}

	if err := h.service.Delete(r.Context(), entryID); err != nil {
		h.writeError(w, r, err, "entry")
		return
	}

	core.Message(w, "Entry deleted successfully")
}

// parseMultipart caps the body at the largest legal upload plus form
// overhead, then parses it. Plain form posts are accepted for updates.
func (h *Handler) parseMultipart(w http.ResponseWriter, r *http.Request) bool {
	limit := h.upload.MaxFileSize*int64(h.upload.MaxFiles) + multipartMemory
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	err := r.ParseMultipartForm(multipartMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		if err := r.ParseForm(); err != nil {
			core.BadRequest(w, "invalid form body")
			return false
		}
		r.MultipartForm = &multipart.Form{}
		return true
	}
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			core.JSONError(w, core.NewAppError(
				storage.ErrFileTooLarge,
				"Upload exceeds the maximum size",
				http.StatusRequestEntityTooLarge,
				"FILE_TOO_LARGE",
			))
			return false
		}
		core.BadRequest(w, "invalid multipart body")
		return false
	}

	return true
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error, resource string) {
	switch {
	case errors.Is(err, ErrNoFiles):
		core.JSONError(w, core.NewAppError(
			err,
			`Missing files in the "media" field`,
			http.StatusBadRequest,
			"NO_FILES",
		))
	case errors.Is(err, ErrInvalidCategory):
		core.BadRequest(w, "category must be one of: TIMELINE AGREEMENT PAYMENT_INVOICE HANDOVER CERTIFICATE")
	case errors.Is(err, storage.ErrInvalidFileType):
		core.JSONError(w, core.NewAppError(
			err,
			"Only images, videos and PDFs are allowed (jpg, png, mp4, pdf, etc.)",
			http.StatusBadRequest,
			"INVALID_FILE_TYPE",
		))
	case errors.Is(err, storage.ErrFileTooLarge):
		core.JSONError(w, core.NewAppError(
			err,
			"File exceeds the maximum upload size",
			http.StatusRequestEntityTooLarge,
			"FILE_TOO_LARGE",
		))
	case errors.Is(err, storage.ErrTooManyFiles):
		core.JSONError(w, core.NewAppError(
			err,
			"Too many files in one upload",
			http.StatusBadRequest,
			"TOO_MANY_FILES",
		))
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, resource)
	case errors.Is(err, core.ErrForbidden):
		core.Forbidden(w, "Forbidden: You do not have access to this project")
	default:
		core.InternalServerErrorCtx(w, r, err)
	}
}
