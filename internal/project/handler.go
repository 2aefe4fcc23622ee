// AngelaMos | 2026
// handler.go

package project

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/sivakrishna1252/Bauhaus-Admin/internal/core"
	"github.com/sivakrishna1252/Bauhaus-Admin/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly, clientOnly func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/projects/{projectID}", h.GetDetail)

		r.With(clientOnly).Get("/my-projects", h.ListMine)

		r.Group(func(r chi.Router) {
			r.Use(adminOnly)

			r.Post("/projects", h.Create)
			r.Get("/projects", h.List)
			r.Patch("/projects/{projectID}/status", h.UpdateStatus)
			r.Delete("/projects/{projectID}", h.Delete)
		})
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if err := core.DecodeJSON(r.Body, &req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	p, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	core.Created(w, ToResponse(p))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.service.List(r.Context())
	if err != nil {
		core.InternalServerErrorCtx(w, r, err)
		return
	}

	core.OK(w, ToResponseList(projects))
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	details, err := h.service.ListForClient(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.InternalServerErrorCtx(w, r, err)
		return
	}

	core.OK(w, ToDetailResponseList(details))
}

func (h *Handler) GetDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := h.service.GetDetail(
		r.Context(),
		chi.URLParam(r, "projectID"),
		middleware.GetClaims(r.Context()),
	)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	core.OK(w, ToDetailResponse(detail))
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "projectID")
	if !core.ValidID(id) {
		core.NotFound(w, "project")
		return
	}

	var req UpdateStatusRequest
	if err := core.DecodeJSON(r.Body, &req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	p, err := h.service.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	core.OK(w, ToResponse(p))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "projectID")
	if !core.ValidID(id) {
		core.NotFound(w, "project")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}

	core.Message(w, "Project deleted successfully")
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrClientNotFound):
		core.JSONError(w, core.NewAppError(
			err,
			"Selected client does not exist",
			http.StatusNotFound,
			"CLIENT_NOT_FOUND",
		))
	case errors.Is(err, ErrInvalidStatus):
		core.BadRequest(w, "status must be one of: PENDING IN_PROGRESS DELAYED COMPLETED")
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "project")
	case errors.Is(err, core.ErrForbidden):
		core.Forbidden(w, "Forbidden")
	default:
		core.InternalServerErrorCtx(w, r, err)
	}
}
