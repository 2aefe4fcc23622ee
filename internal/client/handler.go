// AngelaMos | 2026
// handler.go

package client

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/sivakrishna1252/Bauhaus-Admin/internal/core"
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
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin/clients", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Patch("/{clientID}/reset-pin", h.ResetPin)
		r.Patch("/{clientID}/block", h.Block)
		r.Patch("/{clientID}/unblock", h.Unblock)
		r.Delete("/{clientID}", h.Delete)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	clients, err := h.service.List(r.Context())
	if err != nil {
		core.InternalServerErrorCtx(w, r, err)
		return
	}

	core.OK(w, ToClientResponseList(clients))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateClientRequest
	if err := core.DecodeJSON(r.Body, &req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	client, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	core.Created(w, CreatedClientResponse{
		ID:       client.ID,
		Username: client.Username,
	})
}

func (h *Handler) ResetPin(w http.ResponseWriter, r *http.Request) {
	id, ok := clientID(w, r)
	if !ok {
		return
	}

	var req ResetPinRequest
	if err := core.DecodeJSON(r.Body, &req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	if err := h.service.ResetPin(r.Context(), id, req.NewPin); err != nil {
		h.writeError(w, r, err)
		return
	}

	core.Message(w, "Client PIN updated successfully")
}

func (h *Handler) Block(w http.ResponseWriter, r *http.Request) {
	id, ok := clientID(w, r)
	if !ok {
		return
	}

	if err := h.service.Block(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}

	core.Message(w, "Client blocked successfully")
}

func (h *Handler) Unblock(w http.ResponseWriter, r *http.Request) {
	id, ok := clientID(w, r)
	if !ok {
		return
	}

	if err := h.service.Unblock(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}

	core.Message(w, "Client unblocked successfully")
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := clientID(w, r)
	if !ok {
		return
	}

	if _, err := h.service.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}

	core.Message(w, "Client and all associated projects/files deleted successfully")
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrDuplicateUsername):
		core.JSONError(w, core.DuplicateError("username"))
	case errors.Is(err, ErrDuplicatePin):
		core.JSONError(w, core.DuplicateError("pin"))
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "client")
	default:
		core.InternalServerErrorCtx(w, r, err)
	}
}

func clientID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "clientID")
	if !core.ValidID(id) {
		core.NotFound(w, "client")
		return "", false
	}
	return id, true
}
