// AngelaMos | 2026
// handler.go

package auth

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

// RegisterRoutes mounts the public auth endpoints. limiter guards them
// against PIN and password guessing.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	limiter func(http.Handler) http.Handler,
) {
	r.Route("/auth", func(r chi.Router) {
		if limiter != nil {
			r.Use(limiter)
		}

		r.Post("/admin/login", h.AdminLogin)
		r.Post("/client/login", h.ClientLogin)
		r.Post("/login", h.Login)
		r.Post("/request-reset", h.RequestReset)
		r.Post("/reset-password", h.ResetPassword)
	})
}

func (h *Handler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req AdminLoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	resp, err := h.service.AdminLogin(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeLoginError(w, r, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) ClientLogin(w http.ResponseWriter, r *http.Request) {
	var req ClientLoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	resp, err := h.service.ClientLogin(r.Context(), req.Username, req.Pin)
	if err != nil {
		h.writeLoginError(w, r, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	resp, err := h.service.Login(r.Context(), req.Identifier, req.Secret)
	if err != nil {
		h.writeLoginError(w, r, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) RequestReset(w http.ResponseWriter, r *http.Request) {
	var req RequestResetRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.service.RequestPasswordReset(r.Context(), req.Email); err != nil {
		core.InternalServerErrorCtx(w, r, err)
		return
	}

	core.Message(w, ResetRequestedMessage)
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.service.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		if errors.Is(err, ErrInvalidResetToken) {
			core.JSONError(w, core.NewAppError(
				err,
				"Invalid or expired reset link",
				http.StatusBadRequest,
				"INVALID_OR_EXPIRED",
			))
			return
		}
		core.InternalServerErrorCtx(w, r, err)
		return
	}

	core.Message(w, "Password updated successfully. You can now login.")
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := core.DecodeJSON(r.Body, dst); err != nil {
		core.BadRequest(w, "invalid request body")
		return false
	}

	if err := h.validator.Struct(dst); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return false
	}

	return true
}

func (h *Handler) writeLoginError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		core.JSONError(w, core.NewAppError(
			err,
			"Invalid credentials",
			http.StatusUnauthorized,
			"INVALID_CREDENTIALS",
		))
	case errors.Is(err, ErrAccountBlocked):
		core.JSONError(w, core.NewAppError(
			err,
			"Account is blocked",
			http.StatusForbidden,
			"ACCOUNT_BLOCKED",
		))
	default:
		core.InternalServerErrorCtx(w, r, err)
	}
}
