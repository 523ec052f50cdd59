// Package me возвращает профиль текущего пользователя.
package me

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/cashplane/internal/http/middlewarectx"
	"github.com/magabrotheeeer/cashplane/internal/http/response"
	"github.com/magabrotheeeer/cashplane/internal/lib/sl"
	"github.com/magabrotheeeer/cashplane/internal/models"
)

// Service определяет контракт для чтения профиля.
type Service interface {
	Profile(ctx context.Context, email string) (*models.User, error)
}

// Handler обрабатывает запросы профиля.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Профиль пользователя
// @Description Возвращает данные текущего пользователя по JWT
// @Tags Auth
// @Produce  json
// @Success 200 {object} response.Response "Профиль пользователя"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /auth/me [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.me"
	log := h.log.With(slog.String("op", op))

	email, ok := r.Context().Value(middlewarectx.UserEmail).(string)
	if !ok || email == "" {
		log.Error("user email not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	user, err := h.service.Profile(r.Context(), email)
	if err != nil {
		log.Error("failed to read user profile", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"uid":                  user.UID,
		"fullname":             user.Fullname,
		"email":                user.Email,
		"is_email_verified":    user.IsEmailVerified,
		"has_paid":             user.HasPaid,
		"is_referral_verified": user.IsReferralVerified,
	}))
}
