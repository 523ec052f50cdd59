// Package verifyemail обрабатывает подтверждение почты по ссылке из письма.
package verifyemail

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/cashplane/internal/http/response"
	"github.com/magabrotheeeer/cashplane/internal/lib/sl"
	services "github.com/magabrotheeeer/cashplane/internal/services/auth"
)

// Service определяет контракт сервиса подтверждения почты.
type Service interface {
	VerifyEmail(ctx context.Context, token string) error
}

// Handler обрабатывает запросы подтверждения почты.
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
// @Summary Подтверждение почты
// @Description Подтверждает почту по токену из письма
// @Tags Auth
// @Produce  json
// @Param token query string true "Токен подтверждения"
// @Success 200 {object} response.Response "Почта подтверждена"
// @Failure 400 {object} response.ErrorResponse "Токен не передан или недействителен"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /auth/verify-email [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.verifyemail"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	token := r.URL.Query().Get("token")
	if token == "" {
		log.Error("verification token is missing")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("verification token is required"))
		return
	}

	if err := h.service.VerifyEmail(r.Context(), token); err != nil {
		if errors.Is(err, services.ErrTokenInvalid) {
			log.Info("invalid verification token")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("verification token is invalid or expired"))
			return
		}
		log.Error("failed to verify email", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	log.Info("email verified")
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "email verified successfully",
	}))
}
