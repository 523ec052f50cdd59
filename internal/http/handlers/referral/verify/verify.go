// Package verify обрабатывает подтверждение реферального кода.
package verify

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/cashplane/internal/http/response"
	"github.com/magabrotheeeer/cashplane/internal/lib/sl"
	"github.com/magabrotheeeer/cashplane/internal/services/referral"
	"github.com/magabrotheeeer/cashplane/internal/storage/repository"
)

// Request — входные данные для подтверждения реферального кода
type Request struct {
	Email        string `json:"email" validate:"required,email"`
	ReferralCode string `json:"referralCode" validate:"required,len=8"`
}

// Service определяет контракт сервиса подтверждения кода.
type Service interface {
	Redeem(ctx context.Context, email, code string) error
}

// Handler обрабатывает запросы подтверждения реферального кода.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Подтверждение реферального кода
// @Description Сверяет код из письма с кодом, выданным пользователю после оплаты
// @Tags Referral
// @Accept  json
// @Produce  json
// @Param request body Request true "Email и реферальный код"
// @Success 200 {object} response.Response "Код подтверждён"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или неверный код"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /referral/verify-referral [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.referral.verify"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	if err := h.service.Redeem(r.Context(), req.Email, req.ReferralCode); err != nil {
		switch {
		case errors.Is(err, referral.ErrCodeMismatch):
			log.Info("referral code mismatch", slog.String("email", req.Email))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid referral code"))
		case errors.Is(err, repository.ErrUserNotFound):
			log.Info("user not found", slog.String("email", req.Email))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		default:
			log.Error("failed to verify referral code", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("internal error"))
		}
		return
	}

	log.Info("referral code verified", slog.String("email", req.Email))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "referral code verified successfully",
	}))
}
