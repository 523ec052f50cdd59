// Package paymentcreate обрабатывает создание платёжной сессии Paystack.
package paymentcreate

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/cashplane/internal/http/response"
	"github.com/magabrotheeeer/cashplane/internal/lib/sl"
	"github.com/magabrotheeeer/cashplane/internal/paymentprovider"
)

// Request представляет запрос на создание платёжной сессии.
type Request struct {
	Email string `json:"email" validate:"required,email"`
}

// ProviderClient определяет интерфейс для работы с платёжным провайдером.
type ProviderClient interface {
	InitializeTransaction(reqParams paymentprovider.InitializeTransactionRequest) (*paymentprovider.InitializeTransactionResponse, error)
}

// стоимость доступа в кобо (5000 NGN)
const accessAmountKobo = 500000

// Handler обрабатывает запросы на создание платёжной сессии.
type Handler struct {
	log            *slog.Logger   // Логгер для записи информации и ошибок
	providerClient ProviderClient // Клиент для работы с провайдером
	callbackURL    string
	validate       *validator.Validate // Валидатор структуры входящих данных
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, providerClient ProviderClient, callbackURL string) *Handler {
	return &Handler{
		log:            log,
		providerClient: providerClient,
		callbackURL:    callbackURL,
		validate:       validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать платёж
// @Description Инициализирует транзакцию Paystack и возвращает ссылку на оплату
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param request body Request true "Email плательщика"
// @Success 200 {object} paymentprovider.InitializeTransactionResponse "Платёжная сессия создана"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка платёжного провайдера"
// @Router /payments/initialize [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.create"
	log := h.log.With(slog.String("op", op))

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
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

	paymentReq := paymentprovider.InitializeTransactionRequest{
		Email:       req.Email,
		Amount:      accessAmountKobo,
		CallbackURL: h.callbackURL,
	}

	paymentResp, err := h.providerClient.InitializeTransaction(paymentReq)
	if err != nil {
		log.Error("failed to initialize transaction", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("payment provider error"))
		return
	}

	log.Info("transaction initialized", slog.String("email", req.Email),
		slog.String("reference", paymentResp.Data.Reference))
	render.JSON(w, r, paymentResp)
}
