// Package paymentwebhook обрабатывает webhook-уведомления Paystack.
//
// Paystack подписывает тело запроса HMAC-SHA512 и передаёт подпись
// в заголовке x-paystack-signature. Подпись проверяется над сырыми
// байтами тела до любого разбора JSON; при несовпадении запрос
// отклоняется с кодом 403 без каких-либо изменений состояния.
package paymentwebhook

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/magabrotheeeer/cashplane/internal/lib/signature"
	"github.com/magabrotheeeer/cashplane/internal/lib/sl"
	"github.com/magabrotheeeer/cashplane/internal/services/payment"
)

// SignatureHeader — заголовок Paystack с подписью тела запроса.
const SignatureHeader = "x-paystack-signature"

// ChargeSuccess — единственное обрабатываемое событие Paystack.
const ChargeSuccess = "charge.success"

var webhookEvents = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "cashplane_webhook_events_total",
	Help: "Processed Paystack webhook deliveries by outcome.",
}, []string{"outcome"})

// Service определяет контракт сервиса обработки успешного платежа.
type Service interface {
	ProcessChargeSuccess(ctx context.Context, email string) (payment.Result, error)
}

// Handler обрабатывает webhook-запросы Paystack.
type Handler struct {
	log           *slog.Logger // Логгер для записи информации и ошибок
	service       Service
	webhookSecret string // Секрет для проверки подписи
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, secret string) *Handler {
	return &Handler{
		log:           log,
		service:       service,
		webhookSecret: secret,
	}
}

// Payload — тело webhook-уведомления Paystack.
type Payload struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
		Amount    int64  `json:"amount"`
		Customer  struct {
			Email string `json:"email"`
		} `json:"customer"`
	} `json:"data"`
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.webhook"
	log := h.log.With(slog.String("op", op))

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error("failed to read webhook body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	// Подпись проверяется над сырыми байтами до разбора JSON
	sig := r.Header.Get(SignatureHeader)
	if sig == "" || !signature.Verify(h.webhookSecret, body, sig) {
		log.Error("invalid or missing webhook signature")
		webhookEvents.WithLabelValues("rejected").Inc()
		w.WriteHeader(http.StatusForbidden)
		return
	}

	var payload Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		log.Error("failed to unmarshal webhook payload", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if payload.Event != ChargeSuccess {
		log.Info("ignored webhook event", slog.String("event", payload.Event))
		webhookEvents.WithLabelValues("ignored").Inc()
		w.WriteHeader(http.StatusOK)
		return
	}

	result, err := h.service.ProcessChargeSuccess(r.Context(), payload.Data.Customer.Email)
	if err != nil {
		log.Error("failed to process charge.success", sl.Err(err))
		webhookEvents.WithLabelValues("error").Inc()
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	switch result {
	case payment.ResultIssued:
		log.Info("payment recorded, referral code issued",
			slog.String("email", payload.Data.Customer.Email),
			slog.String("reference", payload.Data.Reference))
		webhookEvents.WithLabelValues("issued").Inc()
	case payment.ResultDuplicate:
		log.Info("duplicate charge.success delivery",
			slog.String("email", payload.Data.Customer.Email),
			slog.String("reference", payload.Data.Reference))
		webhookEvents.WithLabelValues("duplicate").Inc()
	case payment.ResultUnknownUser:
		log.Info("charge.success for unknown user",
			slog.String("email", payload.Data.Customer.Email))
		webhookEvents.WithLabelValues("unknown_user").Inc()
	}
	w.WriteHeader(http.StatusOK)
}
