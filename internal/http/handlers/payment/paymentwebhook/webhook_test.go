package paymentwebhook

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/cashplane/internal/lib/signature"
	"github.com/magabrotheeeer/cashplane/internal/services/payment"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) ProcessChargeSuccess(ctx context.Context, email string) (payment.Result, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(payment.Result), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

const testSecret = "sk_test_secret"

const chargeSuccessBody = `{
	"event": "charge.success",
	"data": {
		"reference": "ref_123",
		"amount": 500000,
		"customer": {"email": "payer@example.com"}
	}
}`

func signedRequest(body, sig string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/webhook/paystack", bytes.NewReader([]byte(body)))
	if sig != "" {
		req.Header.Set(SignatureHeader, sig)
	}
	return req
}

func TestWebhook_ValidSignature_ChargeSuccess(t *testing.T) {
	svc := new(ServiceMock)
	handler := New(newNoopLogger(), svc, testSecret)

	svc.On("ProcessChargeSuccess", mock.Anything, "payer@example.com").
		Return(payment.ResultIssued, nil).Once()

	sig := signature.Sign(testSecret, []byte(chargeSuccessBody))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, signedRequest(chargeSuccessBody, sig))

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestWebhook_ForgedSignature(t *testing.T) {
	svc := new(ServiceMock)
	handler := New(newNoopLogger(), svc, testSecret)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, signedRequest(chargeSuccessBody, "deadbeef"))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	svc.AssertNotCalled(t, "ProcessChargeSuccess")
}

func TestWebhook_MissingSignature(t *testing.T) {
	svc := new(ServiceMock)
	handler := New(newNoopLogger(), svc, testSecret)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, signedRequest(chargeSuccessBody, ""))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	svc.AssertNotCalled(t, "ProcessChargeSuccess")
}

func TestWebhook_TamperedBody(t *testing.T) {
	svc := new(ServiceMock)
	handler := New(newNoopLogger(), svc, testSecret)

	sig := signature.Sign(testSecret, []byte(chargeSuccessBody))
	tampered := chargeSuccessBody[:len(chargeSuccessBody)-2] + " }"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, signedRequest(tampered, sig))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	svc.AssertNotCalled(t, "ProcessChargeSuccess")
}

func TestWebhook_IgnoredEvent(t *testing.T) {
	svc := new(ServiceMock)
	handler := New(newNoopLogger(), svc, testSecret)

	body := `{"event": "transfer.success", "data": {"customer": {"email": "payer@example.com"}}}`
	sig := signature.Sign(testSecret, []byte(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, signedRequest(body, sig))

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertNotCalled(t, "ProcessChargeSuccess")
}

func TestWebhook_DuplicateDelivery(t *testing.T) {
	svc := new(ServiceMock)
	handler := New(newNoopLogger(), svc, testSecret)

	svc.On("ProcessChargeSuccess", mock.Anything, "payer@example.com").
		Return(payment.ResultDuplicate, nil).Once()

	sig := signature.Sign(testSecret, []byte(chargeSuccessBody))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, signedRequest(chargeSuccessBody, sig))

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestWebhook_UnknownUser(t *testing.T) {
	svc := new(ServiceMock)
	handler := New(newNoopLogger(), svc, testSecret)

	svc.On("ProcessChargeSuccess", mock.Anything, "payer@example.com").
		Return(payment.ResultUnknownUser, nil).Once()

	sig := signature.Sign(testSecret, []byte(chargeSuccessBody))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, signedRequest(chargeSuccessBody, sig))

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestWebhook_StoreError(t *testing.T) {
	svc := new(ServiceMock)
	handler := New(newNoopLogger(), svc, testSecret)

	svc.On("ProcessChargeSuccess", mock.Anything, "payer@example.com").
		Return(payment.ResultIssued, errors.New("db is down")).Once()

	sig := signature.Sign(testSecret, []byte(chargeSuccessBody))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, signedRequest(chargeSuccessBody, sig))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	svc.AssertExpectations(t)
}

func TestWebhook_MalformedJSONWithValidSignature(t *testing.T) {
	svc := new(ServiceMock)
	handler := New(newNoopLogger(), svc, testSecret)

	body := `{"event": "charge.success", "data":`
	sig := signature.Sign(testSecret, []byte(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, signedRequest(body, sig))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "ProcessChargeSuccess")
}
