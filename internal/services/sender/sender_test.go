package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/cashplane/internal/lib/smtp"
	"github.com/magabrotheeeer/cashplane/internal/models"
)

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Connect() (smtp.Client, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(smtp.Client), args.Error(1)
}

func (m *MockTransport) GetSMTPUser() string {
	args := m.Called()
	return args.String(0)
}

type MockSMTPClient struct {
	mock.Mock
}

func (m *MockSMTPClient) Mail(from string) error {
	args := m.Called(from)
	return args.Error(0)
}

func (m *MockSMTPClient) Rcpt(to string) error {
	args := m.Called(to)
	return args.Error(0)
}

func (m *MockSMTPClient) Data() (io.WriteCloser, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.WriteCloser), args.Error(1)
}

func (m *MockSMTPClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockSMTPClient) Quit() error {
	args := m.Called()
	return args.Error(0)
}

type MockSMTPWriter struct {
	bytes.Buffer
}

func (w *MockSMTPWriter) Close() error {
	return nil
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestSendReferralEmail(t *testing.T) {
	transport := new(MockTransport)
	client := new(MockSMTPClient)
	writer := &MockSMTPWriter{}
	svc := NewSenderService(newNoopLogger(), transport)

	transport.On("GetSMTPUser").Return("noreply@cashplane.app")
	transport.On("Connect").Return(client, nil).Once()
	client.On("Mail", "noreply@cashplane.app").Return(nil).Once()
	client.On("Rcpt", "a@b.com").Return(nil).Once()
	client.On("Data").Return(writer, nil).Once()
	client.On("Quit").Return(nil).Once()
	client.On("Close").Return(nil).Once()

	body, err := json.Marshal(models.ReferralNotification{
		Email:        "a@b.com",
		ReferralCode: "AB12CD34",
	})
	require.NoError(t, err)

	err = svc.SendReferralEmail(body)
	require.NoError(t, err)

	sent := writer.String()
	assert.Contains(t, sent, "Subject: Your Referral Code - CashPlane")
	assert.Contains(t, sent, "AB12CD34")
	assert.Contains(t, sent, "To: a@b.com")

	transport.AssertExpectations(t)
	client.AssertExpectations(t)
}

func TestSendVerificationEmail(t *testing.T) {
	transport := new(MockTransport)
	client := new(MockSMTPClient)
	writer := &MockSMTPWriter{}
	svc := NewSenderService(newNoopLogger(), transport)

	transport.On("GetSMTPUser").Return("noreply@cashplane.app")
	transport.On("Connect").Return(client, nil).Once()
	client.On("Mail", "noreply@cashplane.app").Return(nil).Once()
	client.On("Rcpt", "a@b.com").Return(nil).Once()
	client.On("Data").Return(writer, nil).Once()
	client.On("Quit").Return(nil).Once()
	client.On("Close").Return(nil).Once()

	body, err := json.Marshal(models.VerificationNotification{
		Email:    "a@b.com",
		Fullname: "Test User",
		Link:     "https://cashplane.app/verify-email?token=token123",
	})
	require.NoError(t, err)

	err = svc.SendVerificationEmail(body)
	require.NoError(t, err)

	sent := writer.String()
	assert.Contains(t, sent, "Subject: Verify Your Email - CashPlane")
	assert.Contains(t, sent, "https://cashplane.app/verify-email?token=token123")
}

func TestSendReferralEmail_BadPayload(t *testing.T) {
	transport := new(MockTransport)
	svc := NewSenderService(newNoopLogger(), transport)

	err := svc.SendReferralEmail([]byte("not a json"))
	assert.Error(t, err)
	transport.AssertNotCalled(t, "Connect")
}

func TestSendReferralEmail_ConnectError(t *testing.T) {
	transport := new(MockTransport)
	svc := NewSenderService(newNoopLogger(), transport)

	transport.On("GetSMTPUser").Return("noreply@cashplane.app")
	transport.On("Connect").Return(nil, errors.New("dial error")).Once()

	body, err := json.Marshal(models.ReferralNotification{Email: "a@b.com", ReferralCode: "AB12CD34"})
	require.NoError(t, err)

	err = svc.SendReferralEmail(body)
	assert.Error(t, err)
}
