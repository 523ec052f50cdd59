package paymentprovider

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeTransaction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/transaction/initialize", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_xxx", r.Header.Get("Authorization"))

		var req InitializeTransactionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "a@b.com", req.Email)
		assert.Equal(t, int64(500000), req.Amount)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": true,
			"message": "Authorization URL created",
			"data": {
				"authorization_url": "https://checkout.paystack.com/abc123",
				"access_code": "abc123",
				"reference": "ref-1"
			}
		}`))
	}))
	defer srv.Close()

	client := NewClient("sk_test_xxx", srv.URL)
	resp, err := client.InitializeTransaction(InitializeTransactionRequest{
		Email:  "a@b.com",
		Amount: 500000,
	})
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.paystack.com/abc123", resp.Data.AuthorizationURL)
	assert.Equal(t, "ref-1", resp.Data.Reference)
}

func TestInitializeTransaction_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient("sk_test_bad", srv.URL)
	_, err := client.InitializeTransaction(InitializeTransactionRequest{Email: "a@b.com", Amount: 1000})
	assert.Error(t, err)
}
