// Package paymentprovider реализует REST-клиент Paystack.
package paymentprovider

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

// Client клиент API Paystack.
type Client struct {
	secretKey  string
	apiURL     string
	httpClient *http.Client
}

// NewClient создаёт новый клиент Paystack.
func NewClient(secretKey, apiURL string) *Client {
	return &Client{
		secretKey:  secretKey,
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) newRequest(method, path string, body interface{}) (*http.Request, error) {
	url := c.apiURL + path
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// InitializeTransaction отправляет запрос на создание транзакции,
// возвращает ссылку на страницу оплаты.
func (c *Client) InitializeTransaction(reqParams InitializeTransactionRequest) (*InitializeTransactionResponse, error) {
	req, err := c.newRequest("POST", "/transaction/initialize", reqParams)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, errors.New("unexpected status: " + resp.Status)
	}

	var trxResp InitializeTransactionResponse
	if err := json.NewDecoder(resp.Body).Decode(&trxResp); err != nil {
		return nil, err
	}
	if !trxResp.Status {
		return nil, errors.New("paystack rejected transaction: " + trxResp.Message)
	}
	return &trxResp, nil
}
