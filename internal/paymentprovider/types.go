package paymentprovider

// InitializeTransactionRequest представляет запрос на создание транзакции Paystack.
type InitializeTransactionRequest struct {
	Email       string `json:"email"`
	Amount      int64  `json:"amount"` // сумма в kobo
	CallbackURL string `json:"callback_url,omitempty"`
}

// InitializeTransactionResponse представляет ответ Paystack на создание транзакции.
type InitializeTransactionResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"` // страница оплаты
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"` // ссылка на транзакцию
	} `json:"data"`
}
