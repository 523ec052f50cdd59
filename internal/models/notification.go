package models

// VerificationNotification сообщение для очереди писем подтверждения почты.
type VerificationNotification struct {
	Email    string `json:"email"`
	Fullname string `json:"fullname"`
	Link     string `json:"link"`
}

// ReferralNotification сообщение для очереди писем с реферальным кодом.
type ReferralNotification struct {
	Email        string `json:"email"`
	ReferralCode string `json:"referral_code"`
}
