// Package signature реализует проверку подписи webhook-уведомлений Paystack.
//
// Paystack подписывает тело запроса алгоритмом HMAC-SHA512 с секретным ключом
// аккаунта и передаёт hex-digest в заголовке x-paystack-signature. Подпись
// считается от необработанных байт тела запроса: пересериализация JSON может
// изменить порядок полей и сломать проверку.
package signature

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
)

// Sign возвращает hex-представление HMAC-SHA512 от body с ключом secret.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify проверяет, что signature совпадает с подписью body.
// Сравнение выполняется за постоянное время.
func Verify(secret string, body []byte, signature string) bool {
	expected := Sign(secret, body)
	return hmac.Equal([]byte(expected), []byte(signature))
}
