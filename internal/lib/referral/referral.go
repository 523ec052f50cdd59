// Package referral реализует генерацию реферальных кодов.
//
// Код — короткий токен из заглавных букв и цифр, который пользователь
// получает письмом после оплаты и которым делится с другими. Источник
// случайности — crypto/rand, уникальность кода среди существующих
// записей проверяет вызывающая сторона.
package referral

import (
	"crypto/rand"
	"fmt"
)

const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// CodeLength длина генерируемого реферального кода.
const CodeLength = 8

// NewCode возвращает новый реферальный код из CodeLength символов.
func NewCode() (string, error) {
	const op = "referral.NewCode"
	buf := make([]byte, CodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	for i, b := range buf {
		buf[i] = charset[int(b)%len(charset)]
	}
	return string(buf), nil
}
