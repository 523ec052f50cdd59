// Package models содержит доменную модель пользователя CashPlane,
// включающую данные учётной записи, хэш пароля и флаги прохождения
// этапов активации. Структура используется в бизнес‑логике и при
// работе с хранилищем.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID                string    // Уникальный идентификатор пользователя
	Fullname           string    // Полное имя, указанное при регистрации
	Email              string    // Электронная почта (уникальная)
	PasswordHash       string    // Хэш пароля пользователя
	IsEmailVerified    bool      // Подтверждена ли почта по ссылке из письма
	HasPaid            bool      // Прошёл ли платёж через Paystack
	IsReferralVerified bool      // Подтверждён ли реферальный код
	ReferralCode       *string   // Реферальный код, выдаётся один раз после оплаты
	CreatedAt          time.Time // Дата создания записи
}
