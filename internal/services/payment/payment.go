// Package payment содержит бизнес-логику обработки платёжных событий Paystack.
//
// Единственное значимое событие — успешный платёж: пользователь отмечается
// оплатившим, ему один раз выдаётся реферальный код и ставится в очередь
// письмо с кодом. Повторные доставки того же события ничего не меняют.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/cashplane/internal/lib/referral"
	"github.com/magabrotheeeer/cashplane/internal/lib/sl"
	"github.com/magabrotheeeer/cashplane/internal/models"
	"github.com/magabrotheeeer/cashplane/internal/rabbitmq"
	"github.com/magabrotheeeer/cashplane/internal/storage/repository"
)

// UserRepository описывает контракт хранилища для обработки платежа.
type UserRepository interface {
	// GetUserByEmail возвращает пользователя или repository.ErrUserNotFound.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// MarkPaidIfUnpaid условно отмечает оплату, возвращает применилось ли обновление.
	MarkPaidIfUnpaid(ctx context.Context, email, referralCode string) (bool, error)

	// ReferralCodeExists проверяет занятость реферального кода.
	ReferralCodeExists(ctx context.Context, code string) (bool, error)
}

// Notifier публикует почтовое уведомление в очередь.
type Notifier interface {
	Publish(routingKey string, message any) error
}

// Result итог обработки успешного платежа.
type Result int

const (
	// ResultIssued пользователь отмечен оплатившим, код выдан.
	ResultIssued Result = iota
	// ResultDuplicate повторная доставка события, состояние не менялось.
	ResultDuplicate
	// ResultUnknownUser платёж за email без учётной записи.
	ResultUnknownUser
)

// количество попыток получить свободный реферальный код
const codeAttempts = 5

// Service обрабатывает платёжные события.
type Service struct {
	repo     UserRepository
	notifier Notifier
	log      *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo UserRepository, notifier Notifier, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		log:      log,
	}
}

// ProcessChargeSuccess выполняет переход unpaid -> paid для пользователя
// с указанным email. Для уже оплативших и неизвестных пользователей ничего
// не делает и сообщает об этом через Result: провайдер в этих случаях
// должен получить подтверждение, а не ошибку.
func (s *Service) ProcessChargeSuccess(ctx context.Context, email string) (Result, error) {
	const op = "services.payment.ProcessChargeSuccess"
	log := s.log.With(slog.String("op", op), slog.String("email", email))

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			log.Warn("charge event for unknown user")
			return ResultUnknownUser, nil
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if user.HasPaid {
		log.Info("duplicate charge event, referral code already issued")
		return ResultDuplicate, nil
	}

	code, err := s.uniqueReferralCode(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	applied, err := s.repo.MarkPaidIfUnpaid(ctx, email, code)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if !applied {
		// Конкурентная повторная доставка успела раньше
		log.Info("duplicate charge event, conditional update did not apply")
		return ResultDuplicate, nil
	}

	// Письмо с кодом — best effort: оплата уже зафиксирована в базе,
	// сбой публикации не должен откатывать переход или ронять запрос
	if err := s.notifier.Publish(rabbitmq.ReferralRoutingKey, models.ReferralNotification{
		Email:        email,
		ReferralCode: code,
	}); err != nil {
		log.Error("failed to enqueue referral email", sl.Err(err))
	}

	log.Info("user marked as paid, referral code issued")
	return ResultIssued, nil
}

// uniqueReferralCode генерирует код, не выданный никому из пользователей.
func (s *Service) uniqueReferralCode(ctx context.Context) (string, error) {
	for range codeAttempts {
		code, err := referral.NewCode()
		if err != nil {
			return "", err
		}
		exists, err := s.repo.ReferralCodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", errors.New("failed to generate unique referral code")
}
