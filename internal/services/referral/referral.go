// Package referral содержит бизнес-логику подтверждения реферального кода.
//
// Код из письма сверяется с кодом, выданным пользователю после оплаты;
// при совпадении учётная запись отмечается прошедшей последний этап
// активации. Ввод нормализуется к верхнему регистру.
package referral

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/cashplane/internal/models"
)

// ErrCodeMismatch возвращается, если код не совпадает с выданным пользователю.
var ErrCodeMismatch = errors.New("invalid referral code")

// UserRepository описывает контракт хранилища для подтверждения кода.
type UserRepository interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	MarkReferralVerified(ctx context.Context, email string) error
}

// Service подтверждает реферальные коды.
type Service struct {
	repo UserRepository
	log  *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo UserRepository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// Redeem сверяет код с выданным пользователю и отмечает его подтверждённым.
func (s *Service) Redeem(ctx context.Context, email, code string) error {
	const op = "services.referral.Redeem"

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if user.ReferralCode == nil || *user.ReferralCode != strings.ToUpper(code) {
		return ErrCodeMismatch
	}

	if err := s.repo.MarkReferralVerified(ctx, email); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("referral code verified", slog.String("email", email))
	return nil
}
