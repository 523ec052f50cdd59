// Package services содержит логику бизнес-уровня для регистрации,
// подтверждения почты и входа пользователей.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/cashplane/internal/lib/jwt"
	"github.com/magabrotheeeer/cashplane/internal/lib/password"
	"github.com/magabrotheeeer/cashplane/internal/lib/sl"
	"github.com/magabrotheeeer/cashplane/internal/models"
	"github.com/magabrotheeeer/cashplane/internal/rabbitmq"
	"github.com/magabrotheeeer/cashplane/internal/storage/repository"
)

// Ошибки этапов входа. Обработчики отображают их на HTTP-статусы
// и сообщения, которые показывает фронтенд.
var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrEmailNotVerified    = errors.New("email is not verified")
	ErrPaymentRequired     = errors.New("payment is not completed")
	ErrReferralNotVerified = errors.New("referral code is not verified")
	ErrTokenInvalid        = errors.New("verification token is invalid or expired")
)

// время жизни токена подтверждения почты
const verificationTokenTTL = 24 * time.Hour

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает его UID.
	CreateUser(ctx context.Context, user models.User) (string, error)

	// GetUserByEmail возвращает пользователя или repository.ErrUserNotFound.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// MarkEmailVerified отмечает почту подтверждённой.
	MarkEmailVerified(ctx context.Context, email string) error
}

// TokenCache хранит токены подтверждения почты с ограниченным временем жизни.
type TokenCache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Notifier публикует почтовое уведомление в очередь.
type Notifier interface {
	Publish(routingKey string, message any) error
}

// AuthService отвечает за регистрацию, подтверждение почты и вход.
type AuthService struct {
	users       UserRepository
	tokens      TokenCache
	notifier    Notifier
	jwtMaker    jwt.Maker
	frontendURL string
	log         *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, tokens TokenCache, notifier Notifier,
	jwtMaker jwt.Maker, frontendURL string, log *slog.Logger) *AuthService {
	return &AuthService{
		users:       users,
		tokens:      tokens,
		notifier:    notifier,
		jwtMaker:    jwtMaker,
		frontendURL: frontendURL,
		log:         log,
	}
}

// Register создает нового пользователя с хэшированием пароля, кладет токен
// подтверждения почты в кэш и ставит в очередь письмо со ссылкой.
func (s *AuthService) Register(ctx context.Context, fullname, email, rawPassword string) (string, error) {
	const op = "services.auth.Register"

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	user := models.User{
		Fullname:     fullname,
		Email:        email,
		PasswordHash: hashed,
	}
	uid, err := s.users.CreateUser(ctx, user)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	token := uuid.NewString()
	if err := s.tokens.Set(verificationKey(token), email, verificationTokenTTL); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	link := fmt.Sprintf("%s/verify-email?token=%s", s.frontendURL, token)
	if err := s.notifier.Publish(rabbitmq.VerificationRoutingKey, models.VerificationNotification{
		Email:    email,
		Fullname: fullname,
		Link:     link,
	}); err != nil {
		// Учётная запись уже создана, сбой очереди только логируем
		s.log.Error("failed to enqueue verification email", sl.Err(err))
	}

	return uid, nil
}

// VerifyEmail подтверждает почту по токену из письма.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	const op = "services.auth.VerifyEmail"

	var email string
	found, err := s.tokens.Get(verificationKey(token), &email)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		return ErrTokenInvalid
	}

	if err := s.users.MarkEmailVerified(ctx, email); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.tokens.Invalidate(verificationKey(token)); err != nil {
		s.log.Error("failed to invalidate verification token", sl.Err(err))
	}
	return nil
}

// Login проверяет пароль и этапы активации учётной записи, генерирует JWT.
// Этапы проверяются по порядку: почта, оплата, реферальный код.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (string, error) {
	const op = "services.auth.Login"

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", ErrInvalidCredentials
	}

	switch {
	case !user.IsEmailVerified:
		return "", ErrEmailNotVerified
	case !user.HasPaid:
		return "", ErrPaymentRequired
	case !user.IsReferralVerified:
		return "", ErrReferralNotVerified
	}

	token, err := s.jwtMaker.GenerateToken(user.Email, user.UID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return token, nil
}

// Profile возвращает учётную запись пользователя по email.
func (s *AuthService) Profile(ctx context.Context, email string) (*models.User, error) {
	return s.users.GetUserByEmail(ctx, email)
}

func verificationKey(token string) string {
	return "verify:" + token
}
