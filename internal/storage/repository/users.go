package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/cashplane/internal/models"
)

// CreateUser сохраняет нового пользователя в базу данных и возвращает его UID.
// Все флаги активации выставляются в false, реферальный код пустой.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID string
	query := `INSERT INTO users (fullname, email, password_hash)
			  VALUES ($1, $2, $3)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Fullname, user.Email, user.PasswordHash).Scan(&newID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetUserByEmail возвращает пользователя по его email.
// Если запись отсутствует, возвращает ErrUserNotFound.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, fullname, email, password_hash, is_email_verified,
			      has_paid, is_referral_verified, referral_code, created_at
			  FROM users
			  WHERE email = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, email)

	var referralCode sql.NullString
	if err := row.Scan(&u.UID, &u.Fullname, &u.Email, &u.PasswordHash,
		&u.IsEmailVerified, &u.HasPaid, &u.IsReferralVerified, &referralCode,
		&u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if referralCode.Valid {
		u.ReferralCode = &referralCode.String
	}
	return u, nil
}

// MarkEmailVerified отмечает почту пользователя подтверждённой.
func (s *Storage) MarkEmailVerified(ctx context.Context, email string) error {
	const op = "storage.MarkEmailVerified"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET is_email_verified = TRUE
			  WHERE email = $1`
	res, err := s.DB.ExecContext(ctx, query, email)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	return nil
}

// MarkPaidIfUnpaid условно отмечает пользователя оплатившим и записывает
// реферальный код. Обновление применяется только если has_paid сейчас FALSE,
// поэтому повторная доставка webhook-события не перезапишет код.
// Возвращает true, если обновление действительно применилось.
func (s *Storage) MarkPaidIfUnpaid(ctx context.Context, email, referralCode string) (bool, error) {
	const op = "storage.MarkPaidIfUnpaid"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET has_paid = TRUE,
			      referral_code = $1
			  WHERE email = $2 AND has_paid = FALSE`
	res, err := s.DB.ExecContext(ctx, query, referralCode, email)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return affected > 0, nil
}

// MarkReferralVerified отмечает реферальный код пользователя подтверждённым.
func (s *Storage) MarkReferralVerified(ctx context.Context, email string) error {
	const op = "storage.MarkReferralVerified"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET is_referral_verified = TRUE
			  WHERE email = $1`
	res, err := s.DB.ExecContext(ctx, query, email)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	return nil
}

// ReferralCodeExists проверяет, выдан ли уже такой реферальный код кому-либо.
func (s *Storage) ReferralCodeExists(ctx context.Context, code string) (bool, error) {
	const op = "storage.ReferralCodeExists"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT EXISTS (SELECT 1 FROM users WHERE referral_code = $1)`
	var exists bool
	if err := s.DB.QueryRowContext(ctx, query, code).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}
