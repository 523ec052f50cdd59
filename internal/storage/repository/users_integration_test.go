package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/cashplane/internal/models"
)

func TestStorage_CreateAndGetUser(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	uid, err := storage.CreateUser(context.Background(), models.User{
		Fullname:     "Test User",
		Email:        "test@example.com",
		PasswordHash: "hashedpassword",
	})
	require.NoError(t, err)
	require.NotEmpty(t, uid)

	got, err := storage.GetUserByEmail(context.Background(), "test@example.com")
	require.NoError(t, err)
	assert.Equal(t, uid, got.UID)
	assert.Equal(t, "Test User", got.Fullname)
	assert.False(t, got.IsEmailVerified)
	assert.False(t, got.HasPaid)
	assert.False(t, got.IsReferralVerified)
	assert.Nil(t, got.ReferralCode)
}

func TestStorage_GetUserByEmail_NotFound(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	_, err := storage.GetUserByEmail(context.Background(), "nobody@example.com")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestStorage_MarkEmailVerified(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	factory.CreateUser(t, "Test User", "test@example.com", "hashedpassword")

	err := storage.MarkEmailVerified(context.Background(), "test@example.com")
	require.NoError(t, err)

	got, err := storage.GetUserByEmail(context.Background(), "test@example.com")
	require.NoError(t, err)
	assert.True(t, got.IsEmailVerified)

	err = storage.MarkEmailVerified(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestStorage_MarkPaidIfUnpaid(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	factory.CreateUser(t, "Test User", "test@example.com", "hashedpassword")

	applied, err := storage.MarkPaidIfUnpaid(context.Background(), "test@example.com", "AB12CD34")
	require.NoError(t, err)
	assert.True(t, applied)

	verification := NewTestVerification(storage)
	verification.VerifyPaymentState(t, "test@example.com", true, "AB12CD34")

	// Повторная доставка того же события не должна перезаписать код
	applied, err = storage.MarkPaidIfUnpaid(context.Background(), "test@example.com", "ZZ99XX00")
	require.NoError(t, err)
	assert.False(t, applied)
	verification.VerifyPaymentState(t, "test@example.com", true, "AB12CD34")
}

func TestStorage_MarkPaidIfUnpaid_UnknownUser(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	applied, err := storage.MarkPaidIfUnpaid(context.Background(), "nobody@example.com", "AB12CD34")
	require.NoError(t, err)
	assert.False(t, applied)
}

func TestStorage_ReferralCodeExists(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	factory.CreatePaidUser(t, "Paid User", "paid@example.com", "hashedpassword", "AB12CD34")

	exists, err := storage.ReferralCodeExists(context.Background(), "AB12CD34")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = storage.ReferralCodeExists(context.Background(), "FREECODE")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestStorage_MarkReferralVerified(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	factory.CreatePaidUser(t, "Paid User", "paid@example.com", "hashedpassword", "AB12CD34")

	err := storage.MarkReferralVerified(context.Background(), "paid@example.com")
	require.NoError(t, err)

	got, err := storage.GetUserByEmail(context.Background(), "paid@example.com")
	require.NoError(t, err)
	assert.True(t, got.IsReferralVerified)
}
