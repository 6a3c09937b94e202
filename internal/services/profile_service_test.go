package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/walklet/walklet-backend/internal/dto"
	"github.com/walklet/walklet-backend/internal/models"
)

func seedProfileUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{ID: uuid.New(), Email: email}
	require.NoError(t, db.Create(user).Error)
	return user
}

func strPtr(s string) *string   { return &s }
func intPtr(i int) *int         { return &i }
func f64Ptr(f float64) *float64 { return &f }

func TestProfileGet(t *testing.T) {
	db := newTestDB(t)
	svc := NewProfileService(db)
	user := seedProfileUser(t, db, "get@walklet.test")

	got, err := svc.Get(user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)

	_, err = svc.Get(uuid.New())
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestProfileUpdatePartial(t *testing.T) {
	db := newTestDB(t)
	svc := NewProfileService(db)
	user := seedProfileUser(t, db, "partial@walklet.test")

	updated, err := svc.Update(user.ID, &dto.UpdateProfileRequest{
		Username:      strPtr("  Strider "),
		Age:           intPtr(34),
		DailyStepGoal: intPtr(12000),
	})
	require.NoError(t, err)

	require.NotNil(t, updated.Username)
	assert.Equal(t, "strider", *updated.Username)
	require.NotNil(t, updated.Age)
	assert.Equal(t, 34, *updated.Age)
	require.NotNil(t, updated.DailyStepGoal)
	assert.Equal(t, 12000, *updated.DailyStepGoal)
	assert.Nil(t, updated.WeightKg, "untouched fields stay unset")

	// A later update of one field must not clear the others.
	updated, err = svc.Update(user.ID, &dto.UpdateProfileRequest{WeightKg: f64Ptr(72.5)})
	require.NoError(t, err)
	require.NotNil(t, updated.Username)
	assert.Equal(t, "strider", *updated.Username)
	require.NotNil(t, updated.WeightKg)
	assert.Equal(t, 72.5, *updated.WeightKg)
}

func TestProfileUpdateValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewProfileService(db)
	user := seedProfileUser(t, db, "invalid@walklet.test")

	_, err := svc.Update(user.ID, &dto.UpdateProfileRequest{Username: strPtr("ab")})
	require.ErrorIs(t, err, ErrInvalidProfile)

	_, err = svc.Update(user.ID, &dto.UpdateProfileRequest{Age: intPtr(200)})
	require.ErrorIs(t, err, ErrInvalidProfile)

	_, err = svc.Update(user.ID, &dto.UpdateProfileRequest{WeightKg: f64Ptr(-1)})
	require.ErrorIs(t, err, ErrInvalidProfile)

	_, err = svc.Update(user.ID, &dto.UpdateProfileRequest{HeightCm: f64Ptr(0)})
	require.ErrorIs(t, err, ErrInvalidProfile)

	_, err = svc.Update(user.ID, &dto.UpdateProfileRequest{DailyStepGoal: intPtr(-10)})
	require.ErrorIs(t, err, ErrInvalidProfile)
}

func TestProfileUpdateUsernameConflict(t *testing.T) {
	db := newTestDB(t)
	svc := NewProfileService(db)
	taken := seedProfileUser(t, db, "taken@walklet.test")
	_, err := svc.Update(taken.ID, &dto.UpdateProfileRequest{Username: strPtr("pioneer")})
	require.NoError(t, err)

	user := seedProfileUser(t, db, "conflict@walklet.test")
	_, err = svc.Update(user.ID, &dto.UpdateProfileRequest{Username: strPtr("Pioneer")})
	require.ErrorIs(t, err, ErrUsernameTaken)

	// Re-submitting one's own username is not a conflict.
	_, err = svc.Update(taken.ID, &dto.UpdateProfileRequest{Username: strPtr("pioneer")})
	require.NoError(t, err)
}

func TestProfileUpdateNoFields(t *testing.T) {
	db := newTestDB(t)
	svc := NewProfileService(db)
	user := seedProfileUser(t, db, "noop@walklet.test")

	got, err := svc.Update(user.ID, &dto.UpdateProfileRequest{})
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)
}
