package rewards

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/walklet/walklet-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrUserNotFound = errors.New("user not found")

// NonceSequencer hands out strictly increasing per-user voucher nonces.
type NonceSequencer interface {
	NextNonce(userID uuid.UUID) (int64, error)
}

// GormNonceSequencer increments last_reward_nonce with a single atomic
// UPDATE ... RETURNING round trip, so two concurrent voucher requests for the
// same user can never observe the same nonce.
type GormNonceSequencer struct {
	db *gorm.DB
}

func NewGormNonceSequencer(db *gorm.DB) *GormNonceSequencer {
	return &GormNonceSequencer{db: db}
}

func (s *GormNonceSequencer) NextNonce(userID uuid.UUID) (int64, error) {
	var user models.User
	result := s.db.Model(&user).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "last_reward_nonce"}}}).
		Where("id = ?", userID).
		UpdateColumn("last_reward_nonce", gorm.Expr("last_reward_nonce + 1"))
	if result.Error != nil {
		return 0, fmt.Errorf("nonce failure: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, ErrUserNotFound
	}
	return user.LastRewardNonce, nil
}
