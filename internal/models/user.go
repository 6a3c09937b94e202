package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the Walklet identity record. Email is stored lower-cased and is
// unique; username is optional but unique (lower-cased) when present. The four
// wallet columns are written together by the wallet service and are either all
// present or all absent.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string    `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password     string    `json:"-"`
	Username     *string   `gorm:"size:50;uniqueIndex" json:"username,omitempty"`
	AuthProvider string    `gorm:"size:50;default:'email'" json:"-"`
	GoogleUserID *string   `gorm:"size:255;index" json:"-"`

	Age      *int     `json:"age,omitempty"`
	WeightKg *float64 `json:"weight_kg,omitempty"`
	HeightCm *float64 `json:"height_cm,omitempty"`

	DailyStepGoal *int `json:"daily_step_goal,omitempty"`

	WalletAddress *string `gorm:"size:42;index" json:"wallet_address,omitempty"`
	// Encrypted private-key bundle (AES-256-GCM under the server master key).
	WalletKeyCiphertext *string `gorm:"type:text" json:"-"`
	WalletKeyIV         *string `gorm:"size:64" json:"-"`
	WalletKeyTag        *string `gorm:"size:64" json:"-"`
	WalletKeyAlg        *string `gorm:"size:32" json:"-"`

	// Monotonic counter backing reward voucher nonces. Incremented atomically
	// in the store; never reset.
	LastRewardNonce int64 `gorm:"not null;default:0" json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// HasWallet reports whether the custodial wallet bundle is fully present.
func (u *User) HasWallet() bool {
	return u.WalletAddress != nil && u.WalletKeyCiphertext != nil &&
		u.WalletKeyIV != nil && u.WalletKeyTag != nil && u.WalletKeyAlg != nil
}
