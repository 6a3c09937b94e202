package dto

import (
	"time"

	"github.com/google/uuid"
)

type ProfileResponse struct {
	ID            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	Username      *string   `json:"username,omitempty"`
	Age           *int      `json:"age,omitempty"`
	WeightKg      *float64  `json:"weight_kg,omitempty"`
	HeightCm      *float64  `json:"height_cm,omitempty"`
	DailyStepGoal *int      `json:"daily_step_goal,omitempty"`
	WalletAddress *string   `json:"wallet_address,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// UpdateProfileRequest carries partial updates; nil fields are left untouched.
type UpdateProfileRequest struct {
	Username      *string  `json:"username,omitempty"`
	Age           *int     `json:"age,omitempty"`
	WeightKg      *float64 `json:"weight_kg,omitempty"`
	HeightCm      *float64 `json:"height_cm,omitempty"`
	DailyStepGoal *int     `json:"daily_step_goal,omitempty"`
}

type WalletResponse struct {
	Address string `json:"address"`
	Created bool   `json:"created"`
}

type WalletExportResponse struct {
	Address    string `json:"address"`
	PrivateKey string `json:"private_key"`
}
