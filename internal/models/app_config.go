package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AppConfig stores client-visible configuration overrides served by
// GET /api/config on top of compiled defaults.
type AppConfig struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Key       string    `gorm:"size:100;not null;uniqueIndex" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	Type      string    `gorm:"size:20;default:'string'" json:"type"` // string, bool, int, json
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ac *AppConfig) BeforeCreate(tx *gorm.DB) error {
	if ac.ID == uuid.Nil {
		ac.ID = uuid.New()
	}
	return nil
}

func (AppConfig) TableName() string {
	return "app_configs"
}
