package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

var MealTypes = []string{"breakfast", "lunch", "dinner"}

// MealAnalysis is one scored meal-photo submission. At most 3 per user per
// local calendar day, and at most 1 per (day, meal type) when a meal type is
// given. Rows are never mutated after creation.
type MealAnalysis struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	MealType *string   `gorm:"size:20" json:"meal_type,omitempty"`

	Calories float64 `gorm:"not null;default:0" json:"calories"`
	ProteinG float64 `gorm:"not null;default:0" json:"protein_g"`
	CarbsG   float64 `gorm:"not null;default:0" json:"carbs_g"`
	FatG     float64 `gorm:"not null;default:0" json:"fat_g"`

	// Per-item breakdown of the analysis (food label, macros, lookup source).
	Items datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"items"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
}

func ValidMealType(t string) bool {
	for _, m := range MealTypes {
		if m == t {
			return true
		}
	}
	return false
}
