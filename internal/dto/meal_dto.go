package dto

import (
	"time"

	"github.com/google/uuid"
)

type MealItem struct {
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
	Source   string  `json:"source"` // "api", "fallback", or "estimate"
}

type MealAnalysisResponse struct {
	ID        uuid.UUID  `json:"id"`
	MealType  *string    `json:"meal_type,omitempty"`
	Calories  float64    `json:"calories"`
	ProteinG  float64    `json:"protein_g"`
	CarbsG    float64    `json:"carbs_g"`
	FatG      float64    `json:"fat_g"`
	Items     []MealItem `json:"items"`
	CreatedAt time.Time  `json:"created_at"`
}

type MealListResponse struct {
	Meals []MealAnalysisResponse `json:"meals"`
	Total int64                  `json:"total"`
	Page  int                    `json:"page"`
	Limit int                    `json:"limit"`
}
