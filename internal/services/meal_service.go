package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/walklet/walklet-backend/internal/dto"
	"github.com/walklet/walklet-backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrInvalidMealType = errors.New("invalid meal type: must be breakfast, lunch, or dinner")
	ErrDailyMealLimit  = errors.New("daily meal analysis limit reached (3 per day)")
	ErrMealTypeTaken   = errors.New("this meal type was already analyzed today")
	ErrEmptyImage      = errors.New("image upload is empty")
)

const maxMealsPerDay = 3

// SourceEstimate marks the size-keyed photo estimation item. There is no
// recognition model behind it; the estimate is a deterministic function of
// the upload byte size.
const SourceEstimate = "estimate"

type MealService struct {
	db        *gorm.DB
	nutrition *NutritionService
}

func NewMealService(db *gorm.DB, nutrition *NutritionService) *MealService {
	return &MealService{db: db, nutrition: nutrition}
}

// Analyze scores a meal photo. mealType is optional; hint, when given, is a
// food name resolved through the nutrition service and added to the breakdown.
func (s *MealService) Analyze(userID uuid.UUID, mealType string, imageSize int64, hint string) (*models.MealAnalysis, []dto.MealItem, error) {
	if imageSize <= 0 {
		return nil, nil, ErrEmptyImage
	}
	if mealType != "" && !models.ValidMealType(mealType) {
		return nil, nil, ErrInvalidMealType
	}

	if err := s.checkDailyLimits(userID, mealType); err != nil {
		return nil, nil, err
	}

	items := []dto.MealItem{estimateFromSize(imageSize)}
	if hint != "" {
		looked := s.nutrition.Lookup(hint)
		items = append(items, dto.MealItem{
			Name:     looked.Name,
			Calories: looked.Calories,
			ProteinG: looked.ProteinG,
			CarbsG:   looked.CarbsG,
			FatG:     looked.FatG,
			Source:   looked.Source,
		})
	}

	analysis := models.MealAnalysis{
		ID:     uuid.New(),
		UserID: userID,
	}
	for _, item := range items {
		analysis.Calories += item.Calories
		analysis.ProteinG += item.ProteinG
		analysis.CarbsG += item.CarbsG
		analysis.FatG += item.FatG
	}
	if mealType != "" {
		mt := mealType
		analysis.MealType = &mt
	}

	if b, err := json.Marshal(items); err == nil {
		analysis.Items = datatypes.JSON(b)
	}

	if err := s.db.Create(&analysis).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to store meal analysis: %w", err)
	}

	return &analysis, items, nil
}

// GetUserMeals returns paginated analyses, newest first.
func (s *MealService) GetUserMeals(userID uuid.UUID, limit int, offset int) ([]models.MealAnalysis, int64, error) {
	var meals []models.MealAnalysis
	var total int64

	s.db.Model(&models.MealAnalysis{}).Where("user_id = ?", userID).Count(&total)

	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&meals).Error

	return meals, total, err
}

func (s *MealService) checkDailyLimits(userID uuid.UUID, mealType string) error {
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var count int64
	err := s.db.Model(&models.MealAnalysis{}).
		Where("user_id = ? AND created_at >= ?", userID, startOfDay).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to count today's analyses: %w", err)
	}
	if count >= maxMealsPerDay {
		return ErrDailyMealLimit
	}

	if mealType != "" {
		var typed int64
		err := s.db.Model(&models.MealAnalysis{}).
			Where("user_id = ? AND created_at >= ? AND meal_type = ?", userID, startOfDay, mealType).
			Count(&typed).Error
		if err != nil {
			return fmt.Errorf("failed to count today's typed analyses: %w", err)
		}
		if typed > 0 {
			return ErrMealTypeTaken
		}
	}

	return nil
}

func estimateFromSize(size int64) dto.MealItem {
	calories := float64(150 + size%600)
	return dto.MealItem{
		Name:     "photo estimate",
		Calories: calories,
		ProteinG: roundTenth(calories * 0.05),
		CarbsG:   roundTenth(calories * 0.12),
		FatG:     roundTenth(calories * 0.035),
		Source:   SourceEstimate,
	}
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
