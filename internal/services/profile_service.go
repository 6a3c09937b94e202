package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/walklet/walklet-backend/internal/dto"
	"github.com/walklet/walklet-backend/internal/models"
	"gorm.io/gorm"
)

var ErrInvalidProfile = errors.New("invalid profile update")

type ProfileService struct {
	db *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

func (s *ProfileService) Get(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

// Update applies a partial profile update. Usernames are stored lower-cased
// and must stay unique.
func (s *ProfileService) Update(userID uuid.UUID, req *dto.UpdateProfileRequest) (*models.User, error) {
	user, err := s.Get(userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}

	if req.Username != nil {
		username := strings.ToLower(strings.TrimSpace(*req.Username))
		if len(username) < 3 || len(username) > 50 {
			return nil, fmt.Errorf("%w: username must be 3-50 characters", ErrInvalidProfile)
		}
		var existing models.User
		if err := s.db.Where("username = ? AND id <> ?", username, userID).First(&existing).Error; err == nil {
			return nil, ErrUsernameTaken
		}
		updates["username"] = username
	}
	if req.Age != nil {
		if *req.Age < 0 || *req.Age > 150 {
			return nil, fmt.Errorf("%w: age out of range", ErrInvalidProfile)
		}
		updates["age"] = *req.Age
	}
	if req.WeightKg != nil {
		if *req.WeightKg <= 0 {
			return nil, fmt.Errorf("%w: weight must be positive", ErrInvalidProfile)
		}
		updates["weight_kg"] = *req.WeightKg
	}
	if req.HeightCm != nil {
		if *req.HeightCm <= 0 {
			return nil, fmt.Errorf("%w: height must be positive", ErrInvalidProfile)
		}
		updates["height_cm"] = *req.HeightCm
	}
	if req.DailyStepGoal != nil {
		if *req.DailyStepGoal < 0 {
			return nil, fmt.Errorf("%w: daily step goal must be non-negative", ErrInvalidProfile)
		}
		updates["daily_step_goal"] = *req.DailyStepGoal
	}

	if len(updates) == 0 {
		return user, nil
	}

	if err := s.db.Model(user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return s.Get(userID)
}
