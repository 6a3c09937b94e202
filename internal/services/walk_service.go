package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/walklet/walklet-backend/internal/dto"
	"github.com/walklet/walklet-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrInvalidSession  = errors.New("invalid walk session")
	ErrSessionNotFound = errors.New("walk session not found")
)

type WalkService struct {
	db *gorm.DB
}

func NewWalkService(db *gorm.DB) *WalkService {
	return &WalkService{db: db}
}

// CreateSession records one walking interval. Submissions with the same
// (user, started_at) pair are idempotent: the stored session is returned and
// created is false.
func (s *WalkService) CreateSession(userID uuid.UUID, req *dto.CreateWalkRequest) (*models.WalkSession, bool, error) {
	if req.StartedAt.IsZero() || req.EndedAt.IsZero() {
		return nil, false, fmt.Errorf("%w: started_at and ended_at are required", ErrInvalidSession)
	}
	if req.EndedAt.Before(req.StartedAt) {
		return nil, false, fmt.Errorf("%w: ended_at must not precede started_at", ErrInvalidSession)
	}
	if req.DurationSec < 0 || req.DistanceM < 0 || req.Steps < 0 {
		return nil, false, fmt.Errorf("%w: duration, distance and steps must be non-negative", ErrInvalidSession)
	}

	session := models.WalkSession{
		ID:          uuid.New(),
		UserID:      userID,
		StartedAt:   req.StartedAt,
		EndedAt:     req.EndedAt,
		DurationSec: req.DurationSec,
		DistanceM:   req.DistanceM,
		Steps:       req.Steps,
	}

	result := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "started_at"}},
		DoNothing: true,
	}).Create(&session)
	if result.Error != nil {
		return nil, false, fmt.Errorf("failed to create walk session: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		var existing models.WalkSession
		if err := s.db.Where("user_id = ? AND started_at = ?", userID, req.StartedAt).First(&existing).Error; err != nil {
			return nil, false, fmt.Errorf("failed to load existing walk session: %w", err)
		}
		return &existing, false, nil
	}

	return &session, true, nil
}

// GetUserSessions returns paginated sessions, newest first.
func (s *WalkService) GetUserSessions(userID uuid.UUID, limit int, offset int) ([]models.WalkSession, int64, error) {
	var sessions []models.WalkSession
	var total int64

	s.db.Model(&models.WalkSession{}).Where("user_id = ?", userID).Count(&total)

	err := s.db.Where("user_id = ?", userID).
		Order("started_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&sessions).Error

	return sessions, total, err
}

// GetStats aggregates lifetime and local-calendar-day totals.
func (s *WalkService) GetStats(userID uuid.UUID) (*dto.WalkStatsResponse, error) {
	var stats dto.WalkStatsResponse

	row := struct {
		Sessions int64
		Steps    int64
		Distance float64
		Duration int64
	}{}

	err := s.db.Model(&models.WalkSession{}).
		Select("COUNT(*) as sessions, COALESCE(SUM(steps),0) as steps, COALESCE(SUM(distance_m),0) as distance, COALESCE(SUM(duration_sec),0) as duration").
		Where("user_id = ?", userID).
		Scan(&row).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate walk stats: %w", err)
	}
	stats.TotalSessions = row.Sessions
	stats.TotalSteps = row.Steps
	stats.TotalDistanceM = row.Distance
	stats.TotalDurationSec = row.Duration

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	today := struct {
		Sessions int64
		Steps    int64
	}{}
	err = s.db.Model(&models.WalkSession{}).
		Select("COUNT(*) as sessions, COALESCE(SUM(steps),0) as steps").
		Where("user_id = ? AND started_at >= ?", userID, startOfDay).
		Scan(&today).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate today's walk stats: %w", err)
	}
	stats.TodaySessions = today.Sessions
	stats.TodaySteps = today.Steps

	return &stats, nil
}

// DeleteSession removes a session only if owned by the user. Exposed on a
// dev-only route; sessions are otherwise immutable.
func (s *WalkService) DeleteSession(userID uuid.UUID, sessionID uuid.UUID) error {
	result := s.db.Where("id = ? AND user_id = ?", sessionID, userID).Delete(&models.WalkSession{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete walk session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrSessionNotFound
	}
	return nil
}
