package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateWalkRequest struct {
	StartedAt   time.Time `json:"started_at"`
	EndedAt     time.Time `json:"ended_at"`
	DurationSec int       `json:"duration_sec"`
	DistanceM   float64   `json:"distance_m"`
	Steps       int       `json:"steps"`
}

type WalkResponse struct {
	ID          uuid.UUID `json:"id"`
	StartedAt   time.Time `json:"started_at"`
	EndedAt     time.Time `json:"ended_at"`
	DurationSec int       `json:"duration_sec"`
	DistanceM   float64   `json:"distance_m"`
	Steps       int       `json:"steps"`
	CreatedAt   time.Time `json:"created_at"`
}

type WalkListResponse struct {
	Walks []WalkResponse `json:"walks"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

type WalkStatsResponse struct {
	TotalSessions    int64   `json:"total_sessions"`
	TotalSteps       int64   `json:"total_steps"`
	TotalDistanceM   float64 `json:"total_distance_m"`
	TotalDurationSec int64   `json:"total_duration_sec"`
	TodaySteps       int64   `json:"today_steps"`
	TodaySessions    int64   `json:"today_sessions"`
}
