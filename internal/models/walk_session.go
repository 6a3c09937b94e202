package models

import (
	"time"

	"github.com/google/uuid"
)

// WalkSession is one recorded walking interval. Sessions are immutable once
// created; the (user_id, started_at) pair is unique and duplicate submissions
// are treated as idempotent no-ops.
type WalkSession struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_walk_user_start" json:"user_id"`
	StartedAt   time.Time `gorm:"not null;uniqueIndex:idx_walk_user_start" json:"started_at"`
	EndedAt     time.Time `gorm:"not null" json:"ended_at"`
	DurationSec int       `gorm:"not null;default:0" json:"duration_sec"`
	DistanceM   float64   `gorm:"not null;default:0" json:"distance_m"`
	Steps       int       `gorm:"not null;default:0" json:"steps"`
	CreatedAt   time.Time `json:"created_at"`
	User        User      `gorm:"foreignKey:UserID" json:"-"`
}
