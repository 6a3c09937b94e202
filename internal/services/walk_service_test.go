package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walklet/walklet-backend/internal/dto"
	"github.com/walklet/walklet-backend/internal/models"
)

func walkRequest(start time.Time, steps int) *dto.CreateWalkRequest {
	return &dto.CreateWalkRequest{
		StartedAt:   start,
		EndedAt:     start.Add(30 * time.Minute),
		DurationSec: 1800,
		DistanceM:   2500,
		Steps:       steps,
	}
}

func TestCreateSessionAndIdempotentReplay(t *testing.T) {
	db := newTestDB(t)
	svc := NewWalkService(db)
	userID := uuid.New()
	start := time.Now().Add(-2 * time.Hour).Truncate(time.Second)

	first, created, err := svc.CreateSession(userID, walkRequest(start, 3200))
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 3200, first.Steps)

	// Same (user, started_at): no new row, the stored session comes back.
	replay, created, err := svc.CreateSession(userID, walkRequest(start, 9999))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, replay.ID)
	assert.Equal(t, 3200, replay.Steps)

	var count int64
	db.Model(&models.WalkSession{}).Where("user_id = ?", userID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCreateSessionSameStartDifferentUsers(t *testing.T) {
	db := newTestDB(t)
	svc := NewWalkService(db)
	start := time.Now().Add(-time.Hour).Truncate(time.Second)

	_, created, err := svc.CreateSession(uuid.New(), walkRequest(start, 100))
	require.NoError(t, err)
	assert.True(t, created)

	_, created, err = svc.CreateSession(uuid.New(), walkRequest(start, 200))
	require.NoError(t, err)
	assert.True(t, created, "uniqueness is per user, not global")
}

func TestCreateSessionValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewWalkService(db)
	userID := uuid.New()
	start := time.Now().Add(-time.Hour)

	_, _, err := svc.CreateSession(userID, &dto.CreateWalkRequest{EndedAt: start})
	require.ErrorIs(t, err, ErrInvalidSession)

	_, _, err = svc.CreateSession(userID, &dto.CreateWalkRequest{
		StartedAt: start,
		EndedAt:   start.Add(-time.Minute),
	})
	require.ErrorIs(t, err, ErrInvalidSession)

	bad := walkRequest(start, -5)
	_, _, err = svc.CreateSession(userID, bad)
	require.ErrorIs(t, err, ErrInvalidSession)
}

func TestGetUserSessionsPagination(t *testing.T) {
	db := newTestDB(t)
	svc := NewWalkService(db)
	userID := uuid.New()

	base := time.Now().Add(-24 * time.Hour).Truncate(time.Second)
	for i := 0; i < 5; i++ {
		_, _, err := svc.CreateSession(userID, walkRequest(base.Add(time.Duration(i)*time.Hour), 1000+i))
		require.NoError(t, err)
	}

	sessions, total, err := svc.GetUserSessions(userID, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, sessions, 2)
	assert.True(t, sessions[0].StartedAt.After(sessions[1].StartedAt), "newest first")

	rest, _, err := svc.GetUserSessions(userID, 10, 2)
	require.NoError(t, err)
	assert.Len(t, rest, 3)
}

func TestGetStats(t *testing.T) {
	db := newTestDB(t)
	svc := NewWalkService(db)
	userID := uuid.New()

	yesterday := time.Now().Add(-30 * time.Hour).Truncate(time.Second)
	_, _, err := svc.CreateSession(userID, walkRequest(yesterday, 4000))
	require.NoError(t, err)

	today := time.Now().Add(-time.Hour).Truncate(time.Second)
	_, _, err = svc.CreateSession(userID, walkRequest(today, 2500))
	require.NoError(t, err)

	stats, err := svc.GetStats(userID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalSessions)
	assert.Equal(t, int64(6500), stats.TotalSteps)
	assert.Equal(t, 5000.0, stats.TotalDistanceM)
	assert.Equal(t, int64(3600), stats.TotalDurationSec)
	assert.Equal(t, int64(1), stats.TodaySessions)
	assert.Equal(t, int64(2500), stats.TodaySteps)
}

func TestGetStatsEmpty(t *testing.T) {
	db := newTestDB(t)
	svc := NewWalkService(db)

	stats, err := svc.GetStats(uuid.New())
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.TotalSessions)
	assert.Equal(t, int64(0), stats.TotalSteps)
}

func TestDeleteSessionOwnership(t *testing.T) {
	db := newTestDB(t)
	svc := NewWalkService(db)
	owner := uuid.New()
	start := time.Now().Add(-time.Hour).Truncate(time.Second)

	session, _, err := svc.CreateSession(owner, walkRequest(start, 500))
	require.NoError(t, err)

	err = svc.DeleteSession(uuid.New(), session.ID)
	require.ErrorIs(t, err, ErrSessionNotFound, "another user's delete must not land")

	require.NoError(t, svc.DeleteSession(owner, session.ID))
	err = svc.DeleteSession(owner, session.ID)
	require.ErrorIs(t, err, ErrSessionNotFound)
}
