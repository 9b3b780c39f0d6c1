package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"backend/models"
	"backend/utils"

	"gorm.io/gorm"
)

// Alert bounds used when the user has not set their own.
const (
	defaultAlertLow  = 70.0
	defaultAlertHigh = 250.0
)

type GlucoseService struct {
	db  *gorm.DB
	hub *RealtimeHub
}

func NewGlucoseService(db *gorm.DB, hub *RealtimeHub) *GlucoseService {
	return &GlucoseService{db: db, hub: hub}
}

type ReadingInput struct {
	Value      float64   `json:"value" binding:"required"`
	RecordedAt time.Time `json:"recorded_at" binding:"required"`
	Source     string    `json:"source"`
}

// SyncReadings ingests a batch from the device-sync collaborator. Readings
// already stored for the same timestamp are skipped, implausible values are
// rejected, and out-of-range values raise alerts.
func (s *GlucoseService) SyncReadings(ctx context.Context, userID uint, inputs []ReadingInput) ([]models.GlucoseReading, error) {
	if len(inputs) == 0 {
		return []models.GlucoseReading{}, nil
	}

	sorted := make([]ReadingInput, len(inputs))
	copy(sorted, inputs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].RecordedAt.Before(sorted[j].RecordedAt) })

	low, high := s.alertBounds(ctx, userID)

	stored := make([]models.GlucoseReading, 0, len(sorted))
	for _, in := range sorted {
		if err := utils.ValidateGlucoseMgDL(in.Value); err != nil {
			return nil, fmt.Errorf("reading at %s: %w", in.RecordedAt.Format(time.RFC3339), err)
		}

		var count int64
		if err := s.db.WithContext(ctx).
			Model(&models.GlucoseReading{}).
			Where("user_id = ? AND recorded_at = ?", userID, in.RecordedAt).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			continue
		}

		r := models.GlucoseReading{
			UserID:     userID,
			Value:      in.Value,
			RecordedAt: in.RecordedAt,
			Source:     in.Source,
		}
		if err := s.db.WithContext(ctx).Create(&r).Error; err != nil {
			return nil, err
		}
		stored = append(stored, r)

		switch {
		case r.Value <= low:
			EmitAlert(userID, "low_glucose", fmt.Sprintf("Glucose %.0f mg/dL at %s is below your target range.", r.Value, r.RecordedAt.Format("15:04")))
		case r.Value >= high:
			EmitAlert(userID, "high_glucose", fmt.Sprintf("Glucose %.0f mg/dL at %s is above your target range.", r.Value, r.RecordedAt.Format("15:04")))
		}
	}

	if s.hub != nil && len(stored) > 0 {
		s.hub.Broadcast(userID, map[string]any{
			"kind":     "glucose.synced",
			"count":    len(stored),
			"readings": stored,
		})
	}
	return stored, nil
}

// ListReadings returns the user's readings in [from, to], ascending by time.
// The DB orders for us, but the engine depends on the ordering so re-sort
// defensively.
func (s *GlucoseService) ListReadings(ctx context.Context, userID uint, from, to time.Time) ([]models.GlucoseReading, error) {
	var readings []models.GlucoseReading
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND recorded_at >= ? AND recorded_at <= ?", userID, from, to).
		Order("recorded_at ASC").
		Find(&readings).Error
	if err != nil {
		return nil, err
	}
	sort.SliceStable(readings, func(i, j int) bool { return readings[i].RecordedAt.Before(readings[j].RecordedAt) })
	return readings, nil
}

func (s *GlucoseService) ListAlerts(ctx context.Context, userID uint, limit int) ([]models.Alert, error) {
	if limit <= 0 {
		limit = 20
	}
	var alerts []models.Alert
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&alerts).Error
	return alerts, err
}

func (s *GlucoseService) alertBounds(ctx context.Context, userID uint) (low, high float64) {
	low, high = defaultAlertLow, defaultAlertHigh
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, userID).Error; err != nil {
		return low, high
	}
	if u.TargetLow > 0 {
		low = u.TargetLow
	}
	if u.TargetHigh > 0 {
		high = u.TargetHigh
	}
	return low, high
}
