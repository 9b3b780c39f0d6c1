package services

import (
	"context"
	"fmt"
	"time"

	"backend/models"

	"gorm.io/gorm"
)

var validMealTypes = map[string]bool{
	"breakfast": true,
	"lunch":     true,
	"dinner":    true,
	"snack":     true,
}

type MealService struct {
	db    *gorm.DB
	foods *FoodService
}

func NewMealService(db *gorm.DB, foods *FoodService) *MealService {
	return &MealService{db: db, foods: foods}
}

type MealRequest struct {
	Type       string    `json:"type" binding:"required"`
	AteAt      time.Time `json:"ate_at" binding:"required"`
	TotalCarbs float64   `json:"total_carbs"`
	Notes      string    `json:"notes"`
	Foods      []string  `json:"foods"`
}

// AddMeal logs a meal and snapshots carbs-per-serving for each food from the
// catalog (0 when the food is unknown there).
func (s *MealService) AddMeal(ctx context.Context, userID uint, req MealRequest) (*models.Meal, error) {
	if !validMealTypes[req.Type] {
		return nil, fmt.Errorf("invalid meal type %q", req.Type)
	}

	meal := &models.Meal{
		UserID:     userID,
		Type:       req.Type,
		AteAt:      req.AteAt,
		TotalCarbs: req.TotalCarbs,
		Notes:      req.Notes,
	}
	if err := s.db.WithContext(ctx).Create(meal).Error; err != nil {
		return nil, err
	}

	for _, name := range req.Foods {
		mf := &models.MealFood{
			MealID:          meal.ID,
			Name:            name,
			CarbsPerServing: s.foods.CarbsPerServing(ctx, name),
		}
		if err := s.db.WithContext(ctx).Create(mf).Error; err != nil {
			return nil, err
		}
	}

	// reload with foods
	var populated models.Meal
	if err := s.db.WithContext(ctx).Preload("Foods").First(&populated, meal.ID).Error; err != nil {
		return nil, err
	}
	return &populated, nil
}

func (s *MealService) ListMeals(ctx context.Context, userID uint) ([]models.Meal, error) {
	var meals []models.Meal
	err := s.db.WithContext(ctx).
		Preload("Foods").
		Where("user_id = ?", userID).
		Order("ate_at DESC").
		Find(&meals).Error
	return meals, err
}

// ListMealsSince implements MealSource for the analytics engine.
func (s *MealService) ListMealsSince(ctx context.Context, userID uint, since time.Time) ([]models.Meal, error) {
	var meals []models.Meal
	err := s.db.WithContext(ctx).
		Preload("Foods").
		Where("user_id = ? AND ate_at >= ?", userID, since).
		Order("ate_at DESC").
		Find(&meals).Error
	return meals, err
}

func (s *MealService) GetMeal(ctx context.Context, userID, mealID uint) (*models.Meal, error) {
	var meal models.Meal
	err := s.db.WithContext(ctx).
		Preload("Foods").
		Where("id = ? AND user_id = ?", mealID, userID).
		First(&meal).Error
	if err != nil {
		return nil, err // could be ErrRecordNotFound
	}
	return &meal, nil
}

func (s *MealService) UpdateMeal(ctx context.Context, userID, mealID uint, req MealRequest) (*models.Meal, error) {
	if !validMealTypes[req.Type] {
		return nil, fmt.Errorf("invalid meal type %q", req.Type)
	}

	var meal models.Meal
	if err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", mealID, userID).
		First(&meal).Error; err != nil {
		return nil, err
	}
	meal.Type = req.Type
	meal.AteAt = req.AteAt
	meal.TotalCarbs = req.TotalCarbs
	meal.Notes = req.Notes
	if err := s.db.WithContext(ctx).Save(&meal).Error; err != nil {
		return nil, err
	}

	// replace foods wholesale
	if err := s.db.WithContext(ctx).
		Where("meal_id = ?", meal.ID).
		Delete(&models.MealFood{}).Error; err != nil {
		return nil, err
	}
	for _, name := range req.Foods {
		mf := &models.MealFood{
			MealID:          meal.ID,
			Name:            name,
			CarbsPerServing: s.foods.CarbsPerServing(ctx, name),
		}
		if err := s.db.WithContext(ctx).Create(mf).Error; err != nil {
			return nil, err
		}
	}

	var updated models.Meal
	if err := s.db.WithContext(ctx).Preload("Foods").First(&updated, meal.ID).Error; err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteMeal removes a meal and its food rows. Ownership is checked before
// anything is touched so one user's id guessing cannot destroy another's rows.
func (s *MealService) DeleteMeal(ctx context.Context, userID, mealID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var meal models.Meal
		if err := tx.
			Where("id = ? AND user_id = ?", mealID, userID).
			First(&meal).Error; err != nil {
			return err
		}
		if err := tx.
			Where("meal_id = ?", meal.ID).
			Delete(&models.MealFood{}).Error; err != nil {
			return err
		}
		return tx.Delete(&meal).Error
	})
}
