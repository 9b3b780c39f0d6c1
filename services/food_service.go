package services

import (
	"context"
	"strings"

	"backend/models"

	"gorm.io/gorm"
)

type FoodService struct {
	db     *gorm.DB
	client *NutritionClient
}

func NewFoodService(db *gorm.DB, client *NutritionClient) *FoodService {
	return &FoodService{db: db, client: client}
}

// Search checks the local catalog first and falls back to the external food
// database, caching whatever comes back.
func (s *FoodService) Search(ctx context.Context, query string) ([]models.FoodItem, error) {
	var cached []models.FoodItem
	if err := s.db.WithContext(ctx).
		Where("label ILIKE ?", "%"+query+"%").
		Limit(20).
		Find(&cached).Error; err != nil {
		return nil, err
	}
	if len(cached) > 0 {
		return cached, nil
	}

	results, err := s.client.SearchFoods(ctx, query)
	if err != nil {
		return nil, err
	}
	for i := range results {
		s.cache(ctx, &results[i])
	}
	return results, nil
}

// CarbsPerServing implements NutritionSource. Returns 0 when the food cannot
// be resolved anywhere; the impact scorer treats that as "unavailable".
func (s *FoodService) CarbsPerServing(ctx context.Context, name string) float64 {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0
	}

	var item models.FoodItem
	err := s.db.WithContext(ctx).
		Where("LOWER(label) = LOWER(?)", name).
		First(&item).Error
	if err == nil {
		return item.CarbsPerServing
	}

	results, err := s.client.SearchFoods(ctx, name)
	if err != nil || len(results) == 0 {
		return 0
	}
	s.cache(ctx, &results[0])
	return results[0].CarbsPerServing
}

// Nutrients resolves the full nutrient breakdown for a known catalog food at
// a given quantity via the external nutrients endpoint.
func (s *FoodService) Nutrients(ctx context.Context, foodID, measureURI string, qty float64) (map[string]float64, error) {
	if qty <= 0 {
		qty = 1
	}
	return s.client.AnalyzeFood(ctx, foodID, measureURI, qty)
}

func (s *FoodService) cache(ctx context.Context, item *models.FoodItem) {
	if item.ExternalID == "" {
		return
	}
	// best effort; a cache miss next time is fine
	_ = s.db.WithContext(ctx).
		Where("external_id = ?", item.ExternalID).
		FirstOrCreate(item).Error
}
