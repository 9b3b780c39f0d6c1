package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"backend/models"
)

// NutritionClient talks to the external food-database API (Edamam-style
// parser endpoint). Results are cached into the FoodItem catalog by
// FoodService; the analytics engine never calls this directly.
type NutritionClient struct {
	appID, appKey string
	baseURL       string
	client        *http.Client
}

func NewNutritionClient() *NutritionClient {
	base := os.Getenv("FOODDB_BASE_URL")
	if base == "" {
		base = "https://api.edamam.com"
	}
	return &NutritionClient{
		appID:   os.Getenv("FOODDB_APP_ID"),
		appKey:  os.Getenv("FOODDB_APP_KEY"),
		baseURL: base,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type foodParserResponse struct {
	Hints []struct {
		Food struct {
			FoodID    string `json:"foodId"`
			Label     string `json:"label"`
			Category  string `json:"category"`
			Nutrients struct {
				CHOCDF float64 `json:"CHOCDF"` // carbs, g per 100g
			} `json:"nutrients"`
		} `json:"food"`
	} `json:"hints"`
}

// SearchFoods calls the parser endpoint and maps hits to catalog entries.
func (c *NutritionClient) SearchFoods(ctx context.Context, query string) ([]models.FoodItem, error) {
	u := fmt.Sprintf(
		"%s/api/food-database/v2/parser?ingr=%s&app_id=%s&app_key=%s",
		c.baseURL, url.QueryEscape(query), c.appID, c.appKey,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create parser request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call food parser: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read parser response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("food parser API error %d: %s", resp.StatusCode, string(body))
	}

	var pr foodParserResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		return nil, fmt.Errorf("failed to parse food parser JSON: %w", err)
	}

	results := make([]models.FoodItem, 0, len(pr.Hints))
	for _, h := range pr.Hints {
		results = append(results, models.FoodItem{
			ExternalID:      h.Food.FoodID,
			Label:           h.Food.Label,
			Category:        h.Food.Category,
			CarbsPerServing: h.Food.Nutrients.CHOCDF,
		})
	}
	return results, nil
}

// AnalyzeFood calls the nutrients endpoint for a single ingredient and
// flattens the result to a nutrient code map.
func (c *NutritionClient) AnalyzeFood(ctx context.Context, foodID, measureURI string, qty float64) (map[string]float64, error) {
	payload := map[string]interface{}{
		"ingredients": []map[string]interface{}{{
			"quantity":   qty,
			"measureURI": measureURI,
			"foodId":     foodID,
		}},
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal nutrition payload: %w", err)
	}

	u := fmt.Sprintf("%s/api/food-database/v2/nutrients?app_id=%s&app_key=%s", c.baseURL, c.appID, c.appKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("failed to create nutrition request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call nutrition API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read nutrition response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nutrition API error %d: %s", resp.StatusCode, string(body))
	}

	var nr struct {
		TotalNutrients map[string]struct {
			Quantity float64 `json:"quantity"`
		} `json:"totalNutrients"`
	}
	if err := json.Unmarshal(body, &nr); err != nil {
		return nil, fmt.Errorf("failed to parse nutrition JSON: %w", err)
	}

	nut := make(map[string]float64, len(nr.TotalNutrients))
	for k, v := range nr.TotalNutrients {
		nut[k] = v.Quantity
	}
	return nut, nil
}
