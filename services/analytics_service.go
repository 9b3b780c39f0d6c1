package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"backend/models"
)

// ---------- Collaborator contracts ----------

// The engine never touches the store directly; it sees read-only sources.
// MealService, GlucoseService and FoodService implement these over GORM.

type MealSource interface {
	ListMealsSince(ctx context.Context, userID uint, since time.Time) ([]models.Meal, error)
}

type GlucoseSource interface {
	ListReadings(ctx context.Context, userID uint, from, to time.Time) ([]models.GlucoseReading, error)
}

type NutritionSource interface {
	CarbsPerServing(ctx context.Context, name string) float64
}

// ---------- Tunables ----------

// AnalysisConfig collects every threshold the engine uses so they can be
// tuned and tested without code changes.
type AnalysisConfig struct {
	WindowBefore        time.Duration // evaluation window start, before meal time
	WindowAfter         time.Duration // evaluation window end, after meal time
	DefaultTolerance    time.Duration // baseline sample matching
	CheckpointTolerance time.Duration // 1h/2h checkpoint matching
	ReturnBand          float64       // mg/dL above baseline that counts as "returned"
	MinWindowSamples    int           // below this the meal is dropped
	MinFoodOccurrences  int
	MinPairingSamples   int
	MinTimingResponses  int // per meal type, below this the static default is used
	MinHourSamples      int // per hour-of-day bucket
	DefaultLookbackDays int
	TimingLookbackDays  int
}

func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		WindowBefore:        30 * time.Minute,
		WindowAfter:         180 * time.Minute,
		DefaultTolerance:    60 * time.Minute,
		CheckpointTolerance: 30 * time.Minute,
		ReturnBand:          20,
		MinWindowSamples:    2,
		MinFoodOccurrences:  2,
		MinPairingSamples:   2,
		MinTimingResponses:  3,
		MinHourSamples:      2,
		DefaultLookbackDays: 30,
		TimingLookbackDays:  90,
	}
}

// ---------- Response rating ----------

type ResponseRating string

const (
	RatingExcellent ResponseRating = "excellent"
	RatingGood      ResponseRating = "good"
	RatingModerate  ResponseRating = "moderate"
	RatingPoor      ResponseRating = "poor"
)

// Tiers are checked in order, first match wins; both bounds must hold.
var responseRatingTiers = []struct {
	MaxRise float64
	MaxPeak float64
	Rating  ResponseRating
}{
	{MaxRise: 30, MaxPeak: 140, Rating: RatingExcellent},
	{MaxRise: 50, MaxPeak: 160, Rating: RatingGood},
	{MaxRise: 80, MaxPeak: 180, Rating: RatingModerate},
}

func rateResponse(rise, peak float64) ResponseRating {
	for _, t := range responseRatingTiers {
		if rise <= t.MaxRise && peak <= t.MaxPeak {
			return t.Rating
		}
	}
	return RatingPoor
}

// ---------- Derived types ----------

// MealResponse is the per-meal glycemic response curve summary. It is rebuilt
// from the current meal/reading snapshot on every call and never persisted.
type MealResponse struct {
	MealID              uint           `json:"meal_id"`
	MealName            string         `json:"meal_name"`
	MealType            string         `json:"meal_type"`
	MealTime            time.Time      `json:"meal_time"`
	TotalCarbs          float64        `json:"total_carbs"`
	GlucoseBefore       float64        `json:"glucose_before"`
	GlucoseAt1h         *float64       `json:"glucose_at_1h,omitempty"`
	GlucoseAt2h         *float64       `json:"glucose_at_2h,omitempty"`
	GlucosePeak         float64        `json:"glucose_peak"`
	PeakTimeMinutes     int            `json:"peak_time_minutes"`
	GlucoseRise         float64        `json:"glucose_rise"`
	TimeToReturnMinutes *int           `json:"time_to_return_minutes,omitempty"`
	AreaUnderCurve      float64        `json:"area_under_curve"` // mg/dL·min above baseline
	ResponseRating      ResponseRating `json:"response_rating"`
	Foods               []string       `json:"foods"`
}

// ---------- Service ----------

type AnalyticsService struct {
	meals     MealSource
	glucose   GlucoseSource
	nutrition NutritionSource
	cfg       AnalysisConfig
}

func NewAnalyticsService(meals MealSource, glucose GlucoseSource, nutrition NutritionSource, cfg AnalysisConfig) *AnalyticsService {
	return &AnalyticsService{meals: meals, glucose: glucose, nutrition: nutrition, cfg: cfg}
}

// GetMealResponses builds one response record per meal in the lookback window
// that has enough surrounding glucose data, newest meal first. Meals without a
// qualifying baseline or enough window samples are silently excluded.
func (s *AnalyticsService) GetMealResponses(ctx context.Context, userID uint, days int) ([]MealResponse, error) {
	if days <= 0 {
		days = s.cfg.DefaultLookbackDays
	}
	since := time.Now().AddDate(0, 0, -days)

	meals, err := s.meals.ListMealsSince(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("fetch meals: %w", err)
	}
	if len(meals) == 0 {
		return []MealResponse{}, nil
	}

	// One readings fetch covering every meal's evaluation window.
	from, to := meals[0].AteAt, meals[0].AteAt
	for _, m := range meals[1:] {
		if m.AteAt.Before(from) {
			from = m.AteAt
		}
		if m.AteAt.After(to) {
			to = m.AteAt
		}
	}
	readings, err := s.glucose.ListReadings(ctx, userID, from.Add(-s.cfg.WindowBefore), to.Add(s.cfg.WindowAfter))
	if err != nil {
		return nil, fmt.Errorf("fetch glucose readings: %w", err)
	}
	// Source promises ascending order; don't trust it.
	sort.SliceStable(readings, func(i, j int) bool {
		return readings[i].RecordedAt.Before(readings[j].RecordedAt)
	})

	out := make([]MealResponse, 0, len(meals))
	for _, m := range meals {
		if r := s.extractResponse(m, readings); r != nil {
			out = append(out, *r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MealTime.After(out[j].MealTime)
	})
	return out, nil
}

// ---------- Response curve extraction ----------

// closestReading returns the reading nearest to target, or nil if none lies
// within tolerance. Ties keep the first-encountered reading, which is stable
// for time-sorted input.
func closestReading(readings []models.GlucoseReading, target time.Time, tolerance time.Duration) *models.GlucoseReading {
	var best *models.GlucoseReading
	var bestDiff time.Duration
	for i := range readings {
		diff := readings[i].RecordedAt.Sub(target)
		if diff < 0 {
			diff = -diff
		}
		if diff > tolerance {
			continue
		}
		if best == nil || diff < bestDiff {
			best = &readings[i]
			bestDiff = diff
		}
	}
	return best
}

// extractResponse derives the response curve for one meal from a time-sorted
// reading series. Returns nil when the meal lacks adequate surrounding data.
func (s *AnalyticsService) extractResponse(meal models.Meal, series []models.GlucoseReading) *MealResponse {
	cfg := s.cfg
	start := meal.AteAt.Add(-cfg.WindowBefore)
	end := meal.AteAt.Add(cfg.WindowAfter)

	var window []models.GlucoseReading
	for _, r := range series {
		if !r.RecordedAt.Before(start) && !r.RecordedAt.After(end) {
			window = append(window, r)
		}
	}
	if len(window) < cfg.MinWindowSamples {
		return nil
	}

	baseline := closestReading(window, start, cfg.DefaultTolerance)
	if baseline == nil {
		return nil
	}

	// Peak: maximum value across the window, first occurrence on ties.
	peakIdx := 0
	for i := 1; i < len(window); i++ {
		if window[i].Value > window[peakIdx].Value {
			peakIdx = i
		}
	}
	peak := window[peakIdx]

	resp := &MealResponse{
		MealID:          meal.ID,
		MealName:        mealName(meal),
		MealType:        meal.Type,
		MealTime:        meal.AteAt,
		TotalCarbs:      meal.TotalCarbs,
		GlucoseBefore:   baseline.Value,
		GlucosePeak:     peak.Value,
		PeakTimeMinutes: int(math.Round(peak.RecordedAt.Sub(meal.AteAt).Minutes())),
		GlucoseRise:     peak.Value - baseline.Value,
		Foods:           foodNames(meal),
	}

	if r := closestReading(window, meal.AteAt.Add(time.Hour), cfg.CheckpointTolerance); r != nil {
		v := r.Value
		resp.GlucoseAt1h = &v
	}
	if r := closestReading(window, meal.AteAt.Add(2*time.Hour), cfg.CheckpointTolerance); r != nil {
		v := r.Value
		resp.GlucoseAt2h = &v
	}

	// Return to baseline: first post-peak sample inside the band whose
	// predecessor was still above it, i.e. the actual crossing.
	threshold := baseline.Value + cfg.ReturnBand
	for i := peakIdx + 1; i < len(window); i++ {
		if window[i].Value <= threshold && window[i-1].Value > threshold {
			m := int(math.Round(window[i].RecordedAt.Sub(meal.AteAt).Minutes()))
			resp.TimeToReturnMinutes = &m
			break
		}
	}

	// Hyperglycemic excursion area: trapezoidal, values below baseline
	// clipped to zero before integrating.
	var auc float64
	for i := 1; i < len(window); i++ {
		a := math.Max(0, window[i-1].Value-baseline.Value)
		b := math.Max(0, window[i].Value-baseline.Value)
		dt := window[i].RecordedAt.Sub(window[i-1].RecordedAt).Minutes()
		auc += (a + b) / 2 * dt
	}
	resp.AreaUnderCurve = auc

	resp.ResponseRating = rateResponse(resp.GlucoseRise, resp.GlucosePeak)
	return resp
}

func mealName(meal models.Meal) string {
	if len(meal.Foods) > 0 {
		names := make([]string, 0, 3)
		for _, f := range meal.Foods {
			names = append(names, f.Name)
			if len(names) == 3 {
				break
			}
		}
		return strings.Join(names, ", ")
	}
	if notes := strings.TrimSpace(meal.Notes); notes != "" {
		return notes
	}
	return "Unnamed meal"
}

func foodNames(meal models.Meal) []string {
	names := make([]string, 0, len(meal.Foods))
	for _, f := range meal.Foods {
		names = append(names, f.Name)
	}
	return names
}
