package services

import (
	"context"
	"fmt"
	"strings"
)

// ---------- Pattern insights ----------

// Insight thresholds. Each insight requires a minimum of supporting data;
// when unmet it is simply not emitted, never weakened.
const (
	insightMinFoodOccurrences = 3
	insightMaxNamedFoods      = 3
	insightMinTimingSamples   = 5
	insightTimingRiseGap      = 20 // mg/dL between best and worst hour
	insightMinResponses       = 5
	insightGoodShare          = 0.6
	insightPoorShare          = 0.4
)

type MealPatternInsight struct {
	Type       string `json:"type"`     // "positive" | "negative" | "neutral"
	Category   string `json:"category"` // "food" | "timing" | "overall"
	Title      string `json:"title"`
	Message    string `json:"message"`
	SampleSize int    `json:"sample_size"`
}

// GetMealPatternInsights composes food-impact, ranking and timing output into
// short descriptive statements. Purely observational; nothing here predicts
// or diagnoses.
func (s *AnalyticsService) GetMealPatternInsights(ctx context.Context, userID uint) ([]MealPatternInsight, error) {
	responses, err := s.GetMealResponses(ctx, userID, s.cfg.DefaultLookbackDays)
	if err != nil {
		return nil, err
	}
	carbs := func(name string) float64 {
		if s.nutrition == nil {
			return 0
		}
		return s.nutrition.CarbsPerServing(ctx, name)
	}
	impacts := scoreFoodImpacts(responses, carbs, s.cfg)
	timing := optimalTiming(responses, s.cfg)
	return synthesizeInsights(responses, impacts, timing), nil
}

func synthesizeInsights(responses []MealResponse, impacts []FoodImpactScore, timing []OptimalMealTiming) []MealPatternInsight {
	insights := []MealPatternInsight{}

	// Foods consistently gentle on glucose. At most three are named, and the
	// sample size covers exactly the named foods.
	var gentle []string
	var gentleSamples int
	for _, f := range impacts {
		if f.ImpactRating != "low" || f.Occurrences < insightMinFoodOccurrences {
			continue
		}
		gentle = append(gentle, f.Food)
		gentleSamples += f.Occurrences
		if len(gentle) == insightMaxNamedFoods {
			break
		}
	}
	if len(gentle) > 0 {
		insights = append(insights, MealPatternInsight{
			Type:       "positive",
			Category:   "food",
			Title:      "Foods that sit well with you",
			Message:    fmt.Sprintf("%s have consistently produced small glucose rises in your logged meals.", strings.Join(gentle, ", ")),
			SampleSize: gentleSamples,
		})
	}

	// Foods consistently hard on glucose. Impacts come sorted ascending, so
	// walk from the back to surface the strongest offenders first.
	var harsh []string
	var harshSamples int
	for i := len(impacts) - 1; i >= 0; i-- {
		f := impacts[i]
		if f.ImpactRating != "high" || f.Occurrences < insightMinFoodOccurrences {
			continue
		}
		harsh = append(harsh, f.Food)
		harshSamples += f.Occurrences
		if len(harsh) == insightMaxNamedFoods {
			break
		}
	}
	if len(harsh) > 0 {
		insights = append(insights, MealPatternInsight{
			Type:       "negative",
			Category:   "food",
			Title:      "Foods worth watching",
			Message:    fmt.Sprintf("%s have been followed by large glucose rises in your logged meals.", strings.Join(harsh, ", ")),
			SampleSize: harshSamples,
		})
	}

	// Meal types where timing visibly matters.
	for _, t := range timing {
		if t.SampleSize < insightMinTimingSamples {
			continue
		}
		if t.WorstHourAvgRise-t.BestHourAvgRise < insightTimingRiseGap {
			continue
		}
		insights = append(insights, MealPatternInsight{
			Type:     "neutral",
			Category: "timing",
			Title:    fmt.Sprintf("Timing matters for %s", t.MealType),
			Message: fmt.Sprintf("Your %s meals around %s averaged %.0f mg/dL less rise than those around %s.",
				t.MealType, formatHour(t.BestHour), t.WorstHourAvgRise-t.BestHourAvgRise, formatHour(t.WorstHour)),
			SampleSize: t.SampleSize,
		})
	}

	// Overall rating mix.
	if len(responses) >= insightMinResponses {
		var good, poor int
		for _, r := range responses {
			switch r.ResponseRating {
			case RatingExcellent, RatingGood:
				good++
			case RatingPoor:
				poor++
			}
		}
		n := float64(len(responses))
		if float64(good)/n >= insightGoodShare {
			insights = append(insights, MealPatternInsight{
				Type:       "positive",
				Category:   "overall",
				Title:      "Most meals are landing well",
				Message:    fmt.Sprintf("%d of your last %d analyzed meals had a good or excellent glucose response.", good, len(responses)),
				SampleSize: len(responses),
			})
		} else if float64(poor)/n >= insightPoorShare {
			insights = append(insights, MealPatternInsight{
				Type:       "negative",
				Category:   "overall",
				Title:      "Many meals are running high",
				Message:    fmt.Sprintf("%d of your last %d analyzed meals had a poor glucose response. The food impact list may help pinpoint why.", poor, len(responses)),
				SampleSize: len(responses),
			})
		}
	}

	return insights
}
