package services

import (
	"context"
	"fmt"
	"sort"
)

// ---------- Timing optimization ----------

type OptimalMealTiming struct {
	MealType         string  `json:"meal_type"`
	BestHour         int     `json:"best_hour"`  // local hour-of-day, 0-23
	WorstHour        int     `json:"worst_hour"` // local hour-of-day, 0-23
	BestHourAvgRise  float64 `json:"best_hour_avg_rise"`
	WorstHourAvgRise float64 `json:"worst_hour_avg_rise"`
	Recommendation   string  `json:"recommendation"`
	SampleSize       int     `json:"sample_size"` // 0 when the static default was used
}

var mealTypes = []string{"breakfast", "lunch", "dinner", "snack"}

// Static fallbacks for meal types without enough history. SampleSize stays 0
// so clients can tell these apart from computed windows.
var defaultMealTiming = map[string]OptimalMealTiming{
	"breakfast": {
		MealType: "breakfast", BestHour: 7, WorstHour: 10,
		Recommendation: "Not enough breakfast history yet. General guidance: an earlier breakfast (around 7:00-8:00) tends to produce a gentler glucose response. Log a few more breakfasts to get a personalized window.",
	},
	"lunch": {
		MealType: "lunch", BestHour: 12, WorstHour: 15,
		Recommendation: "Not enough lunch history yet. General guidance: lunch around 12:00-13:00 works well for most people. Log a few more lunches to get a personalized window.",
	},
	"dinner": {
		MealType: "dinner", BestHour: 18, WorstHour: 21,
		Recommendation: "Not enough dinner history yet. General guidance: earlier dinners (around 18:00-19:00) leave more time for glucose to settle before sleep. Log a few more dinners to get a personalized window.",
	},
	"snack": {
		MealType: "snack", BestHour: 10, WorstHour: 22,
		Recommendation: "Not enough snack history yet. General guidance: mid-morning or mid-afternoon snacks are usually handled better than late-evening ones. Log a few more snacks to get a personalized window.",
	},
}

// GetOptimalMealTiming returns one entry per meal type with the observed
// best/worst hour-of-day by average glucose rise. Meal types with too little
// history get the static default instead of fabricated statistics.
func (s *AnalyticsService) GetOptimalMealTiming(ctx context.Context, userID uint) ([]OptimalMealTiming, error) {
	responses, err := s.GetMealResponses(ctx, userID, s.cfg.TimingLookbackDays)
	if err != nil {
		return nil, err
	}
	return optimalTiming(responses, s.cfg), nil
}

func optimalTiming(responses []MealResponse, cfg AnalysisConfig) []OptimalMealTiming {
	byType := map[string][]MealResponse{}
	for _, r := range responses {
		byType[r.MealType] = append(byType[r.MealType], r)
	}

	out := make([]OptimalMealTiming, 0, len(mealTypes))
	for _, mt := range mealTypes {
		rs := byType[mt]
		if len(rs) < cfg.MinTimingResponses {
			out = append(out, defaultMealTiming[mt])
			continue
		}

		riseByHour := map[int][]float64{}
		for _, r := range rs {
			h := r.MealTime.Hour()
			riseByHour[h] = append(riseByHour[h], r.GlucoseRise)
		}

		hours := make([]int, 0, len(riseByHour))
		for h, v := range riseByHour {
			if len(v) >= cfg.MinHourSamples {
				hours = append(hours, h)
			}
		}
		if len(hours) == 0 {
			out = append(out, defaultMealTiming[mt])
			continue
		}
		sort.Ints(hours)

		timing := OptimalMealTiming{MealType: mt, SampleSize: len(rs)}
		first := true
		for _, h := range hours {
			var sum float64
			for _, v := range riseByHour[h] {
				sum += v
			}
			avg := sum / float64(len(riseByHour[h]))
			if first || avg < timing.BestHourAvgRise {
				timing.BestHour = h
				timing.BestHourAvgRise = round2(avg)
			}
			if first || avg > timing.WorstHourAvgRise {
				timing.WorstHour = h
				timing.WorstHourAvgRise = round2(avg)
			}
			first = false
		}

		timing.Recommendation = fmt.Sprintf(
			"Your %s meals around %s have produced the smallest average glucose rise (%.0f mg/dL); meals around %s have run highest (%.0f mg/dL). Based on %d logged %s meals.",
			mt, formatHour(timing.BestHour), timing.BestHourAvgRise,
			formatHour(timing.WorstHour), timing.WorstHourAvgRise,
			len(rs), mt,
		)
		out = append(out, timing)
	}
	return out
}

func formatHour(h int) string { return fmt.Sprintf("%d:00", h) }
