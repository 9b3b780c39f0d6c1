package services

import (
	"context"
	"sort"
)

// ---------- Meal ranking ----------

type RankedMeal struct {
	Rank          int     `json:"rank"` // 1-indexed within its list
	ResponseScore float64 `json:"response_score"`
	MealResponse
}

type BestWorstMeals struct {
	Best  []RankedMeal `json:"best"`
	Worst []RankedMeal `json:"worst"`
}

// responseScore is the composite used for ranking: raw rise, plus penalties
// for high absolute peaks, very fast onset, and slow return to baseline.
// Lower is better.
func responseScore(r MealResponse) float64 {
	score := r.GlucoseRise
	if r.GlucosePeak > 180 {
		score += (r.GlucosePeak - 180) * 0.5
	}
	if r.PeakTimeMinutes < 30 {
		score += 10
	}
	if r.TimeToReturnMinutes != nil && *r.TimeToReturnMinutes > 180 {
		score += 20
	}
	return score
}

// GetBestAndWorstMeals ranks the lookback window's qualifying meals by
// composite response score. best[0] is the lowest-scoring meal, worst[0] the
// highest; ranks restart at 1 within each list.
func (s *AnalyticsService) GetBestAndWorstMeals(ctx context.Context, userID uint, limit int) (*BestWorstMeals, error) {
	responses, err := s.GetMealResponses(ctx, userID, s.cfg.DefaultLookbackDays)
	if err != nil {
		return nil, err
	}
	return rankMeals(responses, limit), nil
}

func rankMeals(responses []MealResponse, limit int) *BestWorstMeals {
	if limit <= 0 {
		limit = 5
	}

	scored := make([]RankedMeal, 0, len(responses))
	for _, r := range responses {
		scored = append(scored, RankedMeal{ResponseScore: responseScore(r), MealResponse: r})
	}

	out := &BestWorstMeals{Best: []RankedMeal{}, Worst: []RankedMeal{}}

	asc := make([]RankedMeal, len(scored))
	copy(asc, scored)
	sort.SliceStable(asc, func(i, j int) bool { return asc[i].ResponseScore < asc[j].ResponseScore })
	for i := 0; i < len(asc) && i < limit; i++ {
		m := asc[i]
		m.Rank = i + 1
		out.Best = append(out.Best, m)
	}

	desc := make([]RankedMeal, len(scored))
	copy(desc, scored)
	sort.SliceStable(desc, func(i, j int) bool { return desc[i].ResponseScore > desc[j].ResponseScore })
	for i := 0; i < len(desc) && i < limit; i++ {
		m := desc[i]
		m.Rank = i + 1
		out.Worst = append(out.Worst, m)
	}

	return out
}
