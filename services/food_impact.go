package services

import (
	"context"
	"math"
	"sort"
)

// ---------- Food impact scoring ----------

type FoodPairing struct {
	Food    string  `json:"food"`
	AvgRise float64 `json:"avg_rise"`
	Samples int     `json:"samples"`
}

type FoodImpactScore struct {
	Food               string       `json:"food"`
	Occurrences        int          `json:"occurrences"`
	AvgRise            float64      `json:"avg_rise"`
	AvgPeakTimeMinutes float64      `json:"avg_peak_time_minutes"`
	AvgCarbsPerServing float64      `json:"avg_carbs_per_serving"`
	ImpactScore        float64      `json:"impact_score"`  // 0-100
	ImpactRating       string       `json:"impact_rating"` // "low" | "moderate" | "high"
	BestPairing        *FoodPairing `json:"best_pairing,omitempty"`
	WorstPairing       *FoodPairing `json:"worst_pairing,omitempty"`
	Confidence         string       `json:"confidence"` // "high" | "medium" | "low"
}

// GetFoodImpactScores aggregates meal responses per constituent food,
// gentlest foods first. Foods seen in fewer than MinFoodOccurrences
// qualifying responses are excluded.
func (s *AnalyticsService) GetFoodImpactScores(ctx context.Context, userID uint, days int) ([]FoodImpactScore, error) {
	responses, err := s.GetMealResponses(ctx, userID, days)
	if err != nil {
		return nil, err
	}
	carbs := func(name string) float64 {
		if s.nutrition == nil {
			return 0
		}
		return s.nutrition.CarbsPerServing(ctx, name)
	}
	return scoreFoodImpacts(responses, carbs, s.cfg), nil
}

func scoreFoodImpacts(responses []MealResponse, carbsPerServing func(string) float64, cfg AnalysisConfig) []FoodImpactScore {
	// Each food counts once per meal, however many times it was logged.
	byFood := map[string][]MealResponse{}
	for _, r := range responses {
		for _, f := range distinctFoods(r.Foods) {
			byFood[f] = append(byFood[f], r)
		}
	}

	names := make([]string, 0, len(byFood))
	for name, rs := range byFood {
		if len(rs) >= cfg.MinFoodOccurrences {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	out := make([]FoodImpactScore, 0, len(names))
	for _, name := range names {
		rs := byFood[name]

		var riseSum, peakSum float64
		for _, r := range rs {
			riseSum += r.GlucoseRise
			peakSum += float64(r.PeakTimeMinutes)
		}
		n := float64(len(rs))
		avgRise := riseSum / n
		avgPeak := peakSum / n

		score := FoodImpactScore{
			Food:               name,
			Occurrences:        len(rs),
			AvgRise:            round2(avgRise),
			AvgPeakTimeMinutes: round2(avgPeak),
			AvgCarbsPerServing: carbsPerServing(name),
			ImpactScore:        impactScore(avgRise, avgPeak),
		}
		score.ImpactRating = impactRating(score.ImpactScore)
		score.Confidence = impactConfidence(len(rs))
		score.BestPairing, score.WorstPairing = minePairings(name, rs, cfg.MinPairingSamples)
		out = append(out, score)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].ImpactScore < out[j].ImpactScore })
	return out
}

// impactScore weights magnitude of rise (80%, capped) against speed of onset
// (20%: fast onset penalized, slow onset not, mid-range half). Clamped to
// [0,100].
func impactScore(avgRise, avgPeakTime float64) float64 {
	score := math.Min(100, avgRise/100*80)
	switch {
	case avgPeakTime < 30:
		score += 20
	case avgPeakTime > 90:
		// no onset penalty
	default:
		score += 10
	}
	return round2(math.Max(0, math.Min(100, score)))
}

func impactRating(score float64) string {
	switch {
	case score < 40:
		return "low"
	case score < 70:
		return "moderate"
	default:
		return "high"
	}
}

func impactConfidence(occurrences int) string {
	switch {
	case occurrences >= 10:
		return "high"
	case occurrences >= 5:
		return "medium"
	default:
		return "low"
	}
}

// minePairings scans meals containing food for co-occurring partners and
// returns the pairings with the lowest and highest mean rise. Best and worst
// are computed independently; a food can have both.
func minePairings(food string, responses []MealResponse, minSamples int) (best, worst *FoodPairing) {
	rises := map[string][]float64{}
	for _, r := range responses {
		for _, other := range distinctFoods(r.Foods) {
			if other == food {
				continue
			}
			rises[other] = append(rises[other], r.GlucoseRise)
		}
	}

	partners := make([]string, 0, len(rises))
	for p, v := range rises {
		if len(v) >= minSamples {
			partners = append(partners, p)
		}
	}
	sort.Strings(partners)

	for _, p := range partners {
		var sum float64
		for _, v := range rises[p] {
			sum += v
		}
		avg := sum / float64(len(rises[p]))
		if best == nil || avg < best.AvgRise {
			best = &FoodPairing{Food: p, AvgRise: round2(avg), Samples: len(rises[p])}
		}
		if worst == nil || avg > worst.AvgRise {
			worst = &FoodPairing{Food: p, AvgRise: round2(avg), Samples: len(rises[p])}
		}
	}
	return best, worst
}

func distinctFoods(foods []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(foods))
	for _, f := range foods {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
