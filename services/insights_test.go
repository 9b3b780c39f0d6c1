package services

import (
	"strings"
	"testing"
)

func findInsight(out []MealPatternInsight, category, typ string) *MealPatternInsight {
	for i := range out {
		if out[i].Category == category && out[i].Type == typ {
			return &out[i]
		}
	}
	return nil
}

func TestSynthesizeInsights_FoodThresholds(t *testing.T) {
	impacts := []FoodImpactScore{
		{Food: "lentils", ImpactRating: "low", Occurrences: 4},
		{Food: "berries", ImpactRating: "low", Occurrences: 2}, // below the 3-occurrence floor
		{Food: "donut", ImpactRating: "high", Occurrences: 5},
	}

	out := synthesizeInsights(nil, impacts, nil)

	pos := findInsight(out, "food", "positive")
	if pos == nil {
		t.Fatal("expected a positive food insight")
	}
	if pos.SampleSize != 4 {
		t.Errorf("positive insight SampleSize = %d, want 4 (berries must not count)", pos.SampleSize)
	}

	neg := findInsight(out, "food", "negative")
	if neg == nil {
		t.Fatal("expected a negative food insight")
	}
	if neg.SampleSize != 5 {
		t.Errorf("negative insight SampleSize = %d, want 5", neg.SampleSize)
	}
}

func TestSynthesizeInsights_SampleSizeMatchesNamedFoods(t *testing.T) {
	// Four qualifying gentle foods: only three may be named, and the sample
	// size must cover exactly those three, not the unnamed fourth.
	impacts := []FoodImpactScore{
		{Food: "salad", ImpactRating: "low", Occurrences: 3},
		{Food: "lentils", ImpactRating: "low", Occurrences: 4},
		{Food: "yogurt", ImpactRating: "low", Occurrences: 5},
		{Food: "berries", ImpactRating: "low", Occurrences: 6},
	}

	out := synthesizeInsights(nil, impacts, nil)
	pos := findInsight(out, "food", "positive")
	if pos == nil {
		t.Fatal("expected a positive food insight")
	}
	for _, named := range []string{"salad", "lentils", "yogurt"} {
		if !strings.Contains(pos.Message, named) {
			t.Errorf("message should name %q: %q", named, pos.Message)
		}
	}
	if strings.Contains(pos.Message, "berries") {
		t.Errorf("message names a fourth food: %q", pos.Message)
	}
	if pos.SampleSize != 12 {
		t.Errorf("SampleSize = %d, want 12 (3+4+5, berries not counted)", pos.SampleSize)
	}
}

func TestSynthesizeInsights_NoWeakClaims(t *testing.T) {
	// Everything below threshold: the synthesizer must stay silent.
	impacts := []FoodImpactScore{
		{Food: "berries", ImpactRating: "low", Occurrences: 2},
	}
	timing := []OptimalMealTiming{
		{MealType: "lunch", SampleSize: 4, BestHourAvgRise: 20, WorstHourAvgRise: 80},  // big gap, too few samples
		{MealType: "dinner", SampleSize: 9, BestHourAvgRise: 30, WorstHourAvgRise: 45}, // enough samples, small gap
	}
	responses := []MealResponse{
		{ResponseRating: RatingPoor},
		{ResponseRating: RatingGood},
	}

	out := synthesizeInsights(responses, impacts, timing)
	if len(out) != 0 {
		t.Errorf("got %d insights, want 0: %+v", len(out), out)
	}
}

func TestSynthesizeInsights_Timing(t *testing.T) {
	timing := []OptimalMealTiming{
		{MealType: "breakfast", SampleSize: 6, BestHour: 7, WorstHour: 10, BestHourAvgRise: 22, WorstHourAvgRise: 58},
	}

	out := synthesizeInsights(nil, nil, timing)
	ins := findInsight(out, "timing", "neutral")
	if ins == nil {
		t.Fatal("expected a timing insight")
	}
	if ins.SampleSize != 6 {
		t.Errorf("SampleSize = %d, want 6", ins.SampleSize)
	}
}

func TestSynthesizeInsights_OverallMix(t *testing.T) {
	good := make([]MealResponse, 0, 6)
	for i := 0; i < 4; i++ {
		good = append(good, MealResponse{ResponseRating: RatingGood})
	}
	good = append(good, MealResponse{ResponseRating: RatingModerate}, MealResponse{ResponseRating: RatingPoor})

	out := synthesizeInsights(good, nil, nil)
	if ins := findInsight(out, "overall", "positive"); ins == nil {
		t.Error("expected a positive overall insight at 4/6 good")
	}

	poor := make([]MealResponse, 0, 5)
	for i := 0; i < 3; i++ {
		poor = append(poor, MealResponse{ResponseRating: RatingPoor})
	}
	poor = append(poor, MealResponse{ResponseRating: RatingGood}, MealResponse{ResponseRating: RatingModerate})

	out = synthesizeInsights(poor, nil, nil)
	if ins := findInsight(out, "overall", "negative"); ins == nil {
		t.Error("expected a negative overall insight at 3/5 poor")
	}
}
