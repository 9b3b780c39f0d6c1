package services

import (
	"strings"
	"testing"
	"time"
)

func timingResponse(mealType string, hour int, rise float64) MealResponse {
	return MealResponse{
		MealType:    mealType,
		MealTime:    time.Date(2025, 6, 2, hour, 15, 0, 0, time.UTC),
		GlucoseRise: rise,
	}
}

func timingFor(t *testing.T, out []OptimalMealTiming, mealType string) OptimalMealTiming {
	t.Helper()
	for _, x := range out {
		if x.MealType == mealType {
			return x
		}
	}
	t.Fatalf("no timing entry for %q", mealType)
	return OptimalMealTiming{}
}

func TestOptimalTiming_StaticDefaultWhenSparse(t *testing.T) {
	// One dinner only: must fall back to the static default, sample_size 0.
	responses := []MealResponse{timingResponse("dinner", 19, 40)}

	out := optimalTiming(responses, DefaultAnalysisConfig())
	if len(out) != len(mealTypes) {
		t.Fatalf("got %d entries, want one per meal type (%d)", len(out), len(mealTypes))
	}

	dinner := timingFor(t, out, "dinner")
	if dinner.SampleSize != 0 {
		t.Errorf("SampleSize = %d, want 0 for the static default", dinner.SampleSize)
	}
	if !strings.Contains(dinner.Recommendation, "Not enough dinner history") {
		t.Errorf("default recommendation missing, got %q", dinner.Recommendation)
	}
}

func TestOptimalTiming_ComputedHours(t *testing.T) {
	responses := []MealResponse{
		timingResponse("breakfast", 7, 20),
		timingResponse("breakfast", 7, 25),
		timingResponse("breakfast", 10, 60),
		timingResponse("breakfast", 10, 70),
		timingResponse("breakfast", 9, 40), // single sample in its hour → ignored
	}

	out := optimalTiming(responses, DefaultAnalysisConfig())
	breakfast := timingFor(t, out, "breakfast")

	if breakfast.SampleSize != 5 {
		t.Errorf("SampleSize = %d, want 5", breakfast.SampleSize)
	}
	if breakfast.BestHour != 7 || breakfast.BestHourAvgRise != 22.5 {
		t.Errorf("BestHour = %d (%v), want 7 (22.5)", breakfast.BestHour, breakfast.BestHourAvgRise)
	}
	if breakfast.WorstHour != 10 || breakfast.WorstHourAvgRise != 65 {
		t.Errorf("WorstHour = %d (%v), want 10 (65)", breakfast.WorstHour, breakfast.WorstHourAvgRise)
	}
	if !strings.Contains(breakfast.Recommendation, "7:00") || !strings.Contains(breakfast.Recommendation, "10:00") {
		t.Errorf("recommendation should mention both hours, got %q", breakfast.Recommendation)
	}
}

func TestOptimalTiming_NoQualifyingHourBucket(t *testing.T) {
	// Three lunches, every one at a different hour: no bucket reaches the
	// two-sample minimum, so the default applies despite enough responses.
	responses := []MealResponse{
		timingResponse("lunch", 11, 30),
		timingResponse("lunch", 12, 40),
		timingResponse("lunch", 13, 50),
	}

	out := optimalTiming(responses, DefaultAnalysisConfig())
	lunch := timingFor(t, out, "lunch")
	if lunch.SampleSize != 0 {
		t.Errorf("SampleSize = %d, want 0 when no hour bucket qualifies", lunch.SampleSize)
	}
}

func TestOptimalTiming_NoHistoryAtAll(t *testing.T) {
	out := optimalTiming(nil, DefaultAnalysisConfig())
	if len(out) != len(mealTypes) {
		t.Fatalf("got %d entries, want %d defaults", len(out), len(mealTypes))
	}
	for _, x := range out {
		if x.SampleSize != 0 {
			t.Errorf("%s: SampleSize = %d, want 0", x.MealType, x.SampleSize)
		}
	}
}
