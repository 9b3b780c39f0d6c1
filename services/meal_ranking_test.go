package services

import (
	"testing"
	"time"
)

func TestResponseScore(t *testing.T) {
	ret200 := 200
	ret90 := 90

	tests := []struct {
		name string
		resp MealResponse
		want float64
	}{
		{"rise only", MealResponse{GlucoseRise: 30, GlucosePeak: 150, PeakTimeMinutes: 60}, 30},
		{"high peak penalty", MealResponse{GlucoseRise: 85, GlucosePeak: 200, PeakTimeMinutes: 60}, 95},
		{"fast onset penalty", MealResponse{GlucoseRise: 50, GlucosePeak: 170, PeakTimeMinutes: 20}, 60},
		{"slow return penalty", MealResponse{GlucoseRise: 40, GlucosePeak: 160, PeakTimeMinutes: 60, TimeToReturnMinutes: &ret200}, 60},
		{"quick return no penalty", MealResponse{GlucoseRise: 40, GlucosePeak: 160, PeakTimeMinutes: 60, TimeToReturnMinutes: &ret90}, 40},
		{"all penalties", MealResponse{GlucoseRise: 90, GlucosePeak: 220, PeakTimeMinutes: 15, TimeToReturnMinutes: &ret200}, 140},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := responseScore(tt.resp); got != tt.want {
				t.Errorf("responseScore() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRankMeals(t *testing.T) {
	now := time.Now()
	responses := []MealResponse{
		{MealID: 1, MealTime: now, GlucoseRise: 30, GlucosePeak: 150, PeakTimeMinutes: 60},                     // score 30
		{MealID: 2, MealTime: now.Add(-time.Hour), GlucoseRise: 85, GlucosePeak: 200, PeakTimeMinutes: 60},     // score 95
		{MealID: 3, MealTime: now.Add(-2 * time.Hour), GlucoseRise: 50, GlucosePeak: 170, PeakTimeMinutes: 20}, // score 60
		{MealID: 4, MealTime: now.Add(-3 * time.Hour), GlucoseRise: 45, GlucosePeak: 160, PeakTimeMinutes: 60}, // score 45
	}

	out := rankMeals(responses, 2)

	if len(out.Best) != 2 || len(out.Worst) != 2 {
		t.Fatalf("got %d best / %d worst, want 2 / 2", len(out.Best), len(out.Worst))
	}

	// best[0] carries the minimum score, worst[0] the maximum
	if out.Best[0].MealID != 1 || out.Best[0].ResponseScore != 30 {
		t.Errorf("Best[0] = meal %d score %v, want meal 1 score 30", out.Best[0].MealID, out.Best[0].ResponseScore)
	}
	if out.Worst[0].MealID != 2 || out.Worst[0].ResponseScore != 95 {
		t.Errorf("Worst[0] = meal %d score %v, want meal 2 score 95", out.Worst[0].MealID, out.Worst[0].ResponseScore)
	}
	if out.Best[1].MealID != 4 || out.Worst[1].MealID != 3 {
		t.Errorf("second slots wrong: best %d worst %d", out.Best[1].MealID, out.Worst[1].MealID)
	}

	// ranks restart at 1 within each list
	for i, m := range out.Best {
		if m.Rank != i+1 {
			t.Errorf("Best[%d].Rank = %d, want %d", i, m.Rank, i+1)
		}
	}
	for i, m := range out.Worst {
		if m.Rank != i+1 {
			t.Errorf("Worst[%d].Rank = %d, want %d", i, m.Rank, i+1)
		}
	}
}

func TestRankMeals_LimitLargerThanData(t *testing.T) {
	responses := []MealResponse{
		{MealID: 1, GlucoseRise: 30, GlucosePeak: 150, PeakTimeMinutes: 60},
	}
	out := rankMeals(responses, 10)
	if len(out.Best) != 1 || len(out.Worst) != 1 {
		t.Errorf("got %d best / %d worst, want 1 / 1", len(out.Best), len(out.Worst))
	}
}

func TestRankMeals_Empty(t *testing.T) {
	out := rankMeals(nil, 5)
	if out.Best == nil || out.Worst == nil {
		t.Fatal("lists must be empty, not nil")
	}
	if len(out.Best) != 0 || len(out.Worst) != 0 {
		t.Error("expected empty rankings")
	}
}
