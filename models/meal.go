package models

import (
	"time"

	"gorm.io/gorm"
)

// One Meal (breakfast/lunch/dinner/snack)
type Meal struct {
	gorm.Model
	UserID     uint      // FK → users.id
	Type       string    `gorm:"size:16"` // "breakfast" | "lunch" | "dinner" | "snack"
	AteAt      time.Time `gorm:"index"`
	TotalCarbs float64   // grams, as logged
	Notes      string
	Foods      []MealFood
}

// MealFood is one constituent food with the carbs-per-serving snapshot
// taken from the catalog at log time.
type MealFood struct {
	gorm.Model
	MealID uint
	Meal   Meal

	Name            string `gorm:"size:255;not null"`
	CarbsPerServing float64
}
