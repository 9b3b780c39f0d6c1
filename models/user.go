package models

import (
	"gorm.io/gorm"
)

// User is owned by the external auth provider; we keep a local row so
// meals/readings have something to hang off and the email claim fallback works.
type User struct {
	gorm.Model
	Email        string `gorm:"uniqueIndex;not null"`
	FullName     string
	DiabetesType string  // "type1" | "type2" | "gestational" | ""
	TargetLow    float64 // mg/dL, lower alert bound (0 = use default)
	TargetHigh   float64 // mg/dL, upper alert bound (0 = use default)
}
