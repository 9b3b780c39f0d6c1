package models

import "gorm.io/gorm"

// A catalog entry cached from the external food database
type FoodItem struct {
	gorm.Model
	ExternalID      string `gorm:"type:varchar(255);uniqueIndex;not null"`
	Label           string `gorm:"index;not null"`
	Category        string
	CarbsPerServing float64 // grams per standard serving
}
