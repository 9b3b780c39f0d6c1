package models

import (
	"time"

	"gorm.io/gorm"
)

// GlucoseReading is one sample from device sync (CGM, meter, or manual entry).
// The analytics engine treats these as read-only and time-ordered.
type GlucoseReading struct {
	gorm.Model
	UserID     uint      `gorm:"index;not null"`
	Value      float64   `gorm:"not null"` // mg/dL
	RecordedAt time.Time `gorm:"index;not null"`
	Source     string    `gorm:"size:32"` // "cgm" | "meter" | "manual"
}
