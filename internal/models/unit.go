package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Unit is the organizational grouping (a residential village) used for
// access scoping. The statistics counters are mutated only through atomic
// increments in storage, never read-modify-write.
type Unit struct {
	ID         string         `gorm:"primaryKey" json:"id"`
	Name       string         `gorm:"uniqueIndex;not null" json:"name"`
	Location   string         `gorm:"not null" json:"location"`
	Region     string         `gorm:"not null" json:"region"`
	DirectorID string         `gorm:"type:uuid" json:"directorId,omitempty"`
	Programs   pq.StringArray `gorm:"type:text[]" json:"programs"`

	// Statistics for unit rating
	TotalCases  int     `gorm:"default:0" json:"totalCases"`
	UrgentCases int     `gorm:"default:0" json:"urgentCases"`
	FalseCases  int     `gorm:"default:0" json:"falseCases"`
	RatingScore float64 `gorm:"default:0" json:"ratingScore"`

	// Coordinates for the heatmap view
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`

	IsActive  bool      `gorm:"default:true" json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate generates a new UUID for the unit if the ID is not set.
func (u *Unit) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}
