package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Actor is an authenticated user of the system: a role level, an optional
// role detail tag and a unit membership. Cases, workflows and audit entries
// reference actors by ID only.
type Actor struct {
	ID           string     `gorm:"primaryKey" json:"id"`
	Name         string     `gorm:"not null" json:"name"`
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"` // never serialized
	Role         Role       `gorm:"type:text;not null;index" json:"role"`
	RoleDetail   RoleDetail `gorm:"type:text" json:"roleDetail,omitempty"`
	UnitID       string     `gorm:"type:uuid;index" json:"unitId,omitempty"`
	IsActive     bool       `gorm:"default:true" json:"isActive"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// BeforeCreate generates a new UUID for the actor if the ID is not set.
func (a *Actor) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return
}

// Global reports whether the actor's visibility is not confined to a unit:
// LEVEL4, or LEVEL3 tagged NATIONAL_OFFICE.
func (a *Actor) Global() bool {
	if a.Role == RoleLevel4 {
		return true
	}
	return a.Role == RoleLevel3 && a.RoleDetail == DetailNationalOffice
}
