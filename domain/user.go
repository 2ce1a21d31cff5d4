package domain

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User is owned by the account service. This module only reads it and edits preferences.
type User struct {
	ID                       uint                                `gorm:"primaryKey"`
	Nickname                 string                              `gorm:"column:nickname"`
	Email                    string                              `gorm:"column:email;unique;not null"`
	Role                     string                              `gorm:"column:role;default:user"`
	PreferredRegions         datatypes.JSONSlice[Region]         `gorm:"column:preferred_regions;not null;default:'[]'"`
	PreferredClassifications datatypes.JSONSlice[Classification] `gorm:"column:preferred_classifications;not null;default:'[]'"`
	CreatedAt                time.Time
	UpdatedAt                time.Time
	DeletedAt                gorm.DeletedAt `gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

// PreferenceFilter turns the stored preferences into a policy filter.
func (u User) PreferenceFilter() PolicyFilter {
	return PolicyFilter{
		Regions:         []Region(u.PreferredRegions),
		Classifications: []Classification(u.PreferredClassifications),
	}
}

type UserPreferences struct {
	Regions         []Region         `json:"regions"`
	Classifications []Classification `json:"classifications"`
}
