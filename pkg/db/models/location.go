package models

import (
	"time"

	"github.com/google/uuid"
)

// Location is a physical site (kitchen, outlet) owned by an organization.
type Location struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	OrganizationID uuid.UUID  `gorm:"column:organization_id;type:uuid;not null"`
	BusinessUnitID *uuid.UUID `gorm:"column:business_unit_id;type:uuid"`
	Name           string     `gorm:"column:name;not null"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Location) TableName() string { return "locations" }
