package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Pax is the headcount (covers) recorded for a location on one day.
type Pax struct {
	ID             uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	OrganizationID uuid.UUID           `gorm:"column:organization_id;type:uuid;not null"`
	LocationID     uuid.UUID           `gorm:"column:location_id;type:uuid;not null"`
	DateID         *time.Time          `gorm:"column:date_id;type:date"`
	PaxCount       decimal.NullDecimal `gorm:"column:pax_count;type:numeric(12,2)"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime"`
}

func (Pax) TableName() string { return "pax" }
