package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceLine is one imported supplier invoice (or credit note) line.
// Rows are written by the accounting importer and only read here.
type InvoiceLine struct {
	ID                      uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	OrganizationID          uuid.UUID           `gorm:"column:organization_id;type:uuid;not null"`
	BusinessUnitID          *uuid.UUID          `gorm:"column:business_unit_id;type:uuid"`
	LocationID              *uuid.UUID          `gorm:"column:location_id;type:uuid"`
	SupplierID              *uuid.UUID          `gorm:"column:supplier_id;type:uuid"`
	CategoryID              *uuid.UUID          `gorm:"column:category_id;type:uuid"`
	InvoiceNumber           *string             `gorm:"column:invoice_number"`
	InvoiceDate             *time.Time          `gorm:"column:invoice_date;type:date"`
	DocumentType            *string             `gorm:"column:document_type"`
	ProductCode             *string             `gorm:"column:product_code"`
	Description             *string             `gorm:"column:description"`
	UnitType                *string             `gorm:"column:unit_type"`
	Quantity                decimal.NullDecimal `gorm:"column:quantity;type:numeric(14,4)"`
	UnitPrice               decimal.NullDecimal `gorm:"column:unit_price;type:numeric(14,4)"`
	UnitPriceAfterDiscount  decimal.NullDecimal `gorm:"column:unit_price_after_discount;type:numeric(14,4)"`
	TotalPrice              decimal.NullDecimal `gorm:"column:total_price;type:numeric(14,4)"`
	TotalPriceAfterDiscount decimal.NullDecimal `gorm:"column:total_price_after_discount;type:numeric(14,4)"`
	CreatedAt               time.Time           `gorm:"column:created_at;autoCreateTime"`
}

func (InvoiceLine) TableName() string { return "invoice_lines" }
