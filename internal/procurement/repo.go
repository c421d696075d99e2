package procurement

import (
	"context"
	"strings"

	"github.com/angelmondragon/spendwise-backend/internal/efficiency"
	"github.com/angelmondragon/spendwise-backend/internal/repo"
	"github.com/angelmondragon/spendwise-backend/pkg/db/models"
	"github.com/angelmondragon/spendwise-backend/pkg/enums"
	"github.com/angelmondragon/spendwise-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type repository struct {
	repo.Base
}

// NewRepository builds the read-only procurement record source bound to the provided DB.
func NewRepository(db *gorm.DB) efficiency.RecordSource {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) TransactionsPage(ctx context.Context, filter efficiency.Filter, page pagination.Page) ([]efficiency.TransactionRecord, error) {
	query := r.DB(ctx).
		Model(&models.InvoiceLine{}).
		Where("organization_id = ?", filter.OrganizationID)

	if filter.BusinessUnitID != "" {
		query = query.Where("business_unit_id = ?", filter.BusinessUnitID)
	}
	if filter.From != nil && filter.To != nil {
		query = query.Where("invoice_date >= ? AND invoice_date <= ?", *filter.From, *filter.To)
	}
	if len(filter.LocationIDs) > 0 {
		query = query.Where("location_id IN ?", filter.LocationIDs)
	}
	if len(filter.SupplierIDs) > 0 {
		query = query.Where("supplier_id IN ?", filter.SupplierIDs)
	}
	if len(filter.CategoryIDs) > 0 {
		query = query.Where("category_id IN ?", filter.CategoryIDs)
	}
	if stored := filter.DocumentType.StoredValues(); len(stored) > 0 {
		query = query.Where("document_type IN ?", stored)
	}
	switch filter.ProductCodeFilter {
	case enums.ProductCodeFilterWithCodes:
		query = query.Where("product_code IS NOT NULL AND TRIM(product_code) <> ''")
	case enums.ProductCodeFilterWithoutCodes:
		query = query.Where("(product_code IS NULL OR TRIM(product_code) = '')")
	}

	var lines []models.InvoiceLine
	query = query.
		Order("invoice_date ASC").
		Order("created_at ASC").
		Order("id ASC")
	if err := repo.FindPage(query, page, &lines); err != nil {
		return nil, err
	}

	out := make([]efficiency.TransactionRecord, 0, len(lines))
	for _, line := range lines {
		out = append(out, toTransaction(line))
	}
	return out, nil
}

func (r *repository) PaxPage(ctx context.Context, q efficiency.PaxQuery, page pagination.Page) ([]efficiency.PaxRecord, error) {
	if len(q.LocationIDs) == 0 {
		return nil, nil
	}
	query := r.DB(ctx).
		Model(&models.Pax{}).
		Where("location_id IN ?", q.LocationIDs)
	if q.From != nil && q.To != nil {
		query = query.Where("date_id >= ? AND date_id <= ?", *q.From, *q.To)
	}

	var rows []models.Pax
	query = query.
		Order("date_id ASC").
		Order("id ASC")
	if err := repo.FindPage(query, page, &rows); err != nil {
		return nil, err
	}

	out := make([]efficiency.PaxRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, efficiency.PaxRecord{
			LocationID: row.LocationID.String(),
			DateID:     row.DateID,
			PaxCount:   floatOf(row.PaxCount),
		})
	}
	return out, nil
}

func (r *repository) Locations(ctx context.Context, organizationID, businessUnitID string) ([]efficiency.Location, error) {
	query := r.DB(ctx).Where("organization_id = ?", organizationID)
	if businessUnitID != "" {
		query = query.Where("business_unit_id = ?", businessUnitID)
	}

	var rows []models.Location
	if err := query.Order("name ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]efficiency.Location, 0, len(rows))
	for _, row := range rows {
		out = append(out, efficiency.Location{ID: row.ID.String(), Name: row.Name})
	}
	return out, nil
}

func toTransaction(line models.InvoiceLine) efficiency.TransactionRecord {
	return efficiency.TransactionRecord{
		ProductCode:             strings.TrimSpace(deref(line.ProductCode)),
		Description:             deref(line.Description),
		SupplierID:              idString(line.SupplierID),
		LocationID:              idString(line.LocationID),
		InvoiceDate:             line.InvoiceDate,
		Quantity:                floatOf(line.Quantity),
		UnitType:                deref(line.UnitType),
		UnitPrice:               floatOf(line.UnitPrice),
		UnitPriceAfterDiscount:  optionalFloat(line.UnitPriceAfterDiscount),
		TotalPrice:              floatOf(line.TotalPrice),
		TotalPriceAfterDiscount: optionalFloat(line.TotalPriceAfterDiscount),
	}
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func idString(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}

func floatOf(value decimal.NullDecimal) float64 {
	if !value.Valid {
		return 0
	}
	return value.Decimal.InexactFloat64()
}

func optionalFloat(value decimal.NullDecimal) *float64 {
	if !value.Valid {
		return nil
	}
	v := value.Decimal.InexactFloat64()
	return &v
}
