package efficiency

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"slices"
	"time"

	"github.com/angelmondragon/spendwise-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/spendwise-backend/pkg/errors"
)

// Filter scopes one computation. Dates are inclusive calendar days.
type Filter struct {
	OrganizationID    string                  `json:"organization_id"`
	BusinessUnitID    string                  `json:"business_unit_id,omitempty"`
	From              *time.Time              `json:"from,omitempty"`
	To                *time.Time              `json:"to,omitempty"`
	LocationIDs       []string                `json:"location_ids,omitempty"`
	SupplierIDs       []string                `json:"supplier_ids,omitempty"`
	CategoryIDs       []string                `json:"category_ids,omitempty"`
	DocumentType      enums.DocumentType      `json:"document_type,omitempty"`
	ProductCodeFilter enums.ProductCodeFilter `json:"product_code_filter,omitempty"`
	Search            ProductSearch           `json:"search"`
}

// Validate rejects filters the record source cannot serve.
func (f Filter) Validate() error {
	if f.OrganizationID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "organization id required")
	}
	if (f.From == nil) != (f.To == nil) {
		return pkgerrors.New(pkgerrors.CodeValidation, "from and to must be provided together")
	}
	if f.From != nil && f.To.Before(*f.From) {
		return pkgerrors.New(pkgerrors.CodeValidation, "to must not be before from")
	}
	if f.DocumentType != "" && !f.DocumentType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid document type")
	}
	if f.ProductCodeFilter != "" && !f.ProductCodeFilter.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid product code filter")
	}
	return nil
}

// normalized returns a copy with defaults applied and id sets sorted, so equal scopes compare equal.
func (f Filter) normalized() Filter {
	out := f
	if out.DocumentType == "" {
		out.DocumentType = enums.DocumentTypeAll
	}
	if out.ProductCodeFilter == "" {
		out.ProductCodeFilter = enums.ProductCodeFilterAll
	}
	if out.Search.Mode == "" {
		out.Search.Mode = enums.SearchModeOr
	}
	out.LocationIDs = sortedCopy(f.LocationIDs)
	out.SupplierIDs = sortedCopy(f.SupplierIDs)
	out.CategoryIDs = sortedCopy(f.CategoryIDs)
	out.Search.Terms = sortedCopy(f.Search.Terms)
	return out
}

// Fingerprint is a stable digest of the filter used as cache key.
func (f Filter) Fingerprint() string {
	payload, err := json.Marshal(f.normalized())
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:16])
}

func sortedCopy(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := slices.Clone(values)
	slices.Sort(out)
	return slices.Compact(out)
}

// PaxQuery scopes a PAX read.
type PaxQuery struct {
	LocationIDs []string
	From        *time.Time
	To          *time.Time
}

// paxQueryFor limits PAX to the organization's locations, narrowed by the filter's location set.
func paxQueryFor(filter Filter, locations []Location) PaxQuery {
	query := PaxQuery{From: filter.From, To: filter.To}
	wanted := make(map[string]struct{}, len(filter.LocationIDs))
	for _, id := range filter.LocationIDs {
		wanted[id] = struct{}{}
	}
	for _, location := range locations {
		if len(wanted) > 0 {
			if _, ok := wanted[location.ID]; !ok {
				continue
			}
		}
		query.LocationIDs = append(query.LocationIDs, location.ID)
	}
	return query
}
