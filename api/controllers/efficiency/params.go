package efficiency

import (
	"net/http"
	"strings"
	"time"

	"github.com/angelmondragon/spendwise-backend/api/middleware"
	"github.com/angelmondragon/spendwise-backend/api/validators"
	efficiencysvc "github.com/angelmondragon/spendwise-backend/internal/efficiency"
	"github.com/angelmondragon/spendwise-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/spendwise-backend/pkg/errors"
)

const (
	dateLayout     = "2006-01-02"
	maxSearchTerm  = 100
	maxRankingSize = 50
)

type filterRequest struct {
	BusinessUnitID    string   `json:"business_unit_id,omitempty" validate:"omitempty,uuid"`
	From              string   `json:"from,omitempty" validate:"omitempty,datetime=2006-01-02"`
	To                string   `json:"to,omitempty" validate:"omitempty,datetime=2006-01-02"`
	LocationIDs       []string `json:"location_ids,omitempty" validate:"omitempty,dive,uuid"`
	SupplierIDs       []string `json:"supplier_ids,omitempty" validate:"omitempty,dive,uuid"`
	CategoryIDs       []string `json:"category_ids,omitempty" validate:"omitempty,dive,uuid"`
	DocumentType      string   `json:"document_type,omitempty" validate:"omitempty,oneof=all invoice credit_note"`
	ProductCodeFilter string   `json:"product_code_filter,omitempty" validate:"omitempty,oneof=all with_codes without_codes"`
	SearchTerms       []string `json:"search_terms,omitempty" validate:"omitempty,max=20,dive,max=100"`
	SearchMode        string   `json:"search_mode,omitempty" validate:"omitempty,oneof=OR AND"`
}

type chartRequest struct {
	ProductCode string `json:"product_code" validate:"required,max=255"`
	LocationID  string `json:"location_id,omitempty" validate:"omitempty,uuid"`
}

type queryRequest struct {
	filterRequest
	Chart *chartRequest `json:"chart,omitempty"`
}

// filterFromQuery reads list parameters (location_id, supplier_id, category_id, q) either
// repeated or comma separated.
func filterFromQuery(r *http.Request) (filterRequest, error) {
	query := r.URL.Query()
	req := filterRequest{
		BusinessUnitID:    strings.TrimSpace(query.Get("business_unit_id")),
		From:              strings.TrimSpace(query.Get("from")),
		To:                strings.TrimSpace(query.Get("to")),
		LocationIDs:       validators.ParseQueryList(r, "location_id"),
		SupplierIDs:       validators.ParseQueryList(r, "supplier_id"),
		CategoryIDs:       validators.ParseQueryList(r, "category_id"),
		DocumentType:      strings.TrimSpace(query.Get("document_type")),
		ProductCodeFilter: strings.TrimSpace(query.Get("product_code_filter")),
		SearchTerms:       validators.ParseQueryList(r, "q"),
		SearchMode:        strings.ToUpper(strings.TrimSpace(query.Get("search_mode"))),
	}
	if err := validators.ValidateStruct(&req); err != nil {
		return filterRequest{}, err
	}
	return req, nil
}

func (f filterRequest) toFilter(r *http.Request) (efficiencysvc.Filter, error) {
	ctx := r.Context()
	organizationID := middleware.OrganizationIDFromContext(ctx)
	if organizationID == "" {
		return efficiencysvc.Filter{}, pkgerrors.New(pkgerrors.CodeForbidden, "organization context required")
	}

	businessUnitID := middleware.BusinessUnitIDFromContext(ctx)
	if f.BusinessUnitID != "" {
		if businessUnitID != "" && !strings.EqualFold(businessUnitID, f.BusinessUnitID) {
			return efficiencysvc.Filter{}, pkgerrors.New(pkgerrors.CodeForbidden, "business unit outside token scope")
		}
		businessUnitID = f.BusinessUnitID
	}

	filter := efficiencysvc.Filter{
		OrganizationID:    organizationID,
		BusinessUnitID:    businessUnitID,
		LocationIDs:       f.LocationIDs,
		SupplierIDs:       f.SupplierIDs,
		CategoryIDs:       f.CategoryIDs,
		DocumentType:      enums.DocumentType(f.DocumentType),
		ProductCodeFilter: enums.ProductCodeFilter(f.ProductCodeFilter),
		Search: efficiencysvc.ProductSearch{
			Terms: sanitizeTerms(f.SearchTerms),
			Mode:  enums.SearchMode(f.SearchMode),
		},
	}

	var err error
	if filter.From, err = parseDay(f.From, "from"); err != nil {
		return efficiencysvc.Filter{}, err
	}
	if filter.To, err = parseDay(f.To, "to"); err != nil {
		return efficiencysvc.Filter{}, err
	}
	return filter, nil
}

// chartFromQuery reads the optional product_code and location parameters.
func chartFromQuery(r *http.Request) (*efficiencysvc.ChartTarget, error) {
	query := r.URL.Query()
	code := strings.TrimSpace(query.Get("product_code"))
	if code == "" {
		return nil, nil
	}
	target := chartRequest{ProductCode: code, LocationID: strings.TrimSpace(query.Get("location"))}
	if err := validators.ValidateStruct(&target); err != nil {
		return nil, err
	}
	return target.toTarget(), nil
}

func (c chartRequest) toTarget() *efficiencysvc.ChartTarget {
	return &efficiencysvc.ChartTarget{
		ProductCode: strings.TrimSpace(c.ProductCode),
		LocationID:  c.LocationID,
	}
}

func parseDay(value, field string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid "+field+" date")
	}
	return &parsed, nil
}

func sanitizeTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, term := range terms {
		if clean := validators.SanitizeString(term, maxSearchTerm); clean != "" {
			out = append(out, clean)
		}
	}
	return out
}

func requestFor(r *http.Request, filter efficiencysvc.Filter, chart *efficiencysvc.ChartTarget) efficiencysvc.Request {
	return efficiencysvc.Request{
		Filter:     filter,
		Chart:      chart,
		ConsumerID: strings.TrimSpace(r.Header.Get(middleware.ConsumerIDHeader)),
	}
}
