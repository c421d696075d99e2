package enums

import (
	"fmt"
	"strings"
)

// TrendDirection classifies how spend per PAX moved across a series.
// Falling spend per head is an improvement.
type TrendDirection string

const (
	TrendImproving TrendDirection = "improving"
	TrendStable    TrendDirection = "stable"
	TrendDeclining TrendDirection = "declining"
)

var validTrendDirections = []TrendDirection{
	TrendImproving,
	TrendStable,
	TrendDeclining,
}

// String implements fmt.Stringer.
func (t TrendDirection) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TrendDirection.
func (t TrendDirection) IsValid() bool {
	for _, candidate := range validTrendDirections {
		if candidate == t {
			return true
		}
	}
	return false
}

// DocumentType filters invoice lines by the kind of accounting document they came from.
type DocumentType string

const (
	DocumentTypeAll        DocumentType = "all"
	DocumentTypeInvoice    DocumentType = "invoice"
	DocumentTypeCreditNote DocumentType = "credit_note"
)

var validDocumentTypes = []DocumentType{
	DocumentTypeAll,
	DocumentTypeInvoice,
	DocumentTypeCreditNote,
}

// storedDocumentTypes lists the raw values importers write for each document kind.
var storedDocumentTypes = map[DocumentType][]string{
	DocumentTypeInvoice:    {"Faktura", "Invoice"},
	DocumentTypeCreditNote: {"Kreditnota", "Credit note"},
}

// String implements fmt.Stringer.
func (d DocumentType) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DocumentType.
func (d DocumentType) IsValid() bool {
	for _, candidate := range validDocumentTypes {
		if candidate == d {
			return true
		}
	}
	return false
}

// StoredValues returns the persisted document_type values matching d; nil means no filter.
func (d DocumentType) StoredValues() []string {
	values, ok := storedDocumentTypes[d]
	if !ok {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}

// ParseDocumentType converts raw input into a DocumentType. Empty input means all.
func ParseDocumentType(value string) (DocumentType, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return DocumentTypeAll, nil
	}
	for _, candidate := range validDocumentTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid document type %q", value)
}

// ProductCodeFilter restricts lines by whether they carry a product code.
type ProductCodeFilter string

const (
	ProductCodeFilterAll          ProductCodeFilter = "all"
	ProductCodeFilterWithCodes    ProductCodeFilter = "with_codes"
	ProductCodeFilterWithoutCodes ProductCodeFilter = "without_codes"
)

var validProductCodeFilters = []ProductCodeFilter{
	ProductCodeFilterAll,
	ProductCodeFilterWithCodes,
	ProductCodeFilterWithoutCodes,
}

// String implements fmt.Stringer.
func (p ProductCodeFilter) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ProductCodeFilter.
func (p ProductCodeFilter) IsValid() bool {
	for _, candidate := range validProductCodeFilters {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProductCodeFilter converts raw input into a ProductCodeFilter. Empty input means all.
func ParseProductCodeFilter(value string) (ProductCodeFilter, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return ProductCodeFilterAll, nil
	}
	for _, candidate := range validProductCodeFilters {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product code filter %q", value)
}

// SearchMode decides how multiple inclusion terms combine.
type SearchMode string

const (
	SearchModeOr  SearchMode = "OR"
	SearchModeAnd SearchMode = "AND"
)

// ParseSearchMode converts raw input into a SearchMode. Empty input means OR.
func ParseSearchMode(value string) (SearchMode, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "", string(SearchModeOr):
		return SearchModeOr, nil
	case string(SearchModeAnd):
		return SearchModeAnd, nil
	default:
		return "", fmt.Errorf("invalid search mode %q", value)
	}
}

// DataSource names the upstream table a data_changed signal refers to.
type DataSource string

const (
	DataSourceTransactions DataSource = "transactions"
	DataSourcePax          DataSource = "pax"
	DataSourceLocations    DataSource = "locations"
)

var validDataSources = []DataSource{
	DataSourceTransactions,
	DataSourcePax,
	DataSourceLocations,
}

// IsValid reports whether the value is a known DataSource.
func (d DataSource) IsValid() bool {
	for _, candidate := range validDataSources {
		if candidate == d {
			return true
		}
	}
	return false
}
