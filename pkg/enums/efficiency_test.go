package enums

import "testing"

func TestParseDocumentType(t *testing.T) {
	cases := []struct {
		in      string
		want    DocumentType
		wantErr bool
	}{
		{in: "", want: DocumentTypeAll},
		{in: "Invoice", want: DocumentTypeInvoice},
		{in: "credit_note", want: DocumentTypeCreditNote},
		{in: "receipt", wantErr: true},
	}
	for _, tc := range cases {
		got, err := ParseDocumentType(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("expected error for %q", tc.in)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("ParseDocumentType(%q) = %q, %v", tc.in, got, err)
		}
	}
}

func TestDocumentTypeStoredValues(t *testing.T) {
	if got := DocumentTypeAll.StoredValues(); got != nil {
		t.Fatalf("expected no stored values for all, got %v", got)
	}
	got := DocumentTypeCreditNote.StoredValues()
	if len(got) != 2 || got[0] != "Kreditnota" || got[1] != "Credit note" {
		t.Fatalf("unexpected credit note values %v", got)
	}
	got[0] = "mutated"
	if DocumentTypeCreditNote.StoredValues()[0] != "Kreditnota" {
		t.Fatalf("stored values must not be shared")
	}
}

func TestParseProductCodeFilterAndSearchMode(t *testing.T) {
	if got, err := ParseProductCodeFilter("WITH_CODES"); err != nil || got != ProductCodeFilterWithCodes {
		t.Fatalf("unexpected %q %v", got, err)
	}
	if _, err := ParseProductCodeFilter("some"); err == nil {
		t.Fatalf("expected invalid filter error")
	}
	if got, err := ParseSearchMode(""); err != nil || got != SearchModeOr {
		t.Fatalf("expected OR default, got %q %v", got, err)
	}
	if got, err := ParseSearchMode("and"); err != nil || got != SearchModeAnd {
		t.Fatalf("expected AND, got %q %v", got, err)
	}
	if _, err := ParseSearchMode("xor"); err == nil {
		t.Fatalf("expected invalid mode error")
	}
}

func TestTrendDirectionAndDataSourceValidity(t *testing.T) {
	if !TrendDeclining.IsValid() || TrendDirection("sideways").IsValid() {
		t.Fatalf("unexpected trend validity")
	}
	if !DataSourcePax.IsValid() || DataSource("orders").IsValid() {
		t.Fatalf("unexpected data source validity")
	}
}
