package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/spendwise-backend/pkg/errors"
)

type sampleRequest struct {
	ID   string `json:"id" validate:"required,uuid"`
	Mode string `json:"mode" validate:"omitempty,oneof=OR AND"`
}

func TestDecodeJSONBodyValidates(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"id":"nope","mode":"XOR"}`))
	var dest sampleRequest

	err := DecodeJSONBody(req, &dest)

	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("unexpected details %T", typed.Details())
	}
	if details["id"] != "must be a valid uuid" || details["mode"] != "must be one of OR AND" {
		t.Fatalf("unexpected details %v", details)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"id":"8a1f2a5e-6f0e-4a43-9a57-31c1f4c0d0aa","extra":1}`))
	if err := DecodeJSONBody(req, &sampleRequest{}); err == nil {
		t.Fatal("expected unknown field error")
	}
}

func TestParseQueryList(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?location_ids=a,b&location_ids=c&location_ids=", nil)
	got := ParseQueryList(req, "location_ids")
	if strings.Join(got, "|") != "a|b|c" {
		t.Fatalf("unexpected list %v", got)
	}
}

func TestParseQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=80", nil)
	if _, err := ParseQueryInt(req, "limit", 10, 1, 50); err == nil {
		t.Fatal("expected out of range error")
	}
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	if got, err := ParseQueryInt(req, "limit", 10, 1, 50); err != nil || got != 10 {
		t.Fatalf("expected default 10, got %d (%v)", got, err)
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  olive oil  ", 5); got != "olive" {
		t.Fatalf("unexpected %q", got)
	}
	if got := SanitizeString("rødløg \t  fint\x00", 0); got != "rødløg fint" {
		t.Fatalf("unexpected %q", got)
	}
	if got := SanitizeString("smør", 3); got != "smø" {
		t.Fatalf("expected rune truncation, got %q", got)
	}
}
