package pagination

import "testing"

func TestPageWalk(t *testing.T) {
	page := First(0)
	if page.Size != DefaultPageSize || page.Offset != 0 {
		t.Fatalf("unexpected first page %+v", page)
	}

	next := page.Next()
	if next.Offset != DefaultPageSize || next.Size != DefaultPageSize {
		t.Fatalf("unexpected next page %+v", next)
	}

	if page.IsLast(DefaultPageSize) {
		t.Fatalf("a full page must not end the walk")
	}
	if !page.IsLast(DefaultPageSize - 1) {
		t.Fatalf("a short page must end the walk")
	}
	if !page.IsLast(0) {
		t.Fatalf("an empty page must end the walk")
	}
}

func TestNormalizeLimit(t *testing.T) {
	cases := map[int]int{-1: DefaultLimit, 0: DefaultLimit, 5: 5, MaxLimit + 1: MaxLimit}
	for in, want := range cases {
		if got := NormalizeLimit(in); got != want {
			t.Fatalf("NormalizeLimit(%d) = %d, want %d", in, got, want)
		}
	}
}
