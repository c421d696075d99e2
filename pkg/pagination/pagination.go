package pagination

const (
	// DefaultPageSize is the number of rows requested per page from record sources.
	DefaultPageSize = 1000
	// DefaultLimit is the standard list size when a limit is not provided.
	DefaultLimit = 10
	// MaxLimit caps how many rows any list endpoint returns.
	MaxLimit = 50
)

// Page describes one offset page of a stable, fully ordered query.
type Page struct {
	Offset int
	Size   int
}

// First returns the opening page for the given size, falling back to DefaultPageSize.
func First(size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	return Page{Offset: 0, Size: size}
}

// Next returns the page following p.
func (p Page) Next() Page {
	return Page{Offset: p.Offset + p.Size, Size: p.Size}
}

// IsLast reports whether a page that returned n rows ends the result set.
func (p Page) IsLast(n int) bool {
	return n < p.Size
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
