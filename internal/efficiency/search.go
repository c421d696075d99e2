package efficiency

import (
	"strings"

	"github.com/angelmondragon/spendwise-backend/pkg/enums"
)

// ProductSearch is a free-text filter over products. Terms prefixed with "-" exclude.
type ProductSearch struct {
	Terms []string         `json:"terms,omitempty"`
	Mode  enums.SearchMode `json:"mode,omitempty"`
}

type compiledSearch struct {
	include []string
	exclude []string
	all     bool
}

func (s ProductSearch) compile() compiledSearch {
	compiled := compiledSearch{all: s.Mode == enums.SearchModeAnd}
	for _, raw := range s.Terms {
		term := strings.ToLower(strings.TrimSpace(raw))
		if excluded, ok := strings.CutPrefix(term, "-"); ok {
			if excluded = strings.TrimSpace(excluded); excluded != "" {
				compiled.exclude = append(compiled.exclude, excluded)
			}
			continue
		}
		if term != "" {
			compiled.include = append(compiled.include, term)
		}
	}
	return compiled
}

func (c compiledSearch) empty() bool {
	return len(c.include) == 0 && len(c.exclude) == 0
}

// matches checks a product-location pair against the search.
// Description, product label and location name are searched case-insensitively.
func (c compiledSearch) matches(info ProductInfo) bool {
	if c.empty() {
		return true
	}
	haystack := []string{
		strings.ToLower(info.Description),
		strings.ToLower(info.ProductCode),
		strings.ToLower(info.LocationName),
	}
	contains := func(term string) bool {
		for _, field := range haystack {
			if strings.Contains(field, term) {
				return true
			}
		}
		return false
	}

	for _, term := range c.exclude {
		if contains(term) {
			return false
		}
	}
	if len(c.include) == 0 {
		return true
	}
	for _, term := range c.include {
		hit := contains(term)
		if c.all && !hit {
			return false
		}
		if !c.all && hit {
			return true
		}
	}
	return c.all
}
