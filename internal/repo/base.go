package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/spendwise-backend/pkg/pagination"
)

// Base provides the shared connection handling of read repositories.
type Base struct {
	db *gorm.DB
}

// NewBase constructs a Base repository backed by the provided GORM connection.
func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the GORM connection bound to the supplied context (if any).
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// FindPage applies page to an already ordered query and scans the rows into dest.
// Callers must order by a unique column set so consecutive pages never overlap.
func FindPage[T any](query *gorm.DB, page pagination.Page, dest *[]T) error {
	if page.Size <= 0 {
		page = pagination.First(page.Size)
	}
	return query.Offset(page.Offset).Limit(page.Size).Find(dest).Error
}
