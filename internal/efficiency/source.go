package efficiency

import (
	"context"

	"github.com/angelmondragon/spendwise-backend/pkg/pagination"
)

// RecordSource is the read-only, paginated view over procurement data.
// Pages must be served from a stable ordering so offsets never skip or repeat rows.
type RecordSource interface {
	TransactionsPage(ctx context.Context, filter Filter, page pagination.Page) ([]TransactionRecord, error)
	PaxPage(ctx context.Context, query PaxQuery, page pagination.Page) ([]PaxRecord, error)
	Locations(ctx context.Context, organizationID, businessUnitID string) ([]Location, error)
}

// fetchAll walks pages until a short page. Cancellation is checked before every request.
func fetchAll[T any](ctx context.Context, size int, load func(context.Context, pagination.Page) ([]T, error)) ([]T, int, error) {
	var (
		out   []T
		pages int
	)
	page := pagination.First(size)
	for {
		if err := ctx.Err(); err != nil {
			return nil, pages, err
		}
		rows, err := load(ctx, page)
		if err != nil {
			return nil, pages, err
		}
		pages++
		out = append(out, rows...)
		if page.IsLast(len(rows)) {
			return out, pages, nil
		}
		page = page.Next()
	}
}
