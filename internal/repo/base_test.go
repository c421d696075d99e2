package repo

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/spendwise-backend/pkg/pagination"
)

type pagedRow struct {
	ID   int
	Name string
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	return conn
}

func TestBaseDB_BindsContext(t *testing.T) {
	db := newTestDB(t)
	base := NewBase(db)

	ctx := context.WithValue(context.Background(), struct{}{}, "value")
	withCtx := base.DB(ctx)

	if withCtx.Statement == nil || withCtx.Statement.Context != ctx {
		t.Fatalf("expected context to flow through")
	}
	if base.DB(nil) != db {
		t.Fatalf("expected nil context to return raw connection")
	}
}

func TestFindPageWalksOrderedRows(t *testing.T) {
	db := newTestDB(t)
	if err := db.Exec(`CREATE TABLE paged_rows (id INTEGER PRIMARY KEY, name TEXT)`).Error; err != nil {
		t.Fatalf("create table: %v", err)
	}
	for i, name := range []string{"a", "b", "c", "d", "e"} {
		if err := db.Exec(`INSERT INTO paged_rows (id, name) VALUES (?, ?)`, i+1, name).Error; err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	base := NewBase(db)
	page := pagination.First(2)
	var seen []string
	for {
		var rows []pagedRow
		if err := FindPage(base.DB(context.Background()).Table("paged_rows").Order("id ASC"), page, &rows); err != nil {
			t.Fatalf("find page: %v", err)
		}
		for _, row := range rows {
			seen = append(seen, row.Name)
		}
		if page.IsLast(len(rows)) {
			break
		}
		page = page.Next()
	}

	if len(seen) != 5 || seen[0] != "a" || seen[4] != "e" {
		t.Fatalf("unexpected rows %v", seen)
	}
}
