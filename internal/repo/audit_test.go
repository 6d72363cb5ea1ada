package repo

import (
	"context"
	"fmt"
	"testing"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/valchyai/ops-backend/internal/domain"
)

func newTestDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()
	// Use a unique in-memory database per test to avoid schema leakage across tests.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func TestInsertAudit_AndList(t *testing.T) {
	db := newTestDB(t, &domain.AuditEntry{})
	ctx := context.Background()

	if err := InsertAudit(ctx, db, "staff", domain.AuditSMSSend, "4165550100", "SM1"); err != nil {
		t.Fatalf("InsertAudit: %v", err)
	}
	if err := InsertAudit(ctx, db, "carrier", domain.AuditWebhookUpdate, "4165550100", "FirstName"); err != nil {
		t.Fatalf("InsertAudit: %v", err)
	}
	if err := InsertAudit(ctx, db, "staff", domain.AuditCardIssue, "9998887776", "card issued"); err != nil {
		t.Fatalf("InsertAudit: %v", err)
	}

	all, err := ListAudit(ctx, db, "", 10)
	if err != nil {
		t.Fatalf("ListAudit: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len(all) = %d", len(all))
	}

	byTarget, err := ListAudit(ctx, db, "4165550100", 10)
	if err != nil {
		t.Fatalf("ListAudit target: %v", err)
	}
	if len(byTarget) != 2 {
		t.Fatalf("len(byTarget) = %d", len(byTarget))
	}
	for _, row := range byTarget {
		if row.Target != "4165550100" {
			t.Fatalf("unexpected row: %+v", row)
		}
	}
}

func TestListAudit_ClampsLimit(t *testing.T) {
	db := newTestDB(t, &domain.AuditEntry{})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := InsertAudit(ctx, db, "staff", domain.AuditFieldUpdate, "555", fmt.Sprintf("row %d", i)); err != nil {
			t.Fatalf("InsertAudit: %v", err)
		}
	}

	// limit < 1 falls back to the default of 50, so all rows come back.
	rows, err := ListAudit(ctx, db, "", 0)
	if err != nil {
		t.Fatalf("ListAudit: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d", len(rows))
	}
}

func TestInsertAudit_Error_NoTable(t *testing.T) {
	db := newTestDB(t) // intentionally NOT migrating audit_entries
	if err := InsertAudit(context.Background(), db, "staff", domain.AuditSMSSend, "555", ""); err == nil {
		t.Fatal("expected error when table is missing")
	}
}

func TestOpenSQLite_CreatesAndMigrates(t *testing.T) {
	path := t.TempDir() + "/audit.db"
	db, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	if !db.Migrator().HasTable(&domain.AuditEntry{}) || !db.Migrator().HasTable(&domain.WebhookEvent{}) {
		t.Fatal("expected migrated tables")
	}
}

func TestOpenSQLite_MissingParentDir(t *testing.T) {
	if _, err := OpenSQLite("/definitely/missing/dir/x.db"); err == nil {
		t.Fatal("expected error for missing parent directory")
	}
}
