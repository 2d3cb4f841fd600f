package database

import (
	"context"
	"path/filepath"
	"testing"
)

// openTestDB opens a migrated SQLite database in a temp dir
func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open("sqlite3", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.RunMigrations(); err != nil {
		t.Fatalf("RunMigrations() error = %v", err)
	}
	return db
}

func TestDatabaseIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openTestDB(t)
	ctx := context.Background()

	for _, table := range []string{"guests", "gifts", "purchases", "purchase_items"} {
		var name string
		err := db.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("Table %s not found: %v", table, err)
		}
	}

	applied, err := db.RunMigrations()
	if err != nil {
		t.Fatalf("second RunMigrations() error = %v", err)
	}
	if len(applied) != 0 {
		t.Errorf("second RunMigrations() applied %v again", applied)
	}
}

func TestDatabaseTransactions(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openTestDB(t)
	ctx := context.Background()

	err := db.WithTx(ctx, func(tx *Tx) error {
		_, err := tx.ExecReturningID(ctx, "INSERT INTO gifts (name, price_cents) VALUES (?, ?)", "Cafeteira", 2000)
		return err
	})
	if err != nil {
		t.Fatalf("WithTx() error = %v", err)
	}

	err = db.WithTx(ctx, func(tx *Tx) error {
		if _, err := tx.ExecContext(ctx, "INSERT INTO gifts (name, price_cents) VALUES (?, ?)", "Ferro", 999); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, "INSERT INTO no_such_table (x) VALUES (1)")
		return err
	})
	if err == nil {
		t.Fatal("WithTx() should fail on a bad statement")
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM gifts").Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("gifts = %d, want 1 (rolled back insert kept?)", count)
	}
}

func TestUniqueViolationFromDriver(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openTestDB(t)
	ctx := context.Background()

	insert := "INSERT INTO guests (name, invitation_code) VALUES (?, ?)"
	if _, err := db.ExecReturningID(ctx, insert, "Maria", "ABC123"); err != nil {
		t.Fatal(err)
	}
	_, err := db.ExecReturningID(ctx, insert, "João", "ABC123")
	if !db.Dialect.IsUniqueViolation(err) {
		t.Errorf("duplicate code error = %v, want unique violation", err)
	}
}
