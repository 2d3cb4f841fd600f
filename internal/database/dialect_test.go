package database

import (
	"errors"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

func TestDialectFor(t *testing.T) {
	tests := []struct {
		dbType       string
		wantDriver   string
		wantSubdir   string
		lastInsertID bool
		wantErr      bool
	}{
		{dbType: "", wantDriver: "sqlite3", wantSubdir: "sqlite", lastInsertID: true},
		{dbType: "sqlite3", wantDriver: "sqlite3", wantSubdir: "sqlite", lastInsertID: true},
		{dbType: "PostgreSQL", wantDriver: "postgres", wantSubdir: "postgres", lastInsertID: false},
		{dbType: "mysql", wantDriver: "mysql", wantSubdir: "mysql", lastInsertID: true},
		{dbType: "oracle", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.dbType, func(t *testing.T) {
			d, err := DialectFor(tt.dbType)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("DialectFor(%q) error = nil", tt.dbType)
				}
				return
			}
			if err != nil {
				t.Fatalf("DialectFor(%q) error = %v", tt.dbType, err)
			}
			if d.DriverName() != tt.wantDriver {
				t.Errorf("DriverName() = %v, want %v", d.DriverName(), tt.wantDriver)
			}
			if d.MigrationsSubdir() != tt.wantSubdir {
				t.Errorf("MigrationsSubdir() = %v, want %v", d.MigrationsSubdir(), tt.wantSubdir)
			}
			if d.SupportsLastInsertId() != tt.lastInsertID {
				t.Errorf("SupportsLastInsertId() = %v, want %v", d.SupportsLastInsertId(), tt.lastInsertID)
			}
		})
	}
}

func TestRewriteQuery(t *testing.T) {
	query := "UPDATE guests SET name = ?, email = ? WHERE invitation_code = ?"

	if got := NewPostgresDialect().RewriteQuery(query); got != "UPDATE guests SET name = $1, email = $2 WHERE invitation_code = $3" {
		t.Errorf("postgres RewriteQuery() = %q", got)
	}
	if got := NewSQLiteDialect().RewriteQuery(query); got != query {
		t.Errorf("sqlite RewriteQuery() = %q", got)
	}
	if got := NewMySQLDialect().RewriteQuery(query); got != query {
		t.Errorf("mysql RewriteQuery() = %q", got)
	}
}

func TestDSN(t *testing.T) {
	if got := NewSQLiteDialect().DSN(DialectConfig{Path: "./casamento.db"}); got != "file:./casamento.db?_foreign_keys=on&_busy_timeout=5000" {
		t.Errorf("sqlite DSN() = %q", got)
	}
	if got := NewSQLiteDialect().DSN(DialectConfig{Path: "file:x.db?mode=ro"}); got != "file:x.db?mode=ro" {
		t.Errorf("sqlite DSN() with options = %q", got)
	}
	if got := NewMySQLDialect().DSN(DialectConfig{URL: "user:pw@tcp(localhost:3306)/casamento"}); got != "user:pw@tcp(localhost:3306)/casamento?parseTime=true" {
		t.Errorf("mysql DSN() = %q", got)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		err     error
		want    bool
	}{
		{name: "sqlite unique", dialect: NewSQLiteDialect(), err: sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}, want: true},
		{name: "sqlite other", dialect: NewSQLiteDialect(), err: sqlite3.Error{Code: sqlite3.ErrBusy}, want: false},
		{name: "postgres unique", dialect: NewPostgresDialect(), err: &pq.Error{Code: "23505"}, want: true},
		{name: "postgres fk", dialect: NewPostgresDialect(), err: &pq.Error{Code: "23503"}, want: false},
		{name: "mysql duplicate", dialect: NewMySQLDialect(), err: &mysql.MySQLError{Number: 1062}, want: true},
		{name: "plain error", dialect: NewMySQLDialect(), err: errors.New("boom"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dialect.IsUniqueViolation(tt.err); got != tt.want {
				t.Errorf("IsUniqueViolation() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSplitStatements(t *testing.T) {
	stmts := splitStatements("CREATE TABLE a (id INT);\n\nCREATE INDEX i ON a(id);\n")
	if len(stmts) != 2 || stmts[1] != "CREATE INDEX i ON a(id)" {
		t.Errorf("splitStatements() = %q", stmts)
	}
}
