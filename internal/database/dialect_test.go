package database

import (
	"strings"
	"testing"
)

func TestRewritePlaceholdersToNumbered(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"SELECT 1", "SELECT 1"},
		{"SELECT * FROM users WHERE id = ?", "SELECT * FROM users WHERE id = $1"},
		{"UPDATE t SET a = ?, b = ? WHERE id = ?", "UPDATE t SET a = $1, b = $2 WHERE id = $3"},
	}

	for _, tt := range tests {
		if got := rewritePlaceholdersToNumbered(tt.in); got != tt.want {
			t.Errorf("rewritePlaceholdersToNumbered(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDialectSQLite(t *testing.T) {
	dialect := NewSQLiteDialect()

	t.Run("DriverName", func(t *testing.T) {
		if got := dialect.DriverName(); got != "sqlite3" {
			t.Errorf("DriverName() = %v, want sqlite3", got)
		}
	})

	t.Run("DSN", func(t *testing.T) {
		dsn := dialect.DSN(DialectConfig{Path: "./quiz.db"})
		if !strings.HasPrefix(dsn, "./quiz.db?") || !strings.Contains(dsn, "_txlock=immediate") {
			t.Errorf("DSN() = %q, want immediate transactions on ./quiz.db", dsn)
		}

		dsn = dialect.DSN(DialectConfig{Path: "file:quiz.db?cache=shared"})
		if strings.Count(dsn, "?") != 1 {
			t.Errorf("DSN() = %q, want a single query separator", dsn)
		}
	})

	t.Run("RewriteQuery", func(t *testing.T) {
		q := "SELECT * FROM levels WHERE id = ?"
		if got := dialect.RewriteQuery(q); got != q {
			t.Errorf("RewriteQuery() = %q, want unchanged", got)
		}
	})

	t.Run("ForUpdate", func(t *testing.T) {
		if got := dialect.ForUpdate(); got != "" {
			t.Errorf("ForUpdate() = %q, want empty", got)
		}
	})
}

func TestDialectPostgreSQL(t *testing.T) {
	dialect := NewPostgresDialect()

	if got := dialect.DriverName(); got != "postgres" {
		t.Errorf("DriverName() = %v, want postgres", got)
	}
	if dialect.SupportsLastInsertId() {
		t.Error("SupportsLastInsertId() should return false for PostgreSQL")
	}
	if got := dialect.RewriteQuery("a = ? AND b = ?"); got != "a = $1 AND b = $2" {
		t.Errorf("RewriteQuery() = %q", got)
	}
	if got := dialect.ForUpdate(); got != " FOR UPDATE" {
		t.Errorf("ForUpdate() = %q", got)
	}
	if got := dialect.MigrationsSubdir(); got != "postgres" {
		t.Errorf("MigrationsSubdir() = %v, want postgres", got)
	}
}

func TestDialectMySQL(t *testing.T) {
	dialect := NewMySQLDialect()

	if got := dialect.DriverName(); got != "mysql" {
		t.Errorf("DriverName() = %v, want mysql", got)
	}
	if !dialect.SupportsLastInsertId() {
		t.Error("SupportsLastInsertId() should return true for MySQL")
	}

	dsn := dialect.DSN(DialectConfig{URL: "quiz:secret@tcp(localhost:3306)/quiz"})
	for _, want := range []string{"parseTime=true", "multiStatements=true", "clientFoundRows=true", "tcp(localhost:3306)/quiz"} {
		if !strings.Contains(dsn, want) {
			t.Errorf("DSN() = %q, missing %q", dsn, want)
		}
	}
}
