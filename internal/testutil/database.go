package testutil

import (
	"database/sql"
	"fmt"
	"os"
	"testing"

	_ "github.com/go-sql-driver/mysql"

	"phonestore/internal/migrations"
)

const defaultTestDSN = "root:@tcp(localhost:3306)/phonestore_test?parseTime=true&multiStatements=true&clientFoundRows=true"

// SetupTestDB connects to the local integration database named by
// TEST_DATABASE_DSN, skipping the test when it is unreachable. The connection
// is closed when the test finishes.
func SetupTestDB(t *testing.T) *sql.DB {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = defaultTestDSN
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("test database not available: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

// SetupTestTables brings the schema up to date using the embedded migrations.
func SetupTestTables(t *testing.T, db *sql.DB) {
	if err := migrations.Up(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
}

// DeleteOnCleanup removes the row with the given id when the test finishes.
// Tests only remove what they created so packages can share one database.
func DeleteOnCleanup(t *testing.T, db *sql.DB, table, id string) {
	t.Cleanup(func() {
		if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s WHERE id = ?", table), id); err != nil {
			t.Logf("failed to clean %s row %s: %v", table, id, err)
		}
	})
}
